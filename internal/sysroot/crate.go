// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package sysroot

import (
	"fmt"
	"os"
	"path/filepath"
)

// The scratch crate exists only to give "cargo rustc -Zbuild-std" a package
// to resolve; its own library is empty. core and alloc are built as its
// dependencies.
const (
	scratchManifest = `[package]
name = "sysroot"
version = "0.0.0"
edition = "2021"

[lib]
path = "lib.rs"

[profile.release]
panic = "abort"
`

	scratchLib = "#![no_std]\n"
)

// writeScratchCrate creates the scratch package in dir.
func writeScratchCrate(dir string) error {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return fmt.Errorf("create scratch crate dir: %w", err)
	}

	files := map[string]string{
		"Cargo.toml": scratchManifest,
		"lib.rs":     scratchLib,
	}

	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
		if err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	return nil
}
