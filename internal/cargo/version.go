// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package cargo

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// RustcVersion returns the version line of the rustc the build will use,
// e.g. "rustc 1.81.0 (eeb90cda1 2024-09-04)". It is part of the sysroot
// cache key, so a toolchain switch invalidates cached sysroots.
func (b *Binary) RustcVersion(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, b.rustcPath(), "--version")
	cmd.Env = os.Environ()

	if b.RustupToolchain != "" {
		cmd.Env = append(cmd.Env, "RUSTUP_TOOLCHAIN="+b.RustupToolchain)
	}

	out, err := Output(cmd)
	if err != nil {
		return "", err
	}

	version, _, _ := strings.Cut(string(out), "\n")

	return strings.TrimSpace(version), nil
}

// rustcPath returns the rustc belonging to the resolved cargo binary. cargo
// invokes the rustc installed next to itself, so a PATH carrying a different
// toolchain must not leak into the version. Without a sibling rustc the PATH
// lookup is the remaining option.
func (b *Binary) rustcPath() string {
	sibling := filepath.Join(filepath.Dir(b.Path), "rustc")

	info, err := os.Stat(sibling)
	if err == nil && info.Mode().IsRegular() && info.Mode()&0o111 != 0 {
		return sibling
	}

	return "rustc"
}
