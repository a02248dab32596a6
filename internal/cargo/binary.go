// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package cargo

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Binary is a resolved cargo executable.
//
// RustupToolchain is carried along so rustup's wrapper binaries keep
// selecting the same toolchain in every child process.
type Binary struct {
	Path            string
	RustupToolchain string
}

// Find resolves the cargo binary.
//
// The CARGO environment variable wins if set, matching the convention cargo
// itself uses when invoking external subcommands. Otherwise cargo is looked
// up in PATH.
func Find() (*Binary, error) {
	path := os.Getenv("CARGO")
	if path == "" {
		var err error

		path, err = exec.LookPath("cargo")
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCargoNotFound, err)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve cargo path: %w", err)
	}

	return &Binary{
		Path:            abs,
		RustupToolchain: os.Getenv("RUSTUP_TOOLCHAIN"),
	}, nil
}

// Command returns an [exec.Cmd] for the cargo binary with the given
// arguments. The process environment is inherited.
func (b *Binary) Command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, b.Path, args...)
	cmd.Env = os.Environ()

	if b.RustupToolchain != "" {
		cmd.Env = append(cmd.Env, "RUSTUP_TOOLCHAIN="+b.RustupToolchain)
	}

	return cmd
}
