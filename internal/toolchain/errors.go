// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package toolchain

import "errors"

var (
	// ErrNoCompiler is returned if no cross-capable C compiler is found.
	ErrNoCompiler = errors.New("no C compiler found")

	// ErrNoArchiver is returned if no static library archiver is found.
	ErrNoArchiver = errors.New("no archiver found")
)
