// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package sysroot

import "errors"

var (
	// ErrNotPublished is returned if an operation needs a completed cache
	// entry and none exists for the key.
	ErrNotPublished = errors.New("no published sysroot for key")

	// ErrInvalidArchive is returned if an imported archive is not a
	// sysroot entry export.
	ErrInvalidArchive = errors.New("invalid sysroot archive")

	// ErrUnsupportedFileType is returned for files that do not round-trip
	// through an entry archive.
	ErrUnsupportedFileType = errors.New("unsupported file type")
)
