// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

// Package sysroot builds and caches the freestanding standard library
// subset (core and alloc) for the guest target.
//
// Cache entries are keyed by toolchain version and target descriptor hash.
// Entries are never mutated in place: a build happens in a temporary sibling
// directory that is atomically renamed into place, guarded by a per-key
// file lock, so concurrent invocations never observe a partially written
// sysroot.
package sysroot
