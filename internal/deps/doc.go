// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

// Package deps inspects a crate's resolved dependency graph. Its main job is
// the pre-flight check that the guest runtime provider crate is reachable
// before any expensive sysroot or compilation work starts.
package deps
