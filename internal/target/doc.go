// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

// Package target resolves the custom compilation target for hyperlight guest
// binaries. It synthesizes the target specification in rustc's
// target-spec-json format and derives a stable content hash from it that is
// used as part of the sysroot cache key.
package target
