// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

// Package toolchain computes the environment consumed by native-code build
// steps of dependency build scripts. Variables for the C compiler driver
// (cc-rs) and the binding generator (bindgen) are scoped to the guest target
// triple so that host-side helper programs keep compiling with the host
// defaults.
package toolchain
