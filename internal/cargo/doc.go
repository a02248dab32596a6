// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

// Package cargo drives the cargo build tool. It resolves the cargo binary,
// compiles build invocations into argument lists and environments, streams
// child process output and mirrors child exit codes.
package cargo
