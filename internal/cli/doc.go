// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

// Package cli provides the cargo-hyperlight command entry point. It handles
// argument parsing, wires the build pipeline together and maps errors to
// exit codes.
package cli
