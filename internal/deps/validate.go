// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package deps

// GuestRuntimeCrate provides the guest entry points and panic handler every
// guest binary must link against.
const GuestRuntimeCrate = "hyperlight-guest-bin"

// Validate asserts that the guest runtime provider crate is part of the
// crate's transitive dependency closure. It returns a
// [MissingProviderError] otherwise.
//
// The provider may appear at any depth; a direct dependency is not
// required.
func Validate(graph *Graph) error {
	if !graph.Reachable(GuestRuntimeCrate) {
		return &MissingProviderError{Crate: GuestRuntimeCrate}
	}

	return nil
}
