// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package deps

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRootPackage is returned if the metadata has neither a resolve
	// root nor a single workspace member to treat as the crate being
	// built.
	ErrNoRootPackage = errors.New("no root package in cargo metadata")

	// ErrNoPackageName is returned if a Cargo.toml lacks [package].name.
	ErrNoPackageName = errors.New("missing [package].name")
)

// MissingProviderError is returned by [Validate] if the guest runtime
// provider crate is not reachable in the dependency graph.
type MissingProviderError struct {
	Crate string
}

func (e *MissingProviderError) Error() string {
	return fmt.Sprintf(
		"crate does not depend on %q; add it to [dependencies] in "+
			"Cargo.toml so the guest binary links against the guest "+
			"runtime entry points",
		e.Crate,
	)
}

func (e *MissingProviderError) Is(other error) bool {
	_, ok := other.(*MissingProviderError)
	return ok
}
