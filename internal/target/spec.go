// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package target

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Spec is a rustc target specification in target-spec-json format.
//
// Only the fields this tool actually sets are modeled. Field order is the
// serialization order, so the canonical JSON form is stable for a given tool
// version.
type Spec struct {
	Arch           string `json:"arch"`
	CodeModel      string `json:"code-model,omitempty"`
	DataLayout     string `json:"data-layout"`
	DisableRedzone bool   `json:"disable-redzone,omitempty"`
	EntryName      string `json:"entry-name,omitempty"`
	Features       string `json:"features,omitempty"`
	Linker         string `json:"linker,omitempty"`
	LinkerFlavor   string `json:"linker-flavor,omitempty"`
	LLVMTarget     string `json:"llvm-target"`
	MaxAtomicWidth int    `json:"max-atomic-width,omitempty"`
	OS             string `json:"os,omitempty"`
	PanicStrategy  string `json:"panic-strategy,omitempty"`

	PositionIndependentExecutables bool `json:"position-independent-executables,omitempty"`

	// PreLinkArgs maps a linker flavor to the arguments passed before any
	// object files.
	PreLinkArgs map[string][]string `json:"pre-link-args,omitempty"`

	RelocationModel string `json:"relocation-model,omitempty"`
	RelroLevel      string `json:"relro-level,omitempty"`

	StaticPositionIndependentExecutables bool `json:"static-position-independent-executables,omitempty"`

	TargetPointerWidth string `json:"target-pointer-width"`
}

// Descriptor is the resolved compilation target: the triple the build tool
// is invoked with together with the specification rustc compiles against.
//
// Descriptors are value objects. Identity is the content hash of the
// canonical JSON form of the spec.
type Descriptor struct {
	Triple string
	Spec   Spec
}

// SpecJSON returns the canonical JSON serialization of the target
// specification. The output is byte-identical for identical descriptors.
func (d *Descriptor) SpecJSON() ([]byte, error) {
	b, err := json.MarshalIndent(&d.Spec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal target spec: %w", err)
	}

	return append(b, '\n'), nil
}

// Hash returns the hex encoded SHA-256 of the canonical spec serialization.
func (d *Descriptor) Hash() (string, error) {
	b, err := d.SpecJSON()
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(b)

	return hex.EncodeToString(sum[:]), nil
}
