// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package target

import (
	"fmt"
	"strings"
)

// TripleSuffix is the OS/env part all hyperlight guest triples share. The
// "none" tag marks the target as freestanding.
const TripleSuffix = "-hyperlight-none"

// DefaultTriple is the only triple with a bundled specification.
const DefaultTriple = "x86_64" + TripleSuffix

// EntrySymbol is the guest binary entry point the hyperlight host jumps to.
const EntrySymbol = "entrypoint"

// Normalize rewrites the given triple to a hyperlight guest triple.
//
// An empty triple resolves to [DefaultTriple]. A triple that already carries
// [TripleSuffix] is returned unchanged. Any other triple keeps its
// architecture but has its OS part replaced; the second return value reports
// whether such a rewrite happened so callers can warn about it.
func Normalize(triple string) (string, bool) {
	if triple == "" {
		return DefaultTriple, false
	}

	if strings.HasSuffix(triple, TripleSuffix) {
		return triple, false
	}

	arch, _, _ := strings.Cut(triple, "-")

	return arch + TripleSuffix, true
}

// Resolve returns the canonical [Descriptor] for the given triple.
//
// The descriptor is synthesized from fixed fields, so identical tool versions
// produce byte-identical specs and therefore stable cache keys. Only the
// x86_64 guest triple is supported.
func Resolve(triple string) (*Descriptor, error) {
	if triple == "" {
		triple = DefaultTriple
	}

	if triple != DefaultTriple {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTriple, triple)
	}

	desc := &Descriptor{
		Triple: triple,
		Spec: Spec{
			Arch:      "x86_64",
			CodeModel: "small",
			DataLayout: "e-m:e-p270:32:32-p271:32:32-p272:64:64-" +
				"i64:64-i128:128-f80:128-n8:16:32:64-S128",
			DisableRedzone: true,
			EntryName:      EntrySymbol,
			Features:       "-mmx,-sse,+soft-float",
			Linker:         "rust-lld",
			LinkerFlavor:   "gnu-lld",
			LLVMTarget:     "x86_64-unknown-none-elf",
			MaxAtomicWidth: 64,
			OS:             "none",
			PanicStrategy:  "abort",

			PositionIndependentExecutables: true,

			PreLinkArgs: map[string][]string{
				"gnu-lld": {"-znostart-stop-gc"},
			},

			RelocationModel: "pic",
			RelroLevel:      "full",

			StaticPositionIndependentExecutables: true,

			TargetPointerWidth: "64",
		},
	}

	return desc, nil
}
