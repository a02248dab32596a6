// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/cargo"
	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/target"
	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/toolchain"
)

func newEnvCmd(streams *IO, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Print the build environment as KEY=VALUE lines",
		Long: "Print the environment a guest build runs with, one " +
			"KEY=VALUE per line. The sysroot path refers to the cache " +
			"entry for the active toolchain; it may not be built yet.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEnv(cmd, streams, opts)
		},
	}
}

func runEnv(cmd *cobra.Command, streams *IO, opts *options) error {
	desc, err := resolveTarget(streams, opts.Triple)
	if err != nil {
		return err
	}

	bin, err := cargo.Find()
	if err != nil {
		return err
	}

	builder, err := newSysrootBuilder(cmd.Context(), streams, bin, desc)
	if err != nil {
		return err
	}

	key, err := builder.Key()
	if err != nil {
		return err
	}

	// The entry path is deterministic, so it is valid output even before
	// the first build published it.
	sysrootDir := builder.Cache.EntryDir(key)

	shim := &toolchain.Shim{
		Descriptor: desc,
		SysrootDir: sysrootDir,
	}

	spec := &cargo.BuildSpec{
		Triple:      desc.Triple,
		TargetDir:   opts.TargetDir,
		SysrootDir:  sysrootDir,
		EntrySymbol: target.EntrySymbol,
		Rustflags:   os.Getenv("RUSTFLAGS"),
		ShimEnv:     shim.Environment(),
	}

	for _, line := range spec.Environment().Sorted() {
		fmt.Fprintln(streams.Stdout, line)
	}

	return nil
}
