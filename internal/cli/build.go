// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/artifact"
	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/cargo"
	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/deps"
	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/target"
	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/toolchain"
)

func newBuildCmd(streams *IO, opts *options) *cobra.Command {
	var release bool

	cmd := &cobra.Command{
		Use:   "build [flags] [-- cargo-args...]",
		Short: "Build the guest crate for the hyperlight target",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, streams, opts, release, args)
		},
	}

	cmd.Flags().BoolVar(&release, "release", false,
		"build with the release profile")

	return cmd
}

// runBuild is the full build pipeline: resolve the target, validate the
// dependency graph, ensure the sysroot and drive cargo.
func runBuild(
	cmd *cobra.Command,
	streams *IO,
	opts *options,
	release bool,
	cargoArgs []string,
) error {
	ctx := cmd.Context()

	bin, err := cargo.Find()
	if err != nil {
		return err
	}

	meta, err := deps.LoadMetadata(ctx, bin, opts.ManifestPath)
	if err != nil {
		return err
	}

	err = deps.Validate(deps.NewGraph(meta))
	if err != nil {
		return err
	}

	desc, err := resolveTarget(streams, opts.Triple)
	if err != nil {
		return err
	}

	builder, err := newSysrootBuilder(ctx, streams, bin, desc)
	if err != nil {
		return err
	}

	sysrootDir, err := builder.Ensure(ctx)
	if err != nil {
		return fmt.Errorf("ensure sysroot: %w", err)
	}

	shim := &toolchain.Shim{
		Descriptor: desc,
		SysrootDir: sysrootDir,
	}

	spec := &cargo.BuildSpec{
		ManifestPath: opts.ManifestPath,
		Release:      release,
		Triple:       desc.Triple,
		TargetDir:    opts.TargetDir,
		SysrootDir:   sysrootDir,
		EntrySymbol:  target.EntrySymbol,
		Rustflags:    os.Getenv("RUSTFLAGS"),
		ShimEnv:      shim.Environment(),
		CargoArgs:    cargoArgs,
	}

	err = bin.Build(ctx, spec, streams.Stdin, streams.Stdout, streams.Stderr)
	if err != nil {
		return err
	}

	reportArtifact(streams, opts, meta, desc.Triple, release)

	return nil
}

// reportArtifact prints the expected guest binary location. Best effort: the
// build already succeeded, a crate layout the locator does not understand is
// not an error.
func reportArtifact(
	streams *IO,
	opts *options,
	meta *deps.Metadata,
	triple string,
	release bool,
) {
	name, err := meta.BinaryName()
	if err != nil {
		slog.Debug("Cannot determine binary name", slog.Any("error", err))
		return
	}

	targetDir := opts.TargetDir
	if targetDir == "" {
		targetDir = meta.TargetDirectory
	}

	locator := &artifact.Locator{
		TargetDir:  targetDir,
		Triple:     triple,
		Profile:    artifact.ProfileName(release),
		BinaryName: name,
	}

	if locator.Exists() {
		fmt.Fprintf(streams.Stderr, "Guest binary: %s\n", locator.Path())
	} else {
		slog.Debug("Expected artifact not found",
			slog.String("path", locator.Path()))
	}
}
