// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/cargo"
	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/sysroot"
	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/target"
)

// cacheEnvVar overrides the sysroot cache location, mostly for tests and CI
// jobs that want an isolated cache.
const cacheEnvVar = "CARGO_HYPERLIGHT_CACHE_DIR"

// IO bundles the standard streams of an invocation.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// options are the persistent flags shared by all subcommands.
type options struct {
	Debug        bool
	ManifestPath string
	Triple       string
	TargetDir    string
}

func newRootCmd(streams *IO) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "cargo-hyperlight",
		Short: "Build hyperlight guest binaries",
		Long: "cargo-hyperlight cross-compiles freestanding hyperlight " +
			"guest binaries. It resolves the guest target, builds and " +
			"caches a matching sysroot and drives cargo with the " +
			"required environment.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogging(streams.Stderr, opts.Debug)
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false,
		"enable debug output")
	cmd.PersistentFlags().StringVar(&opts.ManifestPath, "manifest-path", "",
		"path to the guest crate's Cargo.toml")
	cmd.PersistentFlags().StringVar(&opts.Triple, "target", "",
		"guest target triple")
	cmd.PersistentFlags().StringVar(&opts.TargetDir, "target-dir", "",
		"directory for build artifacts")

	cmd.AddCommand(
		newBuildCmd(streams, opts),
		newEnvCmd(streams, opts),
		newLocateCmd(streams, opts),
		newSysrootCmd(streams, opts),
	)

	return cmd
}

// resolveTarget normalizes and resolves the requested triple. A rewrite of a
// foreign triple is allowed but warned about, since the user most likely
// passed a host triple by accident.
func resolveTarget(streams *IO, triple string) (*target.Descriptor, error) {
	normalized, rewritten := target.Normalize(triple)
	if rewritten {
		printWarning(streams.Stderr,
			"target %q is not a hyperlight triple, building for %s instead",
			triple, normalized)
	}

	return target.Resolve(normalized)
}

// cacheRoot returns the sysroot cache location.
func cacheRoot() string {
	if dir := os.Getenv(cacheEnvVar); dir != "" {
		return dir
	}

	return sysroot.DefaultRoot()
}

// newSysrootBuilder assembles the sysroot builder for the resolved target
// and the active toolchain.
func newSysrootBuilder(
	ctx context.Context,
	streams *IO,
	bin *cargo.Binary,
	desc *target.Descriptor,
) (*sysroot.Builder, error) {
	version, err := bin.RustcVersion(ctx)
	if err != nil {
		return nil, err
	}

	return &sysroot.Builder{
		Cache:            sysroot.Cache{Root: cacheRoot()},
		Cargo:            bin,
		Descriptor:       desc,
		ToolchainVersion: version,
		Output:           streams.Stderr,
	}, nil
}
