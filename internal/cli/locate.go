// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/artifact"
	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/deps"
	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/target"
)

func newLocateCmd(streams *IO, opts *options) *cobra.Command {
	var release bool

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Print the expected guest binary path",
		Long: "Print where a build places the guest binary. Only the " +
			"crate manifest is read; cargo is not invoked and the binary " +
			"need not exist.",
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runLocate(streams, opts, release)
		},
	}

	cmd.Flags().BoolVar(&release, "release", false,
		"locate the release profile artifact")

	return cmd
}

func runLocate(streams *IO, opts *options, release bool) error {
	manifestPath := opts.ManifestPath
	if manifestPath == "" {
		manifestPath = "Cargo.toml"
	}

	manifest, err := deps.LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	triple, rewritten := target.Normalize(opts.Triple)
	if rewritten {
		printWarning(streams.Stderr,
			"target %q is not a hyperlight triple, locating for %s instead",
			opts.Triple, triple)
	}

	locator := &artifact.Locator{
		TargetDir:  locateTargetDir(opts, manifestPath),
		Triple:     triple,
		Profile:    artifact.ProfileName(release),
		BinaryName: manifest.BinaryName(),
	}

	fmt.Fprintln(streams.Stdout, locator.Path())

	return nil
}

// locateTargetDir resolves the artifact directory the way cargo does, minus
// the config file layers: flag, then environment, then the enclosing
// workspace's target directory, then the manifest's sibling one.
func locateTargetDir(opts *options, manifestPath string) string {
	if opts.TargetDir != "" {
		return opts.TargetDir
	}

	if dir := os.Getenv("CARGO_TARGET_DIR"); dir != "" {
		return dir
	}

	manifestDir := filepath.Dir(manifestPath)
	if root, ok := deps.WorkspaceRoot(manifestDir); ok {
		return filepath.Join(root, "target")
	}

	return filepath.Join(manifestDir, "target")
}
