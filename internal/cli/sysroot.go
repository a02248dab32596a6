// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/cargo"
	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/sysroot"
)

func newSysrootCmd(streams *IO, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sysroot",
		Short: "Manage the cached guest sysroots",
	}

	cmd.AddCommand(
		newSysrootBuildCmd(streams, opts),
		newSysrootPathCmd(streams, opts),
		newSysrootCleanCmd(streams, opts),
		newSysrootExportCmd(streams, opts),
		newSysrootImportCmd(streams, opts),
	)

	return cmd
}

// activeBuilder resolves the target and toolchain the other sysroot
// subcommands operate on.
func activeBuilder(
	cmd *cobra.Command, streams *IO, opts *options,
) (*sysroot.Builder, error) {
	desc, err := resolveTarget(streams, opts.Triple)
	if err != nil {
		return nil, err
	}

	bin, err := cargo.Find()
	if err != nil {
		return nil, err
	}

	return newSysrootBuilder(cmd.Context(), streams, bin, desc)
}

func newSysrootBuildCmd(streams *IO, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the sysroot for the active toolchain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			builder, err := activeBuilder(cmd, streams, opts)
			if err != nil {
				return err
			}

			dir, err := builder.Ensure(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(streams.Stdout, dir)

			return nil
		},
	}
}

func newSysrootPathCmd(streams *IO, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the sysroot cache entry path",
		Long: "Print the cache entry path for the active toolchain and " +
			"target. The entry may not be built yet; use \"sysroot " +
			"build\" to ensure it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			builder, err := activeBuilder(cmd, streams, opts)
			if err != nil {
				return err
			}

			key, err := builder.Key()
			if err != nil {
				return err
			}

			fmt.Fprintln(streams.Stdout, builder.Cache.EntryDir(key))

			return nil
		},
	}
}

func newSysrootCleanCmd(streams *IO, opts *options) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cached sysroots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if all {
				err := os.RemoveAll(cacheRoot())
				if err != nil {
					return fmt.Errorf("remove sysroot cache: %w", err)
				}

				return nil
			}

			builder, err := activeBuilder(cmd, streams, opts)
			if err != nil {
				return err
			}

			key, err := builder.Key()
			if err != nil {
				return err
			}

			return builder.Cache.Remove(key)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false,
		"remove the whole cache instead of the active entry")

	return cmd
}

func newSysrootExportCmd(streams *IO, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Export the built sysroot as a cpio archive",
		Long: "Export the cache entry for the active toolchain and target " +
			"as a cpio archive. FILE may be \"-\" for stdout.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, err := activeBuilder(cmd, streams, opts)
			if err != nil {
				return err
			}

			key, err := builder.Key()
			if err != nil {
				return err
			}

			writer, closeFn, err := openOutput(streams, args[0])
			if err != nil {
				return err
			}

			err = builder.Cache.Export(key, writer)
			if err != nil {
				_ = closeFn()
				return err
			}

			return closeFn()
		},
	}
}

func newSysrootImportCmd(streams *IO, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a sysroot archive into the cache",
		Long: "Import a cpio archive created by \"sysroot export\" as the " +
			"cache entry for the active toolchain and target. FILE may be " +
			"\"-\" for stdin.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, err := activeBuilder(cmd, streams, opts)
			if err != nil {
				return err
			}

			key, err := builder.Key()
			if err != nil {
				return err
			}

			reader, closeFn, err := openInput(streams, args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			return builder.Cache.Import(key, reader)
		},
	}
}

func openOutput(streams *IO, path string) (io.Writer, func() error, error) {
	if path == "-" {
		return streams.Stdout, func() error { return nil }, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}

	return file, file.Close, nil
}

func openInput(streams *IO, path string) (io.Reader, func() error, error) {
	if path == "-" {
		return streams.Stdin, func() error { return nil }, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}

	return file, file.Close, nil
}
