// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package cargo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/exec"
	"time"

	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/toolchain"
)

// waitDelay is the grace period between forwarding an interrupt to cargo and
// killing it.
const waitDelay = 10 * time.Second

// BuildSpec describes a single guest build invocation. It is immutable for
// the duration of the invocation.
type BuildSpec struct {
	// Path to the crate's Cargo.toml. Empty means cargo's own discovery.
	ManifestPath string
	// Build with the release profile.
	Release bool
	// Guest target triple.
	Triple string
	// Artifact directory. Empty keeps cargo's resolution.
	TargetDir string
	// Sysroot with the prebuilt core/alloc artifacts for the triple.
	SysrootDir string
	// Entry symbol the guest binary is linked with.
	EntrySymbol string
	// Ambient RUSTFLAGS value to preserve user flags.
	Rustflags string
	// Toolchain shim variables for nested native build steps.
	ShimEnv toolchain.Environment
	// Additional arguments passed to cargo verbatim, after the ones this
	// tool generates.
	CargoArgs []string
}

// Args compiles the argument list for the cargo invocation.
func (s *BuildSpec) Args() []string {
	args := []string{"build"}

	if s.ManifestPath != "" {
		args = append(args, "--manifest-path", s.ManifestPath)
	}

	if s.Release {
		args = append(args, "--release")
	}

	return append(args, s.CargoArgs...)
}

// Environment returns the variables injected into the cargo process.
//
// The target is selected via CARGO_BUILD_TARGET instead of an argument so it
// also applies to passthrough arguments that imply their own build, and
// RUSTFLAGS gains the sysroot override plus the guest entry point link
// argument. The shim variables are merged in last.
func (s *BuildSpec) Environment() toolchain.Environment {
	env := toolchain.Environment{}
	maps.Copy(env, s.ShimEnv)

	env["CARGO_BUILD_TARGET"] = s.Triple

	if s.TargetDir != "" {
		env["CARGO_TARGET_DIR"] = s.TargetDir
	}

	rustflags := s.Rustflags
	if rustflags != "" {
		rustflags += " "
	}

	rustflags += "--sysroot=" + s.SysrootDir
	if s.EntrySymbol != "" {
		rustflags += " -Clink-args=-e" + s.EntrySymbol
	}

	env["RUSTFLAGS"] = rustflags

	return env
}

// Build runs the cargo build described by spec, streaming the child's output
// unmodified. A non-zero child exit status is returned as [CommandError]
// carrying the exact code.
func (b *Binary) Build(
	ctx context.Context,
	spec *BuildSpec,
	stdin io.Reader,
	stdout, stderr io.Writer,
) error {
	cmd := b.Command(ctx, spec.Args()...)
	cmd.Env = spec.Environment().Merge(cmd.Env)

	return Run(cmd, stdin, stdout, stderr)
}

// Run executes the prepared command with streamed stdio and mirrors its exit
// status.
//
// Cancellation forwards an interrupt to the child, so cargo gets a chance to
// clean up its build directory locks before the wait delay kills it.
func Run(cmd *exec.Cmd, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}

	slog.Debug("Executing command", slog.String("command", cmd.String()))

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
			return &CommandError{
				Name:     cmd.Args[0],
				ExitCode: exitErr.ExitCode(),
			}
		}

		return fmt.Errorf("run %s: %w", cmd.Args[0], err)
	}

	return nil
}

// Output executes the prepared command and captures stdout. On failure the
// child's stderr is attached to the returned error for attribution.
func Output(cmd *exec.Cmd) ([]byte, error) {
	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	stdout, err := cmd.Output()
	if err != nil {
		return nil, &ExecError{
			Name:   cmd.Args[0],
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return stdout, nil
}
