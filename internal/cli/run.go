// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"errors"
	"os"

	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/cargo"
	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/deps"
)

// Exit codes of the tool itself. Child process failures are mirrored with
// the child's exact code instead.
const (
	exitSuccess         = 0
	exitError           = 1
	exitMissingProvider = 2
)

// Run executes the tool with the given raw arguments and returns the
// process exit code.
func Run(ctx context.Context, argv []string, streams *IO) int {
	args := NormalizeInvocation(argv)

	merged, err := MergedArgs(args, os.DirFS("."), localConfigFile)
	if err != nil {
		printError(streams.Stderr, err)
		return exitError
	}

	cmd := newRootCmd(streams)
	cmd.SetArgs(merged)
	cmd.SetIn(streams.Stdin)
	cmd.SetOut(streams.Stdout)
	cmd.SetErr(streams.Stderr)

	return exitCode(cmd.ExecuteContext(ctx), streams)
}

// exitCode maps an execution error to the process exit code.
//
// Guest crates missing the runtime provider get a dedicated code so CI
// pipelines can tell a misconfigured crate from a broken build. Cargo
// failures mirror cargo's code; its diagnostics already went to stderr, so
// only the remaining errors are printed here.
func exitCode(err error, streams *IO) int {
	if err == nil {
		return exitSuccess
	}

	var providerErr *deps.MissingProviderError
	if errors.As(err, &providerErr) {
		printError(streams.Stderr, providerErr)
		return exitMissingProvider
	}

	var cmdErr *cargo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}

	printError(streams.Stderr, err)

	return exitError
}
