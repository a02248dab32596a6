// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

// cargo-hyperlight is a cargo external subcommand that builds freestanding
// hyperlight guest binaries. Install it in PATH and invoke it as
// "cargo hyperlight build".
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
		syscall.SIGQUIT,
	)
	defer stop()

	code := cli.Run(ctx, os.Args, &cli.IO{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})

	stop()
	os.Exit(code)
}
