// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package cli

import (
	"io"
	"log/slog"
)

// setupLogging installs the process-wide logger. Warnings and above go to
// the given writer; --debug lowers the threshold to debug.
func setupLogging(w io.Writer, debug bool) {
	opts := slog.HandlerOptions{Level: slog.LevelWarn}
	if debug {
		opts.Level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &opts)))
}
