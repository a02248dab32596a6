// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	warnStyle = color.New(color.FgYellow, color.Bold)
	errStyle  = color.New(color.FgRed, color.Bold)
	boldStyle = color.New(color.Bold)
)

// printWarning prints a cargo style warning line.
func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s%s %s\n",
		warnStyle.Sprint("warning"),
		boldStyle.Sprint(":"),
		boldStyle.Sprintf(format, args...),
	)
}

// printError prints a cargo style error line.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s%s %v\n",
		errStyle.Sprint("error"),
		boldStyle.Sprint(":"),
		err,
	)
}
