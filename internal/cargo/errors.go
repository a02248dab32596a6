// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package cargo

import (
	"errors"
	"fmt"
)

// ErrCargoNotFound is returned if no cargo binary can be resolved.
var ErrCargoNotFound = errors.New("cargo binary not found")

// CommandError is a non-zero exit status of a streamed child process. The
// code is mirrored to the caller unchanged; the child already printed its
// own diagnostics.
type CommandError struct {
	Name     string
	ExitCode int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Name, e.ExitCode)
}

func (e *CommandError) Is(other error) bool {
	_, ok := other.(*CommandError)
	return ok
}

// ExecError is a failure of a captured child process, carrying the child's
// stderr for attribution.
type ExecError struct {
	Name   string
	Stderr string
	Err    error
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("exec %s: %v", e.Name, e.Err)
	if e.Stderr != "" {
		msg += "\n" + e.Stderr
	}

	return msg
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
