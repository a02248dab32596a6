// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// localConfigFile holds per-project default arguments.
const localConfigFile = ".cargo-hyperlight-args"

// argsEnvVar holds ambient default arguments.
const argsEnvVar = "CARGO_HYPERLIGHT_ARGS"

// EnvArgs returns arguments from the environment.
func EnvArgs() []string {
	return strings.Fields(os.Getenv(argsEnvVar))
}

// LocalConfigArgs returns arguments from a local config file.
//
// The file's format is one argument per line. Environment variables may be
// used and are expanded with [os.ExpandEnv].
func LocalConfigArgs(fsys fs.FS, file string) ([]string, error) {
	conf, err := fs.ReadFile(fsys, file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read file: %w", err)
	}

	args := []string{}

	expandedConf := os.ExpandEnv(string(conf))
	for _, line := range strings.Split(expandedConf, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			args = append(args, line)
		}
	}

	return args, nil
}

// MergedArgs combines environment, local config file and command line
// arguments, in that order. With flag parsing the last occurrence wins, so
// command line arguments override the ambient defaults.
func MergedArgs(args []string, fsys fs.FS, file string) ([]string, error) {
	fileArgs, err := LocalConfigArgs(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("local config args: %w", err)
	}

	merged := append([]string{}, EnvArgs()...)
	merged = append(merged, fileArgs...)
	merged = append(merged, args...)

	return merged, nil
}

// NormalizeInvocation strips the program name and, when invoked through
// cargo as "cargo hyperlight", the repeated subcommand name cargo passes
// along.
func NormalizeInvocation(argv []string) []string {
	if len(argv) == 0 {
		return nil
	}

	args := argv[1:]
	if len(args) > 0 && args[0] == "hyperlight" {
		args = args[1:]
	}

	return args
}
