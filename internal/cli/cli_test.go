// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/cargo"
	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/deps"
)

func testStreams() (*IO, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	return &IO{
		Stdin:  &bytes.Buffer{},
		Stdout: stdout,
		Stderr: stderr,
	}, stdout, stderr
}

func TestNormalizeInvocation(t *testing.T) {
	tests := []struct {
		name     string
		argv     []string
		expected []string
	}{
		{
			name: "empty",
		},
		{
			name:     "direct invocation",
			argv:     []string{"cargo-hyperlight", "build"},
			expected: []string{"build"},
		},
		{
			name:     "through cargo",
			argv:     []string{"cargo-hyperlight", "hyperlight", "build"},
			expected: []string{"build"},
		},
		{
			name:     "program name only",
			argv:     []string{"cargo-hyperlight"},
			expected: []string{},
		},
		{
			name:     "subcommand named hyperlight is not stripped twice",
			argv:     []string{"cargo-hyperlight", "hyperlight", "hyperlight"},
			expected: []string{"hyperlight"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeInvocation(tt.argv))
		})
	}
}

func TestLocalConfigArgs(t *testing.T) {
	t.Setenv("PROFILE", "release")

	fsys := fstest.MapFS{
		localConfigFile: &fstest.MapFile{
			Data: []byte("--debug\n\n  --${PROFILE}  \n"),
		},
	}

	args, err := LocalConfigArgs(fsys, localConfigFile)
	require.NoError(t, err)

	assert.Equal(t, []string{"--debug", "--release"}, args)
}

func TestLocalConfigArgsMissingFile(t *testing.T) {
	args, err := LocalConfigArgs(fstest.MapFS{}, localConfigFile)
	require.NoError(t, err)
	assert.Empty(t, args)
}

func TestMergedArgs(t *testing.T) {
	t.Setenv(argsEnvVar, "--target-dir /tmp/out")

	fsys := fstest.MapFS{
		localConfigFile: &fstest.MapFile{
			Data: []byte("--debug\n"),
		},
	}

	merged, err := MergedArgs([]string{"build", "--release"}, fsys,
		localConfigFile)
	require.NoError(t, err)

	// Command line arguments come last so they win on conflicts.
	assert.Equal(t, []string{
		"--target-dir", "/tmp/out", "--debug", "build", "--release",
	}, merged)
}

func TestEnvArgsUnset(t *testing.T) {
	t.Setenv(argsEnvVar, "")

	assert.Empty(t, EnvArgs())
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "success",
			expected: 0,
		},
		{
			name:     "missing provider",
			err:      &deps.MissingProviderError{Crate: "hyperlight-guest-bin"},
			expected: 2,
		},
		{
			name:     "wrapped missing provider",
			err:      errors.Join(errors.New("validate"), &deps.MissingProviderError{Crate: "x"}),
			expected: 2,
		},
		{
			name:     "cargo failure mirrors the child code",
			err:      &cargo.CommandError{Name: "cargo", ExitCode: 101},
			expected: 101,
		},
		{
			name:     "generic error",
			err:      errors.New("boom"),
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			streams, _, stderr := testStreams()

			assert.Equal(t, tt.expected, exitCode(tt.err, streams))

			if tt.err != nil && tt.expected != 101 {
				assert.Contains(t, stderr.String(), "error")
			}
		})
	}
}

func TestExitCodeCargoFailureIsSilent(t *testing.T) {
	streams, _, stderr := testStreams()

	code := exitCode(&cargo.CommandError{Name: "cargo", ExitCode: 42}, streams)

	assert.Equal(t, 42, code)
	assert.Empty(t, stderr.String(), "cargo already printed its diagnostics")
}

func TestRunLocateWorkspaceMember(t *testing.T) {
	t.Setenv(argsEnvVar, "")
	t.Setenv("CARGO_TARGET_DIR", "")

	root := t.TempDir()
	memberDir := filepath.Join(root, "guest")
	require.NoError(t, os.MkdirAll(memberDir, 0o755))

	require.NoError(t, os.WriteFile(
		filepath.Join(root, "Cargo.toml"),
		[]byte("[workspace]\nmembers = [\"guest\"]\n"), 0o644,
	))
	require.NoError(t, os.WriteFile(
		filepath.Join(memberDir, "Cargo.toml"),
		[]byte("[package]\nname = \"guest\"\nversion = \"0.1.0\"\n"), 0o644,
	))

	streams, stdout, _ := testStreams()

	code := Run(context.Background(), []string{
		"cargo-hyperlight", "locate",
		"--manifest-path", filepath.Join(memberDir, "Cargo.toml"),
	}, streams)

	require.Equal(t, 0, code)

	// Member artifacts land in the workspace root's target directory.
	assert.Equal(t,
		filepath.Join(
			root, "target", "x86_64-hyperlight-none", "debug", "guest",
		)+"\n",
		stdout.String())
}

func TestRunHelp(t *testing.T) {
	t.Setenv(argsEnvVar, "")

	streams, stdout, _ := testStreams()

	code := Run(context.Background(),
		[]string{"cargo-hyperlight", "--help"}, streams)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "build")
	assert.Contains(t, stdout.String(), "sysroot")
}

func TestRunUnknownFlag(t *testing.T) {
	t.Setenv(argsEnvVar, "")

	streams, _, stderr := testStreams()

	code := Run(context.Background(),
		[]string{"cargo-hyperlight", "--no-such-flag"}, streams)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "error")
}
