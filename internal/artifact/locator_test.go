// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package artifact_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/artifact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocatorPath(t *testing.T) {
	locator := artifact.Locator{
		TargetDir:  "/work/target",
		Triple:     "x86_64-hyperlight-none",
		Profile:    artifact.ProfileName(true),
		BinaryName: "mycrate",
	}

	assert.Equal(t,
		filepath.Join(
			"/work/target", "x86_64-hyperlight-none", "release", "mycrate",
		),
		locator.Path())
}

func TestProfileName(t *testing.T) {
	assert.Equal(t, "release", artifact.ProfileName(true))
	assert.Equal(t, "debug", artifact.ProfileName(false))
}

func TestLocatorExists(t *testing.T) {
	targetDir := t.TempDir()
	locator := artifact.Locator{
		TargetDir:  targetDir,
		Triple:     "x86_64-hyperlight-none",
		Profile:    "debug",
		BinaryName: "guest",
	}

	assert.False(t, locator.Exists())

	require.NoError(t, os.MkdirAll(filepath.Dir(locator.Path()), 0o755))
	require.NoError(t, os.WriteFile(locator.Path(), []byte("elf"), 0o755))

	assert.True(t, locator.Exists())
}
