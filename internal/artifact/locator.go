// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

// Package artifact computes where cargo places the built guest binary. The
// per-target, per-profile layout is cargo's stable convention; downstream
// tooling chains on it, so it is reproduced exactly.
package artifact

import (
	"os"
	"path/filepath"
)

// Profile names as they appear in the output directory layout.
const (
	ProfileDebug   = "debug"
	ProfileRelease = "release"
)

// ProfileName returns the output directory name for the chosen profile.
func ProfileName(release bool) string {
	if release {
		return ProfileRelease
	}

	return ProfileDebug
}

// Locator computes the expected path of a build's final binary.
type Locator struct {
	TargetDir  string
	Triple     string
	Profile    string
	BinaryName string
}

// Path returns <target-dir>/<triple>/<profile>/<binary-name>.
func (l *Locator) Path() string {
	return filepath.Join(l.TargetDir, l.Triple, l.Profile, l.BinaryName)
}

// Exists reports whether the artifact is present. Best effort only: a build
// failure already reported by the build driver is the authoritative signal.
func (l *Locator) Exists() bool {
	info, err := os.Stat(l.Path())

	return err == nil && info.Mode().IsRegular()
}
