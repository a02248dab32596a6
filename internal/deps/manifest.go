// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package deps

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest is the subset of a Cargo.toml this tool reads directly. It
// serves the artifact locator, which must not depend on a cargo invocation.
type Manifest struct {
	Package ManifestPackage `toml:"package"`
	Bin     []ManifestBin   `toml:"bin"`
}

// ManifestPackage is the [package] table.
type ManifestPackage struct {
	Name string `toml:"name"`
}

// ManifestBin is one [[bin]] table.
type ManifestBin struct {
	Name string `toml:"name"`
}

// LoadManifest decodes the Cargo.toml at the given path.
func LoadManifest(path string) (*Manifest, error) {
	var manifest Manifest

	meta, err := toml.DecodeFile(path, &manifest)
	if err != nil {
		return nil, fmt.Errorf("%s: parse manifest: %w", path, err)
	}

	if !meta.IsDefined("package", "name") {
		return nil, fmt.Errorf("%s: %w", path, ErrNoPackageName)
	}

	return &manifest, nil
}

// BinaryName returns the name of the crate's binary: the first [[bin]]
// target if declared, the package name otherwise.
func (m *Manifest) BinaryName() string {
	if len(m.Bin) > 0 && m.Bin[0].Name != "" {
		return m.Bin[0].Name
	}

	return m.Package.Name
}

// WorkspaceRoot walks up from dir and returns the directory of the
// enclosing cargo workspace, identified by a Cargo.toml with a [workspace]
// table. A crate that is its own workspace root matches on the first step.
//
// The package.workspace manifest override is not honored; members using it
// are rare and can pass the target directory explicitly.
func WorkspaceRoot(dir string) (string, bool) {
	for {
		path := filepath.Join(dir, "Cargo.toml")

		meta, err := toml.DecodeFile(path, &struct{}{})
		if err == nil && meta.IsDefined("workspace") {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}

		dir = parent
	}
}
