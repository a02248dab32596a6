// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package deps

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/cargo"
)

// Metadata is the subset of "cargo metadata --format-version=1" output this
// tool consumes. The format is cargo's stable machine interface, so the
// field names follow its JSON form.
type Metadata struct {
	Packages         []Package `json:"packages"`
	WorkspaceMembers []string  `json:"workspace_members"`
	Resolve          Resolve   `json:"resolve"`
	TargetDirectory  string    `json:"target_directory"`
}

// Package is one crate of the resolved graph.
type Package struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	ManifestPath string       `json:"manifest_path"`
	Targets      []BuildTarget `json:"targets"`
}

// BuildTarget is a buildable target of a package, e.g. a binary or library.
type BuildTarget struct {
	Name string   `json:"name"`
	Kind []string `json:"kind"`
}

// Resolve is cargo's resolved dependency graph. Root is empty for virtual
// workspaces.
type Resolve struct {
	Nodes []Node `json:"nodes"`
	Root  string `json:"root"`
}

// Node is a resolved crate with the IDs of its direct dependencies.
type Node struct {
	ID           string   `json:"id"`
	Dependencies []string `json:"dependencies"`
}

// LoadMetadata runs cargo metadata for the given manifest and decodes the
// resolved graph.
func LoadMetadata(
	ctx context.Context,
	bin *cargo.Binary,
	manifestPath string,
) (*Metadata, error) {
	args := []string{"metadata", "--format-version=1"}
	if manifestPath != "" {
		args = append(args, "--manifest-path", manifestPath)
	}

	out, err := cargo.Output(bin.Command(ctx, args...))
	if err != nil {
		return nil, fmt.Errorf("cargo metadata: %w", err)
	}

	return ParseMetadata(out)
}

// ParseMetadata decodes cargo metadata JSON output.
func ParseMetadata(b []byte) (*Metadata, error) {
	var meta Metadata

	err := json.Unmarshal(b, &meta)
	if err != nil {
		return nil, fmt.Errorf("parse cargo metadata: %w", err)
	}

	return &meta, nil
}

// BinaryName returns the name of the binary target of the root package, or
// the package name if no explicit binary target exists.
func (m *Metadata) BinaryName() (string, error) {
	pkg := m.rootPackage()
	if pkg == nil {
		return "", ErrNoRootPackage
	}

	for _, target := range pkg.Targets {
		for _, kind := range target.Kind {
			if kind == "bin" {
				return target.Name, nil
			}
		}
	}

	return pkg.Name, nil
}

func (m *Metadata) rootPackage() *Package {
	rootID := m.Resolve.Root
	if rootID == "" && len(m.WorkspaceMembers) == 1 {
		rootID = m.WorkspaceMembers[0]
	}

	for idx, pkg := range m.Packages {
		if pkg.ID == rootID {
			return &m.Packages[idx]
		}
	}

	return nil
}
