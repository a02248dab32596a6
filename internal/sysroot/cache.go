// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package sysroot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/target"
)

// completeMarker is written as the last step of a build. Only entries
// carrying it are served; anything else is a leftover of an interrupted
// build and is ignored.
const completeMarker = ".complete"

// shortHashLen is the number of descriptor hash characters used in entry
// directory names.
const shortHashLen = 16

// Key identifies one cache entry. Both parts must match exactly for an
// entry to be valid; any change forces a rebuild under a new key.
type Key struct {
	ToolchainVersion string
	DescriptorHash   string
}

// NewKey derives the cache key for a toolchain version line and a target
// descriptor.
func NewKey(version string, desc *target.Descriptor) (Key, error) {
	hash, err := desc.Hash()
	if err != nil {
		return Key{}, err
	}

	return Key{
		ToolchainVersion: version,
		DescriptorHash:   hash,
	}, nil
}

// String returns the entry directory name for the key.
func (k Key) String() string {
	return sanitize(k.ToolchainVersion) + "-" + k.DescriptorHash[:shortHashLen]
}

// sanitize maps a toolchain version line like "rustc 1.81.0 (eeb90cda1
// 2024-09-04)" to a directory name friendly form.
func sanitize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, s)

	for strings.Contains(mapped, "--") {
		mapped = strings.ReplaceAll(mapped, "--", "-")
	}

	return strings.Trim(mapped, "-")
}

// Cache is the on-disk sysroot store. Entry contents are opaque beyond the
// completion marker; the layout inside is whatever the standard library
// build produced.
type Cache struct {
	Root string
}

// DefaultRoot returns the user level cache directory for sysroots.
func DefaultRoot() string {
	return filepath.Join(xdg.CacheHome, "cargo-hyperlight", "sysroot")
}

// EntryDir returns the directory a published entry for the key lives in.
func (c Cache) EntryDir(key Key) string {
	return filepath.Join(c.Root, key.String())
}

// lockPath returns the lease file guarding the entry for the key.
func (c Cache) lockPath(key Key) string {
	return filepath.Join(c.Root, key.String()+".lock")
}

// Published returns the entry directory for the key if a completed entry
// exists. Readers of a published entry never block.
func (c Cache) Published(key Key) (string, bool) {
	dir := c.EntryDir(key)

	info, err := os.Stat(filepath.Join(dir, completeMarker))
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	return dir, true
}

// Remove deletes the entry for the key, if present. The tool tolerates a
// missing entry and rebuilds on the next use.
func (c Cache) Remove(key Key) error {
	lock, err := acquireLock(c.lockPath(key))
	if err != nil {
		return err
	}
	defer lock.Release()

	err = os.RemoveAll(c.EntryDir(key))
	if err != nil {
		return fmt.Errorf("remove cache entry: %w", err)
	}

	return nil
}
