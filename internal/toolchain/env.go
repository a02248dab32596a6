// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package toolchain

import (
	"slices"
	"strings"
)

// Environment is a set of environment variables to merge into a child
// process environment. It is kept as a typed mapping until the build driver
// boundary, where it is serialized into KEY=VALUE form.
type Environment map[string]string

// Merge returns base in KEY=VALUE form with all variables of the
// environment applied. Existing entries are replaced, new ones appended.
func (e Environment) Merge(base []string) []string {
	merged := make([]string, 0, len(base)+len(e))
	seen := make(map[string]bool, len(e))

	for _, entry := range base {
		key, _, _ := strings.Cut(entry, "=")
		if value, ok := e[key]; ok {
			merged = append(merged, key+"="+value)
			seen[key] = true

			continue
		}

		merged = append(merged, entry)
	}

	for key, value := range e {
		if !seen[key] {
			merged = append(merged, key+"="+value)
		}
	}

	return merged
}

// Sorted returns the environment as sorted KEY=VALUE lines. Used for
// user-facing output and diagnostics.
func (e Environment) Sorted() []string {
	lines := make([]string, 0, len(e))
	for key, value := range e {
		lines = append(lines, key+"="+value)
	}

	slices.Sort(lines)

	return lines
}
