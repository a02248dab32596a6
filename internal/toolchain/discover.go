// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package toolchain

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
)

var (
	versionedClangRE = regexp.MustCompile(`^clang-(\d+)$`)
	versionedARRE    = regexp.MustCompile(`^llvm-ar-(\d+)$`)
)

// FindCC locates the cross-capable C compiler.
//
// Only clang qualifies since it selects the target via -target instead of
// requiring a per-target build. Plain "clang" from PATH is preferred,
// followed by the highest versioned "clang-NN".
func FindCC() (string, error) {
	if path, err := exec.LookPath("clang"); err == nil {
		return path, nil
	}

	path, err := findVersioned(versionedClangRE)
	if err != nil {
		return "", fmt.Errorf("%w: clang not found in PATH", ErrNoCompiler)
	}

	return path, nil
}

// FindAR locates an archiver for static guest libraries. Tried in order:
// "ar", "llvm-ar", the highest versioned "llvm-ar-NN".
func FindAR() (string, error) {
	for _, name := range []string{"ar", "llvm-ar"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	path, err := findVersioned(versionedARRE)
	if err != nil {
		return "", fmt.Errorf("%w: ar or llvm-ar not found in PATH", ErrNoArchiver)
	}

	return path, nil
}

// findVersioned walks PATH for executables matching the given pattern, whose
// first submatch must be the version number. The highest version wins.
func findVersioned(re *regexp.Regexp) (string, error) {
	var (
		best        string
		bestVersion int
	)

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			continue
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			match := re.FindStringSubmatch(entry.Name())
			if match == nil {
				continue
			}

			version, err := strconv.Atoi(match[1])
			if err != nil {
				continue
			}

			// Between equal versions the earlier PATH entry wins.
			if best != "" && version <= bestVersion {
				continue
			}

			path := filepath.Join(dir, entry.Name())
			if !isExecutable(path) {
				continue
			}

			best = path
			bestVersion = version
		}
	}

	if best == "" {
		return "", ErrNoCompiler
	}

	return best, nil
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular() && info.Mode()&0o111 != 0
}
