// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package sysroot

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// fileLock is an exclusive advisory lease on a cache key, held for the
// duration of a rebuild or replacement. Scoped to a single key, so builds
// for different keys proceed in parallel.
type fileLock struct {
	file *os.File
}

// acquireLock takes the exclusive lock at the given path, blocking until it
// is available. The lock file itself is created as needed and left in
// place.
func acquireLock(path string) (*fileLock, error) {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	err = unix.Flock(int(file.Fd()), unix.LOCK_EX)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}

	return &fileLock{file: file}, nil
}

// Release drops the lease.
func (l *fileLock) Release() {
	// Closing the descriptor releases the flock.
	_ = l.file.Close()
}
