// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package sysroot

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cavaliergopher/cpio"
)

// Export writes the published entry for the key as a cpio archive, for
// transporting prebuilt sysroots between machines or CI caches.
func (c Cache) Export(key Key, w io.Writer) error {
	dir, ok := c.Published(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotPublished, key)
	}

	writer := cpio.NewWriter(w)

	err := filepath.WalkDir(dir, func(
		path string, entry fs.DirEntry, err error,
	) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("relative path: %w", err)
		}

		if rel == "." {
			return nil
		}

		if entry.IsDir() {
			return writeDirectory(writer, rel)
		}

		if !entry.Type().IsRegular() {
			// Sysroot entries contain only directories and regular
			// files; anything else does not round-trip.
			return fmt.Errorf("%w: %s", ErrUnsupportedFileType, rel)
		}

		return writeRegular(writer, rel, path)
	})
	if err != nil {
		return err
	}

	err = writer.Close()
	if err != nil {
		return fmt.Errorf("close archive: %w", err)
	}

	return nil
}

func writeDirectory(w *cpio.Writer, name string) error {
	header := &cpio.Header{
		Name: name,
		Mode: cpio.TypeDir | 0o755,
	}

	err := w.WriteHeader(header)
	if err != nil {
		return fmt.Errorf("write header for %s: %w", name, err)
	}

	return nil
}

func writeRegular(w *cpio.Writer, name, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	header, err := cpio.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("create header: %w", err)
	}

	header.Name = name

	err = w.WriteHeader(header)
	if err != nil {
		return fmt.Errorf("write header for %s: %w", name, err)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	_, err = io.Copy(w, file)
	if err != nil {
		return fmt.Errorf("write body for %s: %w", name, err)
	}

	return nil
}

// Import reads a cpio archive produced by [Cache.Export] and publishes it
// as the entry for the key, wholesale replacing any existing entry.
//
// Like a rebuild, the unpack happens in a temporary sibling directory under
// the key's lease and is renamed into place, so concurrent readers never
// observe partial state.
func (c Cache) Import(key Key, r io.Reader) error {
	lock, err := acquireLock(c.lockPath(key))
	if err != nil {
		return err
	}
	defer lock.Release()

	tmp, err := os.MkdirTemp(c.Root, key.String()+".tmp-")
	if err != nil {
		return fmt.Errorf("create import dir: %w", err)
	}

	defer func() {
		_ = os.RemoveAll(tmp)
	}()

	err = unpack(tmp, r)
	if err != nil {
		return err
	}

	info, err := os.Stat(filepath.Join(tmp, completeMarker))
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("%w: no completion marker", ErrInvalidArchive)
	}

	entryDir := c.EntryDir(key)

	err = os.RemoveAll(entryDir)
	if err != nil {
		return fmt.Errorf("remove previous entry: %w", err)
	}

	err = os.Rename(tmp, entryDir)
	if err != nil {
		return fmt.Errorf("publish imported sysroot: %w", err)
	}

	return nil
}

func unpack(dir string, r io.Reader) error {
	reader := cpio.NewReader(r)

	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidArchive, err)
		}

		name := filepath.Clean(header.Name)
		if filepath.IsAbs(name) || strings.HasPrefix(name, "..") {
			return fmt.Errorf("%w: path %q escapes entry",
				ErrInvalidArchive, header.Name)
		}

		path := filepath.Join(dir, name)

		switch {
		case header.Mode.IsDir():
			err = os.MkdirAll(path, 0o755)
		case header.Mode.IsRegular():
			err = writeUnpacked(path, reader, header)
		default:
			return fmt.Errorf("%w: %s", ErrUnsupportedFileType, name)
		}

		if err != nil {
			return err
		}
	}
}

func writeUnpacked(path string, r io.Reader, header *cpio.Header) error {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}

	mode := fs.FileMode(header.Mode.Perm())

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	_, err = io.Copy(file, r)
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	return file.Close()
}
