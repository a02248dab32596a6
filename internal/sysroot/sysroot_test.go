// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package sysroot_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/sysroot"
	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const versionLine = "rustc 1.81.0 (eeb90cda1 2024-09-04)"

func testDescriptor(t *testing.T) *target.Descriptor {
	t.Helper()

	desc, err := target.Resolve(target.DefaultTriple)
	require.NoError(t, err)

	return desc
}

func newBuilder(
	t *testing.T,
	buildStd func(ctx context.Context, entryDir string) error,
) *sysroot.Builder {
	t.Helper()

	return &sysroot.Builder{
		Cache:            sysroot.Cache{Root: t.TempDir()},
		Descriptor:       testDescriptor(t),
		ToolchainVersion: versionLine,
		BuildStd:         buildStd,
	}
}

func writeFakeRlib(entryDir string) error {
	libDir := filepath.Join(
		entryDir, "lib", "rustlib", target.DefaultTriple, "lib",
	)

	err := os.MkdirAll(libDir, 0o755)
	if err != nil {
		return err
	}

	return os.WriteFile(
		filepath.Join(libDir, "libcore.rlib"), []byte("rlib"), 0o644,
	)
}

func TestKeyString(t *testing.T) {
	key, err := sysroot.NewKey(versionLine, testDescriptor(t))
	require.NoError(t, err)

	name := key.String()

	assert.Contains(t, name, "rustc-1.81.0")
	assert.NotContains(t, name, " ")
	assert.NotContains(t, name, "(")
	assert.NotContains(t, name, "--")
}

func TestKeyChangesWithInputs(t *testing.T) {
	desc := testDescriptor(t)

	base, err := sysroot.NewKey(versionLine, desc)
	require.NoError(t, err)

	otherToolchain, err := sysroot.NewKey("rustc 1.82.0 (f6e511eec 2024-10-15)", desc)
	require.NoError(t, err)

	assert.NotEqual(t, base.String(), otherToolchain.String())

	changed := *desc
	changed.Spec.CodeModel = "kernel"

	otherSpec, err := sysroot.NewKey(versionLine, &changed)
	require.NoError(t, err)

	assert.NotEqual(t, base.String(), otherSpec.String())
}

func TestBuilderEnsure(t *testing.T) {
	var builds atomic.Int32

	builder := newBuilder(t,
		func(_ context.Context, entryDir string) error {
			builds.Add(1)
			return writeFakeRlib(entryDir)
		})

	first, err := builder.Ensure(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, builds.Load())

	// The published entry carries the target spec and the artifacts.
	assert.FileExists(t, filepath.Join(
		first, "lib", "rustlib", target.DefaultTriple, "target.json",
	))
	assert.FileExists(t, filepath.Join(
		first, "lib", "rustlib", target.DefaultTriple, "lib", "libcore.rlib",
	))

	second, err := builder.Ensure(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, builds.Load(), "second invocation is a cache hit")
}

func TestBuilderEnsureReplacesInvalidEntry(t *testing.T) {
	var builds atomic.Int32

	builder := newBuilder(t,
		func(_ context.Context, entryDir string) error {
			builds.Add(1)
			return writeFakeRlib(entryDir)
		})

	dir, err := builder.Ensure(context.Background())
	require.NoError(t, err)

	// An interrupted eviction can leave the directory behind without its
	// completion marker.
	require.NoError(t, os.Remove(filepath.Join(dir, ".complete")))

	key, err := builder.Key()
	require.NoError(t, err)

	_, published := builder.Cache.Published(key)
	require.False(t, published)

	again, err := builder.Ensure(context.Background())
	require.NoError(t, err)

	assert.Equal(t, dir, again)
	assert.EqualValues(t, 2, builds.Load(), "invalid entry forces a rebuild")

	_, published = builder.Cache.Published(key)
	assert.True(t, published)
}

func TestBuilderEnsureBuildFailure(t *testing.T) {
	buildErr := assert.AnError

	builder := newBuilder(t,
		func(_ context.Context, _ string) error {
			return buildErr
		})

	_, err := builder.Ensure(context.Background())
	require.ErrorIs(t, err, buildErr)

	key, err := builder.Key()
	require.NoError(t, err)

	_, published := builder.Cache.Published(key)
	assert.False(t, published, "failed build must not publish an entry")
}

func TestBuilderEnsureConcurrent(t *testing.T) {
	var builds atomic.Int32

	release := make(chan struct{})

	builder := newBuilder(t,
		func(_ context.Context, entryDir string) error {
			builds.Add(1)
			<-release

			return writeFakeRlib(entryDir)
		})

	key, err := builder.Key()
	require.NoError(t, err)

	const invocations = 4

	var wg sync.WaitGroup

	paths := make([]string, invocations)
	errs := make([]error, invocations)

	for idx := 0; idx < invocations; idx++ {
		idx := idx

		wg.Add(1)

		go func() {
			defer wg.Done()
			paths[idx], errs[idx] = builder.Ensure(context.Background())
		}()
	}

	// While the build is in flight no entry may be observable.
	_, published := builder.Cache.Published(key)
	assert.False(t, published)

	close(release)
	wg.Wait()

	for idx := 0; idx < invocations; idx++ {
		require.NoError(t, errs[idx])
		assert.Equal(t, paths[0], paths[idx])
	}

	assert.EqualValues(t, 1, builds.Load(), "build runs once per key")

	_, published = builder.Cache.Published(key)
	assert.True(t, published)
}

func TestCacheRemove(t *testing.T) {
	builder := newBuilder(t,
		func(_ context.Context, entryDir string) error {
			return writeFakeRlib(entryDir)
		})

	_, err := builder.Ensure(context.Background())
	require.NoError(t, err)

	key, err := builder.Key()
	require.NoError(t, err)

	require.NoError(t, builder.Cache.Remove(key))

	_, published := builder.Cache.Published(key)
	assert.False(t, published)

	// Removing a missing entry is fine.
	require.NoError(t, builder.Cache.Remove(key))
}

func TestCacheExportImport(t *testing.T) {
	builder := newBuilder(t,
		func(_ context.Context, entryDir string) error {
			return writeFakeRlib(entryDir)
		})

	_, err := builder.Ensure(context.Background())
	require.NoError(t, err)

	key, err := builder.Key()
	require.NoError(t, err)

	var archive bytes.Buffer

	require.NoError(t, builder.Cache.Export(key, &archive))

	// Import into a fresh cache.
	other := sysroot.Cache{Root: t.TempDir()}

	require.NoError(t, other.Import(key, bytes.NewReader(archive.Bytes())))

	dir, published := other.Published(key)
	require.True(t, published)

	content, err := os.ReadFile(filepath.Join(
		dir, "lib", "rustlib", target.DefaultTriple, "lib", "libcore.rlib",
	))
	require.NoError(t, err)
	assert.Equal(t, "rlib", string(content))
}

func TestCacheExportNotPublished(t *testing.T) {
	cache := sysroot.Cache{Root: t.TempDir()}

	key, err := sysroot.NewKey(versionLine, testDescriptor(t))
	require.NoError(t, err)

	err = cache.Export(key, &bytes.Buffer{})
	require.ErrorIs(t, err, sysroot.ErrNotPublished)
}

func TestCacheImportRejectsIncompleteArchive(t *testing.T) {
	cache := sysroot.Cache{Root: t.TempDir()}

	key, err := sysroot.NewKey(versionLine, testDescriptor(t))
	require.NoError(t, err)

	err = cache.Import(key, bytes.NewReader(nil))
	require.ErrorIs(t, err, sysroot.ErrInvalidArchive)

	_, published := cache.Published(key)
	assert.False(t, published)
}
