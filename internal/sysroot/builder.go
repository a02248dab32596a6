// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package sysroot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/cargo"
	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/target"
)

// Builder ensures a usable sysroot for one target descriptor and toolchain
// version.
type Builder struct {
	Cache            Cache
	Cargo            *cargo.Binary
	Descriptor       *target.Descriptor
	ToolchainVersion string

	// Output receives the standard library build's streamed output.
	// Defaults to [os.Stderr] to keep stdout for the tool's own results.
	Output io.Writer

	// BuildStd builds the standard library artifacts into the entry
	// directory. Nil selects the cargo based build. Tests inject their
	// own.
	BuildStd func(ctx context.Context, entryDir string) error

	group singleflight.Group
}

// Key returns the cache key of this builder's descriptor and toolchain.
func (b *Builder) Key() (Key, error) {
	return NewKey(b.ToolchainVersion, b.Descriptor)
}

// Ensure returns the path to a published sysroot for the builder's key,
// building it first if the cache has no entry.
//
// A cache hit returns without any child process work. Rebuilds are
// deduplicated in-process per key and serialized across processes with a
// file lease; losing a race is fine since the winner's entry is reused.
func (b *Builder) Ensure(ctx context.Context) (string, error) {
	key, err := b.Key()
	if err != nil {
		return "", err
	}

	if dir, ok := b.Cache.Published(key); ok {
		slog.Debug("Sysroot cache hit", slog.String("path", dir))
		return dir, nil
	}

	dir, err, _ := b.group.Do(key.String(), func() (any, error) {
		return b.build(ctx, key)
	})
	if err != nil {
		return "", err
	}

	return dir.(string), nil
}

func (b *Builder) build(ctx context.Context, key Key) (string, error) {
	lock, err := acquireLock(b.Cache.lockPath(key))
	if err != nil {
		return "", err
	}
	defer lock.Release()

	// Another process may have published the entry while we waited for
	// the lease.
	if dir, ok := b.Cache.Published(key); ok {
		slog.Debug("Sysroot built by concurrent invocation",
			slog.String("path", dir))

		return dir, nil
	}

	tmp, err := os.MkdirTemp(b.Cache.Root, key.String()+".tmp-")
	if err != nil {
		return "", fmt.Errorf("create sysroot build dir: %w", err)
	}

	defer func() {
		// No-op once the rename succeeded.
		_ = os.RemoveAll(tmp)
	}()

	err = b.writeSpecFile(tmp)
	if err != nil {
		return "", err
	}

	buildStd := b.BuildStd
	if buildStd == nil {
		buildStd = b.buildStd
	}

	err = buildStd(ctx, tmp)
	if err != nil {
		return "", fmt.Errorf("build standard library: %w", err)
	}

	err = os.WriteFile(
		filepath.Join(tmp, completeMarker), []byte(key.String()+"\n"), 0o644,
	)
	if err != nil {
		return "", fmt.Errorf("write completion marker: %w", err)
	}

	entryDir := b.Cache.EntryDir(key)

	// An entry directory without its marker can be left over from an
	// interrupted eviction and would block the rename; it is replaced
	// wholesale.
	err = os.RemoveAll(entryDir)
	if err != nil {
		return "", fmt.Errorf("remove stale entry: %w", err)
	}

	err = os.Rename(tmp, entryDir)
	if err != nil {
		return "", fmt.Errorf("publish sysroot: %w", err)
	}

	slog.Info("Built sysroot", slog.String("path", entryDir))

	return entryDir, nil
}

// writeSpecFile places the target specification where rustc's sysroot
// lookup expects it.
func (b *Builder) writeSpecFile(entryDir string) error {
	tripleDir := filepath.Join(
		entryDir, "lib", "rustlib", b.Descriptor.Triple,
	)

	err := os.MkdirAll(tripleDir, 0o755)
	if err != nil {
		return fmt.Errorf("create sysroot layout: %w", err)
	}

	spec, err := b.Descriptor.SpecJSON()
	if err != nil {
		return err
	}

	err = os.WriteFile(filepath.Join(tripleDir, "target.json"), spec, 0o644)
	if err != nil {
		return fmt.Errorf("write target spec: %w", err)
	}

	return nil
}

// buildStd compiles core and alloc for the guest target with cargo's
// build-std capability and collects the rlibs into the sysroot layout.
//
// The freestanding subset only: no std, no OS services. compiler_builtins
// gets its mem feature since there is no libc providing memcpy and friends.
func (b *Builder) buildStd(ctx context.Context, entryDir string) error {
	crateDir := filepath.Join(entryDir, "crate")
	buildDir := filepath.Join(entryDir, "build")

	err := writeScratchCrate(crateDir)
	if err != nil {
		return err
	}

	b.ensureRustSrc(ctx)

	cmd := b.Cargo.Command(ctx,
		"rustc",
		"-Zbuild-std=core,alloc",
		"-Zbuild-std-features=compiler_builtins/mem",
		"--target", b.Descriptor.Triple,
		"--release",
		"--target-dir", buildDir,
		"--manifest-path", filepath.Join(crateDir, "Cargo.toml"),
	)
	cmd.Env = prepareStdBuildEnv(cmd.Env, entryDir)

	err = cargo.Run(cmd, nil, b.output(), b.output())
	if err != nil {
		// The child's diagnostics already went to the output stream
		// unmodified; typically a toolchain mismatch, never transient.
		return err
	}

	err = b.collectRlibs(buildDir, entryDir)
	if err != nil {
		return err
	}

	// The scratch crate and its build directory are scaffolding, not part
	// of the published entry.
	for _, dir := range []string{crateDir, buildDir} {
		err := os.RemoveAll(dir)
		if err != nil {
			return fmt.Errorf("clean up %s: %w", dir, err)
		}
	}

	return nil
}

// prepareStdBuildEnv adjusts the environment for the standard library
// build: build-std is nightly gated, the sysroot under construction must be
// the one rustc resolves the target spec from, and a workspace wrapper of
// the surrounding project must not intercept the scratch build.
func prepareStdBuildEnv(env []string, entryDir string) []string {
	prepared := make([]string, 0, len(env)+2)

	var rustflags string

	for _, entry := range env {
		key, value, _ := strings.Cut(entry, "=")
		switch key {
		case "RUSTC_WORKSPACE_WRAPPER", "RUSTC_BOOTSTRAP", "RUSTFLAGS":
			if key == "RUSTFLAGS" {
				rustflags = value
			}

			continue
		}

		prepared = append(prepared, entry)
	}

	if rustflags != "" {
		rustflags += " "
	}

	rustflags += "--sysroot=" + entryDir

	return append(prepared,
		"RUSTC_BOOTSTRAP=1",
		"RUSTFLAGS="+rustflags,
	)
}

// ensureRustSrc adds the rust-src component, which build-std compiles from.
// Best effort: without rustup the source is either present or the build
// fails with rustc's own explanation.
func (b *Builder) ensureRustSrc(ctx context.Context) {
	if b.Cargo.RustupToolchain == "" {
		return
	}

	cmd := exec.CommandContext(ctx,
		"rustup", "component", "add", "rust-src",
		"--toolchain", b.Cargo.RustupToolchain,
	)

	err := cmd.Run()
	if err != nil {
		slog.Debug("Adding rust-src component failed",
			slog.Any("error", err))
	}
}

// collectRlibs copies the built library artifacts into the sysroot's
// per-triple lib directory.
func (b *Builder) collectRlibs(buildDir, entryDir string) error {
	depsDir := filepath.Join(
		buildDir, b.Descriptor.Triple, "release", "deps",
	)
	libDir := filepath.Join(
		entryDir, "lib", "rustlib", b.Descriptor.Triple, "lib",
	)

	err := os.MkdirAll(libDir, 0o755)
	if err != nil {
		return fmt.Errorf("create sysroot lib dir: %w", err)
	}

	entries, err := os.ReadDir(depsDir)
	if err != nil {
		return fmt.Errorf("read build artifacts: %w", err)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() ||
			!strings.HasPrefix(entry.Name(), "lib") {
			continue
		}

		err := copyFile(
			filepath.Join(depsDir, entry.Name()),
			filepath.Join(libDir, entry.Name()),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	_, err = io.Copy(out, in)
	if err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}

	return out.Close()
}

func (b *Builder) output() io.Writer {
	if b.Output == nil {
		return os.Stderr
	}

	return b.Output
}
