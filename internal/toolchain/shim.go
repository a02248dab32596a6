// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package toolchain

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/target"
)

// Shim computes the triple scoped toolchain environment for a resolved
// target and built sysroot.
//
// LookupEnv defaults to [os.LookupEnv] and exists so tests can control the
// ambient environment without mutating the process.
type Shim struct {
	Descriptor *target.Descriptor
	SysrootDir string
	LookupEnv  func(string) (string, bool)
}

// Environment returns the variables cc-rs and bindgen consume when a
// dependency's build script compiles C code or generates bindings for the
// guest target.
//
// The CC, AR and CFLAGS variables carry the triple suffix. cc-rs prefers the
// suffixed form, so build scripts compiling host-side helpers keep using the
// plain host variables untouched. CLANG_PATH and BINDGEN_EXTRA_CLANG_ARGS
// are bindgen's own lookups; the extra clang args repeat the explicit target
// so header parsing sees the same pointer width and ABI as the
// cross-compiler.
func (s *Shim) Environment() Environment {
	triple := s.Descriptor.Triple
	env := Environment{}

	cc, err := FindCC()
	if err != nil {
		// Keep going with the bare name. Pure Rust graphs never invoke
		// it; graphs with C code fail in cc-rs with a clear message.
		slog.Warn("No clang found in PATH, C dependencies will fail",
			slog.Any("error", err))

		cc = "clang"
	}

	env["CC_"+triple] = cc
	env["CLANG_PATH"] = cc

	if ar, err := FindAR(); err == nil {
		env["AR_"+triple] = ar
	} else {
		slog.Debug("No archiver found, leaving discovery to cc-rs",
			slog.Any("error", err))
	}

	flags := s.cflags()
	bindgenFlags, _ := s.lookup("BINDGEN_EXTRA_CLANG_ARGS")

	env["CFLAGS_"+triple] = appendFlags(s.userCFlags(triple), flags)
	env["BINDGEN_EXTRA_CLANG_ARGS"] = appendFlags(bindgenFlags, flags)

	return env
}

// cflags returns the flags that redirect a C compilation to the guest
// target: explicit target selection, freestanding mode without the host's
// standard library, and the sysroot include directory.
func (s *Shim) cflags() string {
	flags := []string{
		"--target=" + s.Descriptor.Spec.LLVMTarget,
		"-ffreestanding",
		"-fno-builtin",
		"-nostdlib",
		"-fPIC",
		"-isystem", s.IncludeDir(),
	}

	return strings.Join(flags, " ")
}

// IncludeDir returns the C include directory inside the sysroot.
func (s *Shim) IncludeDir() string {
	return filepath.Join(
		s.SysrootDir, "lib", "rustlib", s.Descriptor.Triple, "include",
	)
}

// userCFlags returns user provided guest CFLAGS, if any. The first match of
// the recognized variables wins; the chain matches what cc-rs itself and the
// hyperlight build scripts look up.
func (s *Shim) userCFlags(triple string) string {
	snake := strings.ReplaceAll(triple, "-", "_")

	for _, key := range []string{
		"CFLAGS_" + triple,
		"CFLAGS_" + snake,
		"CFLAGS_" + strings.ToUpper(snake),
		"CFLAGS_hyperlight",
		"CFLAGS_HYPERLIGHT",
		"HYPERLIGHT_CFLAGS",
		"TARGET_CFLAGS",
	} {
		if value, ok := s.lookup(key); ok {
			return value
		}
	}

	// Plain CFLAGS is host scoped, so it seeds the guest flags but is
	// never written back.
	value, _ := s.lookup("CFLAGS")

	return value
}

func (s *Shim) lookup(key string) (string, bool) {
	if s.LookupEnv != nil {
		return s.LookupEnv(key)
	}

	return os.LookupEnv(key)
}

func appendFlags(existing, flags string) string {
	if existing == "" {
		return flags
	}

	return existing + " " + flags
}
