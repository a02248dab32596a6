// SPDX-FileCopyrightText: 2025 The cargo-hyperlight-go authors
//
// SPDX-License-Identifier: MIT

package target_test

import (
	"encoding/json"
	"testing"

	"github.com/hyperlight-dev/cargo-hyperlight-go/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		triple    string
		expected  string
		rewritten bool
	}{
		{
			name:     "empty",
			triple:   "",
			expected: "x86_64-hyperlight-none",
		},
		{
			name:     "already hyperlight",
			triple:   "x86_64-hyperlight-none",
			expected: "x86_64-hyperlight-none",
		},
		{
			name:      "host triple",
			triple:    "x86_64-unknown-linux-gnu",
			expected:  "x86_64-hyperlight-none",
			rewritten: true,
		},
		{
			name:      "bare arch",
			triple:    "x86_64",
			expected:  "x86_64-hyperlight-none",
			rewritten: true,
		},
		{
			name:      "foreign arch keeps arch",
			triple:    "aarch64-apple-darwin",
			expected:  "aarch64-hyperlight-none",
			rewritten: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			triple, rewritten := target.Normalize(tt.triple)
			assert.Equal(t, tt.expected, triple)
			assert.Equal(t, tt.rewritten, rewritten)
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("default triple", func(t *testing.T) {
		desc, err := target.Resolve("")
		require.NoError(t, err)

		assert.Equal(t, "x86_64-hyperlight-none", desc.Triple)
		assert.Equal(t, "x86_64", desc.Spec.Arch)
		assert.Equal(t, "none", desc.Spec.OS)
		assert.Equal(t, "abort", desc.Spec.PanicStrategy)
		assert.Equal(t, "entrypoint", desc.Spec.EntryName)
		assert.Equal(t, "small", desc.Spec.CodeModel)
		assert.Equal(t, "rust-lld", desc.Spec.Linker)
	})

	t.Run("unsupported triple", func(t *testing.T) {
		_, err := target.Resolve("aarch64-hyperlight-none")
		require.ErrorIs(t, err, target.ErrUnsupportedTriple)
	})
}

func TestDescriptorSpecJSON(t *testing.T) {
	desc, err := target.Resolve(target.DefaultTriple)
	require.NoError(t, err)

	b, err := desc.SpecJSON()
	require.NoError(t, err)

	var spec map[string]any

	require.NoError(t, json.Unmarshal(b, &spec))

	assert.Equal(t, "none", spec["os"])
	assert.Equal(t, "abort", spec["panic-strategy"])
	assert.Equal(t, "64", spec["target-pointer-width"])
	assert.Equal(t, true, spec["static-position-independent-executables"])
	assert.Equal(t,
		map[string]any{"gnu-lld": []any{"-znostart-stop-gc"}},
		spec["pre-link-args"])

	// Host scoped fields must not leak in.
	assert.NotContains(t, spec, "env")
	assert.NotContains(t, spec, "dynamic-linking")
}

func TestDescriptorHashStable(t *testing.T) {
	first, err := target.Resolve(target.DefaultTriple)
	require.NoError(t, err)

	second, err := target.Resolve(target.DefaultTriple)
	require.NoError(t, err)

	firstHash, err := first.Hash()
	require.NoError(t, err)

	secondHash, err := second.Hash()
	require.NoError(t, err)

	assert.Equal(t, firstHash, secondHash)
	assert.Len(t, firstHash, 64)
}
