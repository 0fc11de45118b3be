package docs

import (
	"testing"

	"github.com/jcdickinson/soldoc/internal/abi"
	"github.com/jcdickinson/soldoc/internal/artifact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triple(file, name string) artifact.Triple {
	return artifact.Triple{File: file, Name: name, Contract: &artifact.Contract{ABI: &abi.ABI{}}}
}

func TestSourceFilter_Match(t *testing.T) {
	t.Parallel()

	filter, err := NewSourceFilter("./src/")
	require.NoError(t, err)
	assert.Equal(t, "src", filter.Root())

	tests := []struct {
		file string
		want bool
	}{
		{"src/Token.sol", true},
		{"src/utils/Math.sol", true},
		{"src/a/b/c/Deep.sol", true},
		{"lib/forge-std/src/Test.sol", false},
		{"srcs/Other.sol", false},
		{"test/Token.t.sol", false},
		{"src", false},
		{"/abs/src/Token.sol", false},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, filter.Match(tt.file))
		})
	}
}

func TestSourceFilter_InvalidRoot(t *testing.T) {
	t.Parallel()

	_, err := NewSourceFilter("src/[oops")
	assert.Error(t, err)
}

func TestGroupFiles(t *testing.T) {
	t.Parallel()

	filter, err := NewSourceFilter("src")
	require.NoError(t, err)

	triples := []artifact.Triple{
		triple("src/b/x.sol", "X"),
		triple("lib/dep/Dep.sol", "Dep"),
		triple("src/a/y.sol", "Y"),
		triple("src/a/z.sol", "Z1"),
		triple("src/a/z.sol", "Z2"),
		triple("test/T.sol", "T"),
	}

	groups, err := GroupFiles(triples, filter, DefaultExtension)
	require.NoError(t, err)

	var names []string
	for _, g := range groups {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"a/y", "a/z", "b/x"}, names)

	require.Len(t, groups[1].Contracts, 2)
	assert.Equal(t, "Z1", groups[1].Contracts[0].Name)
	assert.Equal(t, "Z2", groups[1].Contracts[1].Name)
}

func TestGroupFiles_LexicographicOrder(t *testing.T) {
	t.Parallel()

	filter, err := NewSourceFilter("src")
	require.NoError(t, err)

	groups, err := GroupFiles([]artifact.Triple{
		triple("src/utils/Math.sol", "Math"),
		triple("src/Token.sol", "Token"),
		triple("src/Utils.sol", "Utils"),
		triple("src/token/Vault.sol", "Vault"),
	}, filter, DefaultExtension)
	require.NoError(t, err)

	var names []string
	for _, g := range groups {
		names = append(names, g.Name)
	}
	// Byte order: uppercase sorts before lowercase.
	assert.Equal(t, []string{"Token", "Utils", "token/Vault", "utils/Math"}, names)
}

func TestGroupFiles_ExtensionInvariant(t *testing.T) {
	t.Parallel()

	filter, err := NewSourceFilter("src")
	require.NoError(t, err)

	_, err = GroupFiles([]artifact.Triple{triple("src/Yul.yul", "Y")}, filter, DefaultExtension)
	assert.ErrorIs(t, err, ErrPathInvariant)
}

func TestBuildFileDocs_MissingABI(t *testing.T) {
	t.Parallel()

	groups := []FileGroup{{
		Name:      "Broken",
		Contracts: []artifact.Triple{{File: "src/Broken.sol", Name: "Broken", Contract: &artifact.Contract{}}},
	}}

	_, err := BuildFileDocs(groups)
	require.ErrorIs(t, err, artifact.ErrMissingABI)
	assert.Contains(t, err.Error(), "src/Broken.sol")
}

func TestSourceFilter_ProjectRoot(t *testing.T) {
	t.Parallel()

	filter, err := NewSourceFilter("")
	require.NoError(t, err)
	assert.Equal(t, ".", filter.Root())
	assert.True(t, filter.Match("src/Token.sol"))
	assert.True(t, filter.Match("Top.sol"))

	groups, err := GroupFiles([]artifact.Triple{triple("src/Token.sol", "Token")}, filter, DefaultExtension)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "src/Token", groups[0].Name)
}
