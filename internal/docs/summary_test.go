package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		names []string
		want  Summary
	}{
		{
			name:  "empty",
			names: nil,
			want:  nil,
		},
		{
			name:  "directories_announced_once",
			names: []string{"Token", "utils/Math", "utils/Safe", "vault/Vault"},
			want: Summary{
				{0, "Token", "Token.md"},
				{0, "utils", "utils.md"},
				{1, "Math", "utils/Math.md"},
				{1, "Safe", "utils/Safe.md"},
				{0, "vault", "vault.md"},
				{1, "Vault", "vault/Vault.md"},
			},
		},
		{
			name:  "grandparent_not_announced",
			names: []string{"a/b/C", "a/b/D"},
			want: Summary{
				{1, "b", "a/b.md"},
				{2, "C", "a/b/C.md"},
				{2, "D", "a/b/D.md"},
			},
		},
		{
			name:  "parent_prefix_of_current_base",
			names: []string{"a/b/C", "a/E"},
			want: Summary{
				{1, "b", "a/b.md"},
				{2, "C", "a/b/C.md"},
				{1, "E", "a/E.md"},
			},
		},
		{
			name:  "sibling_directories",
			names: []string{"a/b/C", "a/c/D"},
			want: Summary{
				{1, "b", "a/b.md"},
				{2, "C", "a/b/C.md"},
				{1, "c", "a/c.md"},
				{2, "D", "a/c/D.md"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildSummary(tt.names))
		})
	}
}

func TestSummaryMarkdown(t *testing.T) {
	t.Parallel()

	got := BuildSummary([]string{"Token", "utils/Math", "utils/Safe", "vault/Vault"}).Markdown()
	want := "- [Token](Token.md)\n" +
		"- [utils](utils.md)\n" +
		"    - [Math](utils/Math.md)\n" +
		"    - [Safe](utils/Safe.md)\n" +
		"- [vault](vault.md)\n" +
		"    - [Vault](vault/Vault.md)\n"
	assert.Equal(t, want, got)
}
