package crawler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("content\n"), 0644))
}

func TestScan_FindsMarkdownAndSkipsIgnoredDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "README.md"))
	writeFile(t, filepath.Join(root, "docs", "guide.markdown"))
	writeFile(t, filepath.Join(root, "docs", "notes.txt"))
	writeFile(t, filepath.Join(root, ".git", "ignored.md"))
	writeFile(t, filepath.Join(root, "node_modules", "pkg", "README.md"))

	c := New(nil, nil)
	var found []string
	require.NoError(t, c.Scan(root, func(path string) {
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		found = append(found, rel)
	}))

	assert.ElementsMatch(t, []string{
		"README.md",
		filepath.Join("docs", "guide.markdown"),
	}, found)
}

func TestScan_CustomExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"))
	writeFile(t, filepath.Join(root, "b.mdx"))

	c := New([]string{".mdx"}, nil)
	var found []string
	require.NoError(t, c.Scan(root, func(path string) {
		found = append(found, filepath.Base(path))
	}))

	assert.Equal(t, []string{"b.mdx"}, found)
}

func TestDirs_SkipsIgnored(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs", "a.md"))
	writeFile(t, filepath.Join(root, ".git", "b.md"))

	c := New(nil, nil)
	dirs, err := c.Dirs(root)
	require.NoError(t, err)

	assert.Contains(t, dirs, root)
	assert.Contains(t, dirs, filepath.Join(root, "docs"))
	assert.NotContains(t, dirs, filepath.Join(root, ".git"))
}

func TestMatches_CaseInsensitive(t *testing.T) {
	c := New(nil, nil)
	assert.True(t, c.Matches("README.MD"))
	assert.True(t, c.Matches("guide.markdown"))
	assert.False(t, c.Matches("main.go"))
	assert.False(t, c.Matches("md"))
}
