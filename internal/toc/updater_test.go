package toc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdtoc/internal/config"
)

const sampleDoc = `# Guide

<!-- TOC -->
stale entry
<!-- /TOC -->

## Install

### Linux

## Usage
`

func TestApply_RewritesRegion(t *testing.T) {
	u := NewUpdater(config.Default())
	out, changed, err := u.Apply([]byte(sampleDoc))

	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, string(out), "- [Install](#install)\n  - [Linux](#linux)\n- [Usage](#usage)")
	assert.NotContains(t, string(out), "stale entry")
}

func TestApply_Idempotent(t *testing.T) {
	u := NewUpdater(config.Default())

	once, changed, err := u.Apply([]byte(sampleDoc))
	require.NoError(t, err)
	require.True(t, changed)

	twice, changed, err := u.Apply(once)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, string(once), string(twice))
}

func TestApply_PreservesBytesOutsideRegion(t *testing.T) {
	u := NewUpdater(config.Default())
	out, _, err := u.Apply([]byte(sampleDoc))
	require.NoError(t, err)

	prefix := sampleDoc[:strings.Index(sampleDoc, "<!-- TOC -->")+len("<!-- TOC -->")]
	suffix := sampleDoc[strings.Index(sampleDoc, "<!-- /TOC -->"):]
	assert.True(t, strings.HasPrefix(string(out), prefix), "bytes before the region must not change")
	assert.True(t, strings.HasSuffix(string(out), suffix), "bytes after the region must not change")
}

func TestApply_EmptyOutlineLeavesEmptyRegion(t *testing.T) {
	doc := "<!-- TOC -->\nold\n<!-- /TOC -->\n\nprose only\n"
	u := NewUpdater(config.Default())

	out, changed, err := u.Apply([]byte(doc))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "<!-- TOC -->\n\n<!-- /TOC -->\n\nprose only\n", string(out))
}

func TestApply_AnchorsAccountForFilteredHeadings(t *testing.T) {
	// The H1 title is excluded from the list by min_level but owns #install
	// on GitHub; the H2's entry must link to #install-1.
	doc := "# Install\n\n<!-- TOC -->\n<!-- /TOC -->\n\n## Install\n"
	u := NewUpdater(config.Default())

	out, changed, err := u.Apply([]byte(doc))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, string(out), "- [Install](#install-1)")
	assert.NotContains(t, string(out), "(#install)\n")
}

func TestApply_PreservesCRLF(t *testing.T) {
	doc := "# Title\r\n\r\n<!-- TOC -->\r\nold\r\n<!-- /TOC -->\r\n\r\n## Install\r\n"
	u := NewUpdater(config.Default())

	out, changed, err := u.Apply([]byte(doc))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, string(out), "<!-- TOC -->\r\n\r\n- [Install](#install)\r\n\r\n<!-- /TOC -->\r\n")
	// No bare LF anywhere: stripping CRLF pairs must leave no newline behind.
	assert.NotContains(t, strings.ReplaceAll(string(out), "\r\n", ""), "\n")

	twice, changed, err := u.Apply(out)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, string(out), string(twice))
}

func TestApply_MarkerErrors(t *testing.T) {
	u := NewUpdater(config.Default())

	t.Run("missing end marker", func(t *testing.T) {
		_, _, err := u.Apply([]byte("<!-- TOC -->\n## H\n"))
		assert.ErrorIs(t, err, ErrNoEndMarker)
	})

	t.Run("swapped markers", func(t *testing.T) {
		_, _, err := u.Apply([]byte("<!-- /TOC -->\n<!-- TOC -->\n"))
		assert.ErrorIs(t, err, ErrMarkerOrder)
	})

	t.Run("no markers", func(t *testing.T) {
		_, _, err := u.Apply([]byte("## Just a doc\n"))
		assert.ErrorIs(t, err, ErrNoMarkers)
	})
}

func TestApply_CustomMarkers(t *testing.T) {
	cfg := config.Default()
	cfg.StartMarker = "<!-- BEGIN TOC -->"
	cfg.EndMarker = "<!-- END TOC -->"
	u := NewUpdater(cfg)

	doc := "<!-- BEGIN TOC -->\n<!-- END TOC -->\n\n## Only\n"
	out, changed, err := u.Apply([]byte(doc))

	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, string(out), "- [Only](#only)")
}

func TestUpdateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.md")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0644))

	u := NewUpdater(config.Default())

	changed, err := u.UpdateFile(path)
	require.NoError(t, err)
	assert.True(t, changed)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "- [Install](#install)")

	// Second run is a no-op.
	changed, err = u.UpdateFile(path)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestUpdateFile_ErrorLeavesFileUntouched(t *testing.T) {
	broken := "<!-- TOC -->\n## No end marker\n"
	path := filepath.Join(t.TempDir(), "broken.md")
	require.NoError(t, os.WriteFile(path, []byte(broken), 0644))

	u := NewUpdater(config.Default())
	_, err := u.UpdateFile(path)
	require.ErrorIs(t, err, ErrNoEndMarker)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, broken, string(content))
}

func TestCheckFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.md")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0644))

	u := NewUpdater(config.Default())

	stale, err := u.CheckFile(path)
	require.NoError(t, err)
	assert.True(t, stale)

	// CheckFile must not write.
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleDoc, string(content))

	_, err = u.UpdateFile(path)
	require.NoError(t, err)

	stale, err = u.CheckFile(path)
	require.NoError(t, err)
	assert.False(t, stale)
}
