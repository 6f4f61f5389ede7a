package toc

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/renameio/v2"

	"mdtoc/internal/config"
	"mdtoc/internal/markdown"
)

// Updater regenerates the TOC region of Markdown documents.
type Updater struct {
	cfg *config.Config
}

func NewUpdater(cfg *config.Config) *Updater {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Updater{cfg: cfg}
}

// Apply returns the document with its TOC region regenerated and whether the
// content changed. It never modifies a byte outside the marker lines, and
// applying it to its own output is a no-op.
func (u *Updater) Apply(source []byte) ([]byte, bool, error) {
	lines := strings.Split(string(source), "\n")
	region, err := FindRegion(lines, u.cfg.StartMarker, u.cfg.EndMarker)
	if err != nil {
		return nil, false, err
	}

	rendered := Render(markdown.ExtractHeadings(source), RenderOptions{
		MinLevel: u.cfg.MinLevel,
		MaxLevel: u.cfg.MaxLevel,
		Bullet:   u.cfg.Bullet,
		Indent:   u.cfg.Indent,
	})
	// Match the document's own line endings: a CRLF file keeps \r on its
	// preserved lines, so LF-only TOC lines would leave the region mixed.
	eol := ""
	if strings.Contains(string(source), "\r\n") {
		eol = "\r"
	}
	body := []string{eol}
	if rendered != "" {
		for _, line := range strings.Split(rendered, "\n") {
			body = append(body, line+eol)
		}
		body = append(body, eol)
	}

	updated := make([]string, 0, region.StartLine+1+len(body)+len(lines)-region.EndLine)
	updated = append(updated, lines[:region.StartLine+1]...)
	updated = append(updated, body...)
	updated = append(updated, lines[region.EndLine:]...)

	out := strings.Join(updated, "\n")
	return []byte(out), out != string(source), nil
}

// UpdateFile rewrites the TOC region of the file at path. The write is atomic:
// an interrupted run leaves the original file intact.
func (u *Updater) UpdateFile(path string) (bool, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	out, changed, err := u.Apply(source)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	if !changed {
		return false, nil
	}
	if err := writeAtomic(path, out); err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	return true, nil
}

// CheckFile reports whether the file's TOC is stale, writing nothing.
func (u *Updater) CheckFile(path string) (bool, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	_, changed, err := u.Apply(source)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	return changed, nil
}

// writeAtomic replaces path with content. renameio handles temp file
// creation, fsync, atomic rename and cleanup on error.
func writeAtomic(path string, content []byte) error {
	pending, err := renameio.NewPendingFile(path, renameio.WithExistingPermissions())
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() {
		// Cleanup is a no-op once the file has been committed.
		_ = pending.Cleanup()
	}()

	if _, err := pending.Write(content); err != nil {
		return fmt.Errorf("write pending file: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace file: %w", err)
	}
	return nil
}
