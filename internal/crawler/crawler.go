package crawler

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Crawler scans a directory tree for Markdown documents.
type Crawler struct {
	extensions []string
	ignored    []string
}

// New creates a new crawler instance. Nil slices fall back to the usual
// Markdown extensions and ignore set.
func New(extensions, ignored []string) *Crawler {
	if len(extensions) == 0 {
		extensions = []string{".md", ".markdown"}
	}
	if len(ignored) == 0 {
		ignored = []string{".git", "vendor", "node_modules", "testdata"}
	}
	return &Crawler{
		extensions: extensions,
		ignored:    ignored,
	}
}

// Scan walks the root directory and streams every Markdown file path through
// the callback, preventing large path buildup for big trees.
func (c *Crawler) Scan(root string, onFile func(path string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip ignored directories
		if d.IsDir() {
			for _, ign := range c.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !c.Matches(d.Name()) {
			return nil
		}

		onFile(path)
		return nil
	})
}

// Dirs returns every directory under root that Scan would descend into.
// The watch command registers these with fsnotify.
func (c *Crawler) Dirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		for _, ign := range c.ignored {
			if d.Name() == ign {
				return filepath.SkipDir
			}
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs, err
}

// Matches reports whether a file name has one of the Markdown extensions.
func (c *Crawler) Matches(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range c.extensions {
		if ext == e {
			return true
		}
	}
	return false
}
