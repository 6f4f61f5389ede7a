package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// StagedMarkdownFiles returns the staged paths with one of the given
// extensions. Used by the pre-commit hook so only files that are part of the
// commit get their TOC regenerated.
func StagedMarkdownFiles(extensions []string) ([]string, error) {
	cmd := exec.Command("git", "diff", "--cached", "--name-only", "--diff-filter=ACM", "-z")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff failed: %w", err)
	}
	return filterByExtension(parseNameList(output), extensions), nil
}

// parseNameList splits NUL-separated output of git diff -z.
func parseNameList(output []byte) []string {
	var paths []string
	for _, p := range strings.Split(string(output), "\x00") {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func filterByExtension(paths, extensions []string) []string {
	var out []string
	for _, p := range paths {
		ext := strings.ToLower(filepath.Ext(p))
		for _, e := range extensions {
			if ext == e {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Add re-stages paths so hook updates land in the same commit.
func Add(paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	cmd := exec.Command("git", append([]string{"add", "--"}, paths...)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git add failed: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// HooksDir resolves the hooks directory of the enclosing repository,
// honoring core.hooksPath and worktrees.
func HooksDir() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--git-path", "hooks")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}
