package toc

import (
	"strconv"
	"strings"
	"unicode"
)

// Slugger assigns anchors the way GitHub renders them, suffixing duplicates
// with -1, -2, ... in document order so generated links actually resolve.
type Slugger struct {
	seen map[string]int
}

func NewSlugger() *Slugger {
	return &Slugger{seen: make(map[string]int)}
}

// Slug returns the anchor for a heading text, unique within this Slugger.
func (s *Slugger) Slug(text string) string {
	base := slugify(text)
	n := s.seen[base]
	s.seen[base] = n + 1
	if n == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

// slugify lowercases, turns spaces into hyphens and drops punctuation other
// than hyphens and underscores. Unicode letters survive.
func slugify(text string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case r == ' ' || r == '-':
			b.WriteByte('-')
		case r == '_':
			b.WriteByte('_')
		}
	}
	return b.String()
}
