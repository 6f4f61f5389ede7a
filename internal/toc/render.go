package toc

import (
	"strings"

	"mdtoc/internal/markdown"
)

// RenderOptions controls how the outline is rendered as a list.
type RenderOptions struct {
	MinLevel int
	MaxLevel int
	Bullet   string
	Indent   int
}

// Render builds the nested link list for a document outline. Every heading
// feeds the slugger, filtered or not: GitHub assigns anchors to all headings
// in a document, so an excluded H1 still claims its slug and a later H2 with
// the same text must link to the -1 variant. Nesting is relative to the
// shallowest heading that survives the level filter, so a document whose top
// heading level is 3 still starts at indent zero.
func Render(headings []markdown.Heading, opts RenderOptions) string {
	type entry struct {
		heading markdown.Heading
		slug    string
	}
	slugger := NewSlugger()
	var included []entry
	minSeen := 7
	for _, h := range headings {
		slug := slugger.Slug(h.Text)
		if h.Level < opts.MinLevel || h.Level > opts.MaxLevel {
			continue
		}
		if h.Level < minSeen {
			minSeen = h.Level
		}
		included = append(included, entry{heading: h, slug: slug})
	}
	if len(included) == 0 {
		return ""
	}

	lines := make([]string, 0, len(included))
	for _, e := range included {
		depth := e.heading.Level - minSeen
		indent := strings.Repeat(" ", depth*opts.Indent)
		lines = append(lines, indent+opts.Bullet+" ["+escapeLinkText(e.heading.Text)+"](#"+e.slug+")")
	}
	return strings.Join(lines, "\n")
}

// escapeLinkText keeps brackets in heading text from breaking the link syntax.
func escapeLinkText(text string) string {
	text = strings.ReplaceAll(text, "[", `\[`)
	return strings.ReplaceAll(text, "]", `\]`)
}
