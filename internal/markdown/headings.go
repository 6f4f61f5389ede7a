package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Heading is one entry in a document outline.
type Heading struct {
	Level  int    // 1-6, ATX or setext
	Text   string // rendered text with inline markup flattened
	Offset int    // byte offset of the heading line in the source
}

// ExtractHeadings parses source as GitHub Flavored Markdown and returns its
// headings in document order. Because the document is parsed properly, a `#`
// line inside a fenced code block is code, not a heading.
func ExtractHeadings(source []byte) []Heading {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(source))

	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		offset := 0
		if lines := h.Lines(); lines.Len() > 0 {
			offset = lines.At(0).Start
		}
		headings = append(headings, Heading{
			Level:  h.Level,
			Text:   nodeText(h, source),
			Offset: offset,
		})
		// Headings never nest, no need to descend.
		return ast.WalkSkipChildren, nil
	})
	return headings
}

// nodeText flattens the inline content of a node to plain text, so
// "## Using `mdtoc` with *style*" yields "Using mdtoc with style".
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
