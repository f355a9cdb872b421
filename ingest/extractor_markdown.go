package ingest

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Compile-time interface check.
var _ Extractor = (*MarkdownExtractor)(nil)

// MarkdownExtractor parses Markdown and returns the document's plain text
// with formatting markers removed. Code blocks keep their content.
type MarkdownExtractor struct {
	md goldmark.Markdown
}

// NewMarkdownExtractor creates a Markdown extractor.
func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{md: goldmark.New()}
}

func (e *MarkdownExtractor) Extract(content []byte) (string, error) {
	doc := e.md.Parser().Parse(text.NewReader(content))

	var out strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && out.Len() > 0 {
				out.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			out.Write(t.Segment.Value(content))
			if t.SoftLineBreak() || t.HardLineBreak() {
				out.WriteByte('\n')
			}
		case *ast.FencedCodeBlock:
			writeLines(&out, t.Lines(), content)
		case *ast.CodeBlock:
			writeLines(&out, t.Lines(), content)
		case *ast.AutoLink:
			out.Write(t.URL(content))
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out.String()), nil
}

func writeLines(out *strings.Builder, lines *text.Segments, source []byte) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out.Write(seg.Value(source))
	}
}
