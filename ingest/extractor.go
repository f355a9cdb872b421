package ingest

import "strings"

// Extractor converts raw document content to plain text.
type Extractor interface {
	Extract(content []byte) (string, error)
}

// ContentType identifies the MIME type of content for extraction.
type ContentType string

const (
	TypePlainText ContentType = "text/plain"
	TypeHTML      ContentType = "text/html"
	TypeMarkdown  ContentType = "text/markdown"
	TypePDF       ContentType = "application/pdf"
)

// ContentTypeFromExtension maps file extensions to content types.
// Unknown extensions fall back to plain text.
func ContentTypeFromExtension(ext string) ContentType {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "pdf":
		return TypePDF
	case "html", "htm":
		return TypeHTML
	case "md", "markdown":
		return TypeMarkdown
	default:
		return TypePlainText
	}
}

// PlainTextExtractor returns content as-is, trimmed.
type PlainTextExtractor struct{}

var _ Extractor = (*PlainTextExtractor)(nil)

func (PlainTextExtractor) Extract(content []byte) (string, error) {
	return strings.TrimSpace(string(content)), nil
}
