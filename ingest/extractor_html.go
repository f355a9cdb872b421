package ingest

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// Compile-time interface check.
var _ Extractor = (*HTMLExtractor)(nil)

// HTMLExtractor extracts readable article text from HTML documents,
// dropping navigation, scripts and boilerplate.
type HTMLExtractor struct{}

// NewHTMLExtractor creates an HTML extractor.
func NewHTMLExtractor() *HTMLExtractor { return &HTMLExtractor{} }

func (e *HTMLExtractor) Extract(content []byte) (string, error) {
	pageURL, _ := url.Parse("https://localhost/")
	article, err := readability.FromReader(bytes.NewReader(content), pageURL)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return strings.TrimSpace(article.TextContent), nil
}
