package ingest

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Compile-time interface check.
var _ Extractor = (*PDFExtractor)(nil)

// PDFExtractor extracts plain text from PDF documents. The content is
// written to a temporary file for the duration of the call and removed
// before returning, on every path.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF extractor.
func NewPDFExtractor() *PDFExtractor { return &PDFExtractor{} }

// Extract parses every page and concatenates the page text. Pages that
// fail to parse or carry no text are skipped. A document that yields no
// text at all is an error.
func (e *PDFExtractor) Extract(content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("empty pdf content")
	}

	tmp, err := os.CreateTemp("", "docchat-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp pdf: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp pdf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp pdf: %w", err)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var text strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text.WriteString(pageText)
	}

	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", fmt.Errorf("pdf contains no extractable text")
	}
	return out, nil
}
