package ingest

import (
	"path/filepath"

	docchat "github.com/nevindra/docchat"
)

// Compile-time interface check.
var _ docchat.DocumentSplitter = (*Pipeline)(nil)

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithChunker replaces the default line chunker.
func WithChunker(c Chunker) PipelineOption {
	return func(p *Pipeline) { p.chunker = c }
}

// WithExtractor registers or replaces the extractor for a content type.
func WithExtractor(ct ContentType, e Extractor) PipelineOption {
	return func(p *Pipeline) { p.extractors[ct] = e }
}

// Pipeline turns raw document bytes into upload-ready chunks: pick an
// extractor by file extension, extract plain text, split into chunks.
type Pipeline struct {
	chunker    Chunker
	extractors map[ContentType]Extractor
}

// NewPipeline creates a Pipeline with extractors for PDF, HTML, Markdown
// and plain text, and a line chunker with the default size limit.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		chunker: NewLineChunker(),
		extractors: map[ContentType]Extractor{
			TypePDF:       NewPDFExtractor(),
			TypeHTML:      NewHTMLExtractor(),
			TypeMarkdown:  NewMarkdownExtractor(),
			TypePlainText: PlainTextExtractor{},
		},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ExtractAndSplit extracts text from content using the extractor selected
// by filename extension and splits it into chunks. A document that splits
// into zero chunks is not an error; the empty slice is returned as-is.
func (p *Pipeline) ExtractAndSplit(content []byte, filename string) ([]string, error) {
	ct := ContentTypeFromExtension(filepath.Ext(filename))
	extractor, ok := p.extractors[ct]
	if !ok {
		extractor = p.extractors[TypePlainText]
	}

	text, err := extractor.Extract(content)
	if err != nil {
		return nil, err
	}
	return p.chunker.Chunk(text), nil
}
