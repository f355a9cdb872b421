package docchat

import (
	"context"
	"log/slog"
	"strings"
)

// SearchFailureMessage is returned by BuildContext when the search call
// fails. The string itself is treated as context by the composer; the
// degradation is deliberate and visible in the final answer.
const SearchFailureMessage = "검색 서비스 호출에 실패했습니다. CLI 콘솔의 에러 로그를 확인해주세요."

// defaultTopK is the number of records requested per query.
const defaultTopK = 5

// ContextOption configures a ContextBuilder.
type ContextOption func(*ContextBuilder)

// WithContextTopK sets how many records each query retrieves. Default is 5.
func WithContextTopK(k int) ContextOption {
	return func(b *ContextBuilder) { b.topK = k }
}

// WithContextLogger sets a structured logger for retrieval diagnostics.
func WithContextLogger(l *slog.Logger) ContextOption {
	return func(b *ContextBuilder) { b.logger = l }
}

// ContextBuilder turns a user query into a single context string by
// searching the index and concatenating the matching records' content.
type ContextBuilder struct {
	index  SearchIndex
	topK   int
	logger *slog.Logger
}

// NewContextBuilder creates a ContextBuilder over the given index.
func NewContextBuilder(index SearchIndex, opts ...ContextOption) *ContextBuilder {
	b := &ContextBuilder{index: index, topK: defaultTopK, logger: nopLogger}
	for _, o := range opts {
		o(b)
	}
	return b
}

// BuildContext searches the index and joins the matching records' content
// with one blank line between adjacent entries, preserving the store's
// relevance order. An empty result set yields an empty string, distinct
// from SearchFailureMessage which is returned on any request failure.
func (b *ContextBuilder) BuildContext(ctx context.Context, query string) string {
	records, err := b.index.Search(ctx, query, b.topK)
	if err != nil {
		b.logger.Error("retrieval: search request failed", "error", err)
		return SearchFailureMessage
	}

	b.logger.Debug("retrieval: search completed", "results", len(records))

	contents := make([]string, len(records))
	for i, r := range records {
		contents[i] = r.Content
	}
	return strings.Join(contents, "\n\n")
}
