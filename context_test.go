package docchat

import (
	"context"
	"errors"
	"testing"
)

// mockIndex for context and ingestor tests.
type mockIndex struct {
	clearOK   bool
	uploadOK  bool
	records   []Record
	searchErr error

	clearCalls  int
	uploadCalls int
	uploaded    [][]string
	lastQuery   string
	lastTopK    int
}

func (m *mockIndex) ClearAll(context.Context) bool {
	m.clearCalls++
	return m.clearOK
}

func (m *mockIndex) Upload(_ context.Context, chunks []string) bool {
	m.uploadCalls++
	m.uploaded = append(m.uploaded, chunks)
	return m.uploadOK
}

func (m *mockIndex) Search(_ context.Context, query string, topK int) ([]Record, error) {
	m.lastQuery = query
	m.lastTopK = topK
	return m.records, m.searchErr
}

func TestBuildContextJoinsWithBlankLines(t *testing.T) {
	idx := &mockIndex{records: []Record{
		{Key: "a", Content: "first"},
		{Key: "b", Content: "second"},
		{Key: "c", Content: "third"},
	}}
	b := NewContextBuilder(idx)

	got := b.BuildContext(context.Background(), "q")
	if got != "first\n\nsecond\n\nthird" {
		t.Errorf("got %q", got)
	}
}

func TestBuildContextEmptyResults(t *testing.T) {
	b := NewContextBuilder(&mockIndex{})
	if got := b.BuildContext(context.Background(), "q"); got != "" {
		t.Errorf("expected empty context, got %q", got)
	}
}

func TestBuildContextFailureMessage(t *testing.T) {
	idx := &mockIndex{searchErr: errors.New("connection refused")}
	b := NewContextBuilder(idx)

	got := b.BuildContext(context.Background(), "q")
	if got != SearchFailureMessage {
		t.Errorf("got %q, want the fixed failure message", got)
	}
	if got != "검색 서비스 호출에 실패했습니다. CLI 콘솔의 에러 로그를 확인해주세요." {
		t.Errorf("failure message changed: %q", got)
	}
}

func TestBuildContextTopK(t *testing.T) {
	idx := &mockIndex{}
	NewContextBuilder(idx).BuildContext(context.Background(), "q")
	if idx.lastTopK != 5 {
		t.Errorf("default topK = %d, want 5", idx.lastTopK)
	}

	NewContextBuilder(idx, WithContextTopK(3)).BuildContext(context.Background(), "q")
	if idx.lastTopK != 3 {
		t.Errorf("topK = %d, want 3", idx.lastTopK)
	}
}
