package docchat

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// mockProvider for app tests.
type mockProvider struct {
	resp     ChatResponse
	err      error
	requests []ChatRequest
}

func (m *mockProvider) Name() string { return "mock" }
func (m *mockProvider) Chat(_ context.Context, req ChatRequest) (ChatResponse, error) {
	m.requests = append(m.requests, req)
	return m.resp, m.err
}

// memHistory is an in-memory HistoryStore for app tests.
type memHistory struct {
	msgs      []Message
	appendErr error
}

func (h *memHistory) Init(context.Context) error { return nil }
func (h *memHistory) AppendMessage(_ context.Context, msg Message) error {
	if h.appendErr != nil {
		return h.appendErr
	}
	h.msgs = append(h.msgs, msg)
	return nil
}
func (h *memHistory) Messages(_ context.Context, sessionID string, limit int) ([]Message, error) {
	var out []Message
	for _, m := range h.msgs {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}
func (h *memHistory) Close() error { return nil }

func newTestApp(provider *mockProvider, idx *mockIndex, splitter *mockSplitter, history HistoryStore) *App {
	return New(
		WithProvider(provider),
		WithIndex(idx),
		WithSplitter(splitter),
		WithHistory(history),
	)
}

func TestHandleQueryUngrounded(t *testing.T) {
	provider := &mockProvider{resp: ChatResponse{Content: "answer"}}
	idx := &mockIndex{}
	app := newTestApp(provider, idx, &mockSplitter{}, nil)
	session := NewSessionState()

	answer, err := app.HandleQuery(context.Background(), session, "  what is go?  ")
	if err != nil {
		t.Fatal(err)
	}
	if answer != "answer" {
		t.Errorf("got %q", answer)
	}
	// Ungrounded mode never searches and sends the normalized query alone.
	if idx.lastQuery != "" {
		t.Error("ungrounded query must not search")
	}
	if got := provider.requests[0].Messages[0].Content; got != "what is go?" {
		t.Errorf("prompt = %q", got)
	}
}

// The app-level option and the builder-level option are distinct; the
// app-level value must reach the index on grounded queries.
func TestWithTopKFlowsIntoRetrieval(t *testing.T) {
	idx := &mockIndex{}
	app := New(
		WithProvider(&mockProvider{resp: ChatResponse{Content: "a"}}),
		WithIndex(idx),
		WithSplitter(&mockSplitter{}),
		WithTopK(9),
	)
	session := &SessionState{SessionID: NewID(), RAGEnabled: true}

	if _, err := app.HandleQuery(context.Background(), session, "q"); err != nil {
		t.Fatal(err)
	}
	if idx.lastTopK != 9 {
		t.Errorf("topK = %d, want 9", idx.lastTopK)
	}
}

func TestHandleQueryGroundedUsesRetrievedContext(t *testing.T) {
	provider := &mockProvider{resp: ChatResponse{Content: "grounded answer"}}
	idx := &mockIndex{records: []Record{{Content: "chunk one"}, {Content: "chunk two"}}}
	app := newTestApp(provider, idx, &mockSplitter{}, nil)
	session := &SessionState{SessionID: NewID(), RAGEnabled: true, LastDocument: "doc.pdf"}

	_, err := app.HandleQuery(context.Background(), session, "question")
	if err != nil {
		t.Fatal(err)
	}
	prompt := provider.requests[0].Messages[0].Content
	if !strings.Contains(prompt, "chunk one") || !strings.Contains(prompt, "chunk two") {
		t.Errorf("retrieved context missing from prompt: %q", prompt)
	}
	if !strings.Contains(prompt, "question") {
		t.Errorf("query missing from prompt: %q", prompt)
	}
}

// A failed search degrades to the fixed failure string as context; the
// generation call still happens.
func TestHandleQuerySearchFailureStillGenerates(t *testing.T) {
	provider := &mockProvider{resp: ChatResponse{Content: "best effort"}}
	idx := &mockIndex{searchErr: errors.New("down")}
	app := newTestApp(provider, idx, &mockSplitter{}, nil)
	session := &SessionState{SessionID: NewID(), RAGEnabled: true}

	answer, err := app.HandleQuery(context.Background(), session, "q")
	if err != nil {
		t.Fatal(err)
	}
	if answer != "best effort" {
		t.Errorf("got %q", answer)
	}
	if !strings.Contains(provider.requests[0].Messages[0].Content, SearchFailureMessage) {
		t.Error("failure message should flow into the prompt as context")
	}
}

func TestHandleQueryGenerationFailurePreservesHistoryAndSession(t *testing.T) {
	provider := &mockProvider{err: &ErrLLM{Provider: "mock", Message: "rate limited"}}
	history := &memHistory{}
	app := newTestApp(provider, &mockIndex{}, &mockSplitter{}, history)
	session := &SessionState{SessionID: NewID(), RAGEnabled: true, LastDocument: "doc.pdf"}

	_, err := app.HandleQuery(context.Background(), session, "q")
	if err == nil {
		t.Fatal("expected generation error")
	}
	// The user turn is already on record; no assistant turn was added.
	if len(history.msgs) != 1 || history.msgs[0].Role != "user" {
		t.Errorf("history = %+v", history.msgs)
	}
	if !session.RAGEnabled || session.LastDocument != "doc.pdf" {
		t.Errorf("session mutated: %+v", session)
	}
}

func TestHandleQueryAppendsBothTurns(t *testing.T) {
	provider := &mockProvider{resp: ChatResponse{Content: "reply"}}
	history := &memHistory{}
	app := newTestApp(provider, &mockIndex{}, &mockSplitter{}, history)
	session := NewSessionState()

	if _, err := app.HandleQuery(context.Background(), session, "hello"); err != nil {
		t.Fatal(err)
	}
	msgs, err := app.History(context.Background(), session.SessionID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 || msgs[0].Role != "user" || msgs[1].Role != "assistant" {
		t.Errorf("history = %+v", msgs)
	}
	if msgs[1].Content != "reply" {
		t.Errorf("assistant turn = %q", msgs[1].Content)
	}
}

func TestHandleUploadSuccessNotice(t *testing.T) {
	app := newTestApp(&mockProvider{}, &mockIndex{clearOK: true, uploadOK: true},
		&mockSplitter{chunks: []string{"c"}}, nil)
	session := NewSessionState()

	notice, err := app.HandleUpload(context.Background(), session, []byte("pdf"), "guide.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(notice, "guide.pdf") || !strings.Contains(notice, "성공적으로 학습했습니다") {
		t.Errorf("notice = %q", notice)
	}
	if !session.RAGEnabled {
		t.Error("grounding not enabled")
	}
}

func TestHandleUploadFailureNotices(t *testing.T) {
	session := NewSessionState()

	app := newTestApp(&mockProvider{}, &mockIndex{clearOK: false},
		&mockSplitter{chunks: []string{"c"}}, nil)
	notice, err := app.HandleUpload(context.Background(), session, []byte("x"), "a.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(notice, "삭제하는 데 실패했습니다") {
		t.Errorf("clear failure notice = %q", notice)
	}

	app = newTestApp(&mockProvider{}, &mockIndex{clearOK: true, uploadOK: false},
		&mockSplitter{chunks: []string{"c"}}, nil)
	notice, err = app.HandleUpload(context.Background(), session, []byte("x"), "b.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(notice, "저장하는 데 실패했습니다") {
		t.Errorf("upload failure notice = %q", notice)
	}
	if session.RAGEnabled {
		t.Error("failed uploads must not enable grounding")
	}
}

// Full session walkthrough: ungrounded answer, document upload, grounded
// answer, re-upload of the same document as a no-op.
func TestSessionLifecycle(t *testing.T) {
	provider := &mockProvider{resp: ChatResponse{Content: "ok"}}
	idx := &mockIndex{clearOK: true, uploadOK: true,
		records: []Record{{Content: "doc chunk"}}}
	history := &memHistory{}
	app := newTestApp(provider, idx, &mockSplitter{chunks: []string{"doc chunk"}}, history)
	session := NewSessionState()
	ctx := context.Background()

	// 1. Before any upload, answers are ungrounded.
	if _, err := app.HandleQuery(ctx, session, "first question"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(provider.requests[0].Messages[0].Content, "doc chunk") {
		t.Error("no context expected before upload")
	}

	// 2. Upload flips the session to grounded mode.
	if _, err := app.HandleUpload(ctx, session, []byte("pdf bytes"), "manual.pdf"); err != nil {
		t.Fatal(err)
	}
	if !session.RAGEnabled || session.LastDocument != "manual.pdf" {
		t.Fatalf("session = %+v", session)
	}

	// 3. Subsequent answers are grounded on retrieved chunks.
	if _, err := app.HandleQuery(ctx, session, "second question"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(provider.requests[1].Messages[0].Content, "doc chunk") {
		t.Error("grounded query must include retrieved context")
	}

	// 4. Re-uploading the same filename does not touch the index again.
	clearsBefore := idx.clearCalls
	notice, err := app.HandleUpload(ctx, session, []byte("changed bytes"), "manual.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if idx.clearCalls != clearsBefore {
		t.Error("same-name upload must be a no-op")
	}
	if !strings.Contains(notice, "이미 학습된") {
		t.Errorf("no-op notice = %q", notice)
	}
}
