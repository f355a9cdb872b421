package docchat

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Greeting opens every session before any ingestion or query happens.
const Greeting = "무엇을 도와드릴까요? PDF를 업로드하면 문서 기반 답변이 가능합니다."

// User-facing ingestion notices. Failed stages are reported as chat
// notices, not errors: the session keeps running.
const (
	noticeClearFailed  = "기존 인덱스 데이터를 삭제하는 데 실패했습니다. 잠시 후 다시 시도해주세요."
	noticeUploadFailed = "파일 내용을 AI Search에 저장하는 데 실패했습니다. CLI 콘솔의 에러 로그를 확인해주세요."
)

// Option configures an App.
type Option func(*App)

// WithProvider sets the text-generation capability.
func WithProvider(p Provider) Option {
	return func(a *App) { a.provider = p }
}

// WithIndex sets the remote search index.
func WithIndex(idx SearchIndex) Option {
	return func(a *App) { a.index = idx }
}

// WithSplitter sets the document extraction and chunking pipeline.
func WithSplitter(s DocumentSplitter) Option {
	return func(a *App) { a.splitter = s }
}

// WithHistory sets the transcript store. Without one the transcript is
// not persisted.
func WithHistory(h HistoryStore) Option {
	return func(a *App) { a.history = h }
}

// WithComposer replaces the default prompt composer.
func WithComposer(c *Composer) Option {
	return func(a *App) { a.composer = c }
}

// WithTopK sets how many records ground each query.
func WithTopK(k int) Option {
	return func(a *App) { a.topK = k }
}

// WithStatus registers a per-stage ingestion progress callback.
func WithStatus(fn func(IngestState)) Option {
	return func(a *App) { a.status = fn }
}

// WithLogger sets the structured logger used across the app.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// App wires the pipeline together: upload turns a document into index
// records, query turns a question into a grounded or ungrounded answer.
type App struct {
	provider Provider
	index    SearchIndex
	splitter DocumentSplitter
	history  HistoryStore
	composer *Composer
	topK     int
	status   func(IngestState)
	logger   *slog.Logger

	ingestor *Ingestor
	builder  *ContextBuilder
}

// New creates an App. WithProvider, WithIndex and WithSplitter are
// required for the full pipeline; the rest have working defaults.
func New(opts ...Option) *App {
	a := &App{
		composer: NewComposer(),
		topK:     defaultTopK,
		status:   func(IngestState) {},
		logger:   nopLogger,
	}
	for _, o := range opts {
		o(a)
	}
	a.ingestor = NewIngestor(a.index, a.splitter,
		WithIngestLogger(a.logger),
		WithStatusFunc(a.status),
	)
	a.builder = NewContextBuilder(a.index,
		WithContextTopK(a.topK),
		WithContextLogger(a.logger),
	)
	return a
}

// HandleUpload runs one ingestion attempt and returns the notice to show
// in the chat. Stage failures come back as notices with a nil error;
// only extraction problems surface as errors.
func (a *App) HandleUpload(ctx context.Context, session *SessionState, content []byte, filename string) (string, error) {
	res, err := a.ingestor.Ingest(ctx, session, content, filename)
	if err != nil {
		return "", err
	}
	switch {
	case res.Skipped:
		return fmt.Sprintf("'%s' 파일은 이미 학습된 문서입니다.", filename), nil
	case res.State == StateClearFailed:
		return noticeClearFailed, nil
	case res.State == StateUploadFailed:
		return noticeUploadFailed, nil
	}
	return fmt.Sprintf("✅ '%s' 파일의 내용을 성공적으로 학습했습니다! 이제 문서 내용에 대해 질문해 보세요.", filename), nil
}

// HandleQuery answers one user turn. The raw query is normalized and
// appended to the transcript first, so a failed generation still leaves
// the question on record. Grounded mode retrieves context before
// composing; ungrounded mode sends the query alone. A generation failure
// is returned as an error and leaves session state untouched.
func (a *App) HandleQuery(ctx context.Context, session *SessionState, query string) (string, error) {
	query = NormalizeInput(query)

	a.appendHistory(ctx, session.SessionID, UserMessage(query))

	var searchContext string
	if session.RAGEnabled {
		searchContext = a.builder.BuildContext(ctx, query)
	}
	req := a.composer.Compose(query, searchContext, session.RAGEnabled)

	start := time.Now()
	resp, err := a.provider.Chat(ctx, req)
	if err != nil {
		a.logger.Error("chat: generation failed", "provider", a.provider.Name(), "error", err)
		return "", err
	}
	a.logger.Debug("chat: generation ok",
		"provider", a.provider.Name(),
		"grounded", session.RAGEnabled,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"duration", time.Since(start))

	a.appendHistory(ctx, session.SessionID, AssistantMessage(resp.Content))
	return resp.Content, nil
}

// History returns the most recent transcript messages, oldest first.
// Without a configured store it returns nil.
func (a *App) History(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	if a.history == nil {
		return nil, nil
	}
	return a.history.Messages(ctx, sessionID, limit)
}

func (a *App) appendHistory(ctx context.Context, sessionID string, msg ChatMessage) {
	if a.history == nil {
		return
	}
	err := a.history.AppendMessage(ctx, Message{
		ID:        NewID(),
		SessionID: sessionID,
		Role:      msg.Role,
		Content:   msg.Content,
		CreatedAt: NowUnix(),
	})
	if err != nil {
		a.logger.Error("history: append failed", "session_id", sessionID, "error", err)
	}
}
