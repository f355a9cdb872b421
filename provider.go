package docchat

import "context"

// Provider is the opaque text-generation capability. The call is
// synchronous and unary: the caller suspends until the full response is
// returned. No retries, no streaming, no cancellation once issued beyond
// what the context carries.
type Provider interface {
	Name() string
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// SearchIndex wraps the remote search/indexing service.
//
// ClearAll and Upload convert every transport failure to a boolean at the
// call site; they never return errors. Search returns an error as its
// failure sentinel so callers can distinguish "the call failed" from
// "zero results".
//
// ClearAll is idempotent: on an already-empty index it is a no-op success
// and issues no delete request. Upload is NOT idempotent: each call
// generates fresh record keys, so uploading the same chunks twice produces
// two independent record sets.
type SearchIndex interface {
	// ClearAll deletes every record in the index in one bulk request.
	// Returns true if the index was already empty or deletion succeeded.
	ClearAll(ctx context.Context) bool
	// Upload submits one bulk upload for the entire batch, one record per
	// chunk, each with a freshly generated key. All-or-nothing: a partial
	// server-side failure reports the whole batch as failed.
	Upload(ctx context.Context, chunks []string) bool
	// Search queries the content field only and returns the top-K matching
	// records in the store's relevance order.
	Search(ctx context.Context, query string, topK int) ([]Record, error)
}

// HistoryStore persists the chat transcript for a session.
type HistoryStore interface {
	Init(ctx context.Context) error
	AppendMessage(ctx context.Context, msg Message) error
	// Messages returns the most recent messages for a session in
	// chronological order (oldest first).
	Messages(ctx context.Context, sessionID string, limit int) ([]Message, error)
	Close() error
}
