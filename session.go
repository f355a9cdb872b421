package docchat

// SessionState is the explicit session-context value object threaded
// through every handler: whether answers are grounded on the index, and
// which document the index currently holds. Handlers receive it and
// mutate it; the caller owns it.
//
// Concurrent use is unsupported: the design processes one ingestion or
// one query at a time, to completion, per session.
type SessionState struct {
	// SessionID identifies the transcript in the history store.
	SessionID string
	// RAGEnabled selects grounded answer mode. It flips to true only when
	// an ingestion attempt reaches the ready state.
	RAGEnabled bool
	// LastDocument is the name of the most recently successfully ingested
	// document. Change detection compares this name only, not content:
	// two different files with the same name are treated as unchanged.
	LastDocument string
}

// NewSessionState returns the defined initial session state: a fresh
// session ID, grounding disabled, no ingested document.
func NewSessionState() *SessionState {
	return &SessionState{SessionID: NewID()}
}
