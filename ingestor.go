package docchat

import (
	"context"
	"log/slog"
	"time"
)

// IngestState is the stage an ingestion attempt is in. Every attempt
// starts at StateClearing and either runs the stages in order to
// StateReady or exits at the failed state of the stage that broke.
type IngestState string

const (
	StateIdle         IngestState = "idle"
	StateClearing     IngestState = "clearing"
	StateExtracting   IngestState = "extracting"
	StateUploading    IngestState = "uploading"
	StateReady        IngestState = "ready"
	StateClearFailed  IngestState = "clear_failed"
	StateUploadFailed IngestState = "upload_failed"
)

// IngestResult reports where an ingestion attempt ended.
type IngestResult struct {
	// State is the terminal state of the attempt.
	State IngestState
	// Skipped is true when the document name matched the session's current
	// document and the whole attempt was a no-op.
	Skipped bool
	// Chunks is the number of records uploaded. Zero for skipped or failed
	// attempts, and for documents whose content split into nothing.
	Chunks int
}

// DocumentSplitter extracts text from raw document bytes and splits it
// into upload-ready chunks.
type DocumentSplitter interface {
	ExtractAndSplit(content []byte, filename string) ([]string, error)
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithIngestLogger sets a structured logger for ingestion diagnostics.
func WithIngestLogger(l *slog.Logger) IngestorOption {
	return func(ing *Ingestor) { ing.logger = l }
}

// WithStatusFunc registers a callback invoked as the attempt enters each
// stage, so a frontend can surface progress. The callback runs on the
// ingesting goroutine.
func WithStatusFunc(fn func(IngestState)) IngestorOption {
	return func(ing *Ingestor) { ing.status = fn }
}

// Ingestor drives the document pipeline: clear the index, extract and
// split the document, upload the chunks, then flip the session to
// grounded mode. One document at a time; the index holds exactly one
// document's records.
type Ingestor struct {
	index    SearchIndex
	splitter DocumentSplitter
	status   func(IngestState)
	logger   *slog.Logger
}

// NewIngestor creates an Ingestor over the given index and splitter.
func NewIngestor(index SearchIndex, splitter DocumentSplitter, opts ...IngestorOption) *Ingestor {
	ing := &Ingestor{
		index:    index,
		splitter: splitter,
		status:   func(IngestState) {},
		logger:   nopLogger,
	}
	for _, o := range opts {
		o(ing)
	}
	return ing
}

// Ingest runs one ingestion attempt for the named document.
//
// If filename matches the session's current document the attempt is
// skipped entirely: no clear, no extraction, no upload, session unchanged.
// Change detection is by name only.
//
// Stage order is fixed: clear, extract, upload. A clear failure ends the
// attempt at StateClearFailed with the old records possibly still present.
// An extraction error is returned to the caller after the index was
// already cleared. An upload failure ends at StateUploadFailed and leaves
// the session's grounding mode and document name untouched, even though
// the index no longer holds the previous document's records.
//
// Only StateReady mutates the session: grounding on, document recorded.
func (ing *Ingestor) Ingest(ctx context.Context, session *SessionState, content []byte, filename string) (IngestResult, error) {
	if filename == session.LastDocument {
		ing.logger.Debug("ingest: document unchanged, skipping", "filename", filename)
		return IngestResult{State: StateReady, Skipped: true}, nil
	}

	start := time.Now()

	ing.status(StateClearing)
	if !ing.index.ClearAll(ctx) {
		ing.logger.Error("ingest: index clear failed", "filename", filename)
		return IngestResult{State: StateClearFailed}, nil
	}

	ing.status(StateExtracting)
	chunks, err := ing.splitter.ExtractAndSplit(content, filename)
	if err != nil {
		ing.logger.Error("ingest: extraction failed", "filename", filename, "error", err)
		return IngestResult{State: StateExtracting}, err
	}
	if len(chunks) > 0 {
		ing.logger.Debug("ingest: document split", "filename", filename, "chunks", len(chunks), "first_chunk", preview(chunks[0]))
	} else {
		ing.logger.Debug("ingest: document split into zero chunks", "filename", filename)
	}

	ing.status(StateUploading)
	if !ing.index.Upload(ctx, chunks) {
		ing.logger.Error("ingest: upload failed", "filename", filename, "chunks", len(chunks))
		return IngestResult{State: StateUploadFailed}, nil
	}

	ing.status(StateReady)
	session.RAGEnabled = true
	session.LastDocument = filename

	ing.logger.Debug("ingest: document ready", "filename", filename, "chunks", len(chunks), "duration", time.Since(start))
	return IngestResult{State: StateReady, Chunks: len(chunks)}, nil
}

// preview truncates chunk content for debug logs.
func preview(s string) string {
	const max = 80
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
