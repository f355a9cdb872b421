package ingest

import (
	"iter"
	"strings"
)

// Chunker splits extracted text into upload-ready chunks.
type Chunker interface {
	Chunk(text string) []string
}

// ChunkerOption configures a chunker implementation.
type ChunkerOption func(*chunkerConfig)

type chunkerConfig struct {
	maxUnits int
}

func defaultChunkerConfig() chunkerConfig {
	return chunkerConfig{maxUnits: 1000}
}

// WithMaxUnits sets the chunk size limit, measured in runes. Default 1000.
func WithMaxUnits(n int) ChunkerOption {
	return func(c *chunkerConfig) { c.maxUnits = n }
}

// LineChunker splits text on newlines and packs whole lines into chunks
// of at most maxUnits runes. Lines are never cut: a single line longer
// than the limit becomes its own oversized chunk. Joining the chunks back
// with "\n" reproduces the input exactly, so nothing is lost or reordered.
type LineChunker struct {
	maxUnits int
}

// Compile-time interface check.
var _ Chunker = (*LineChunker)(nil)

// NewLineChunker creates a LineChunker with the given options.
func NewLineChunker(opts ...ChunkerOption) *LineChunker {
	cfg := defaultChunkerConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &LineChunker{maxUnits: cfg.maxUnits}
}

// Chunk collects Chunks into a slice. Empty text yields nil.
func (lc *LineChunker) Chunk(text string) []string {
	var chunks []string
	for c := range lc.Chunks(text) {
		chunks = append(chunks, c)
	}
	return chunks
}

// Chunks returns a lazy sequence of chunks. The sequence is finite and
// can be ranged over more than once. Empty text yields no chunks.
func (lc *LineChunker) Chunks(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if text == "" {
			return
		}

		var cur strings.Builder
		curUnits := 0
		started := false

		flush := func() bool {
			ok := yield(cur.String())
			cur.Reset()
			curUnits = 0
			started = false
			return ok
		}

		for line := range strings.SplitSeq(text, "\n") {
			units := len([]rune(line))

			// +1 for the newline that joins the line to the current chunk.
			if started && curUnits+1+units > lc.maxUnits {
				if !flush() {
					return
				}
			}

			if started {
				cur.WriteByte('\n')
				curUnits++
			}
			cur.WriteString(line)
			curUnits += units
			started = true

			if curUnits >= lc.maxUnits {
				if !flush() {
					return
				}
			}
		}

		if started {
			yield(cur.String())
		}
	}
}
