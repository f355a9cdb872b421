package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	docchat "github.com/nevindra/docchat"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "test.db"))
	if err := s.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndReadMessages(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, content := range []string{"first", "second", "third"} {
		msg := docchat.Message{
			ID:        docchat.NewID(),
			SessionID: "s1",
			Role:      "user",
			Content:   content,
			CreatedAt: int64(100 + i),
		}
		if err := s.AppendMessage(ctx, msg); err != nil {
			t.Fatal(err)
		}
	}

	msgs, err := s.Messages(ctx, "s1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	// Chronological, oldest first.
	if msgs[0].Content != "first" || msgs[2].Content != "third" {
		t.Errorf("order wrong: %+v", msgs)
	}
}

func TestMessagesLimitKeepsMostRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := range 5 {
		s.AppendMessage(ctx, docchat.Message{
			ID:        docchat.NewID(),
			SessionID: "s1",
			Role:      "user",
			Content:   string(rune('a' + i)),
			CreatedAt: int64(i),
		})
	}

	msgs, err := s.Messages(ctx, "s1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Content != "d" || msgs[1].Content != "e" {
		t.Errorf("expected the 2 newest in order, got %+v", msgs)
	}
}

func TestMessagesSessionIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.AppendMessage(ctx, docchat.Message{ID: docchat.NewID(), SessionID: "a", Role: "user", Content: "mine", CreatedAt: 1})
	s.AppendMessage(ctx, docchat.Message{ID: docchat.NewID(), SessionID: "b", Role: "user", Content: "theirs", CreatedAt: 2})

	msgs, err := s.Messages(ctx, "a", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || msgs[0].Content != "mine" {
		t.Errorf("got %+v", msgs)
	}
}

func TestMessagesEmptySession(t *testing.T) {
	s := newTestStore(t)
	msgs, err := s.Messages(context.Background(), "nobody", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 0 {
		t.Errorf("expected no messages, got %d", len(msgs))
	}
}
