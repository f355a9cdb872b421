package azureopenai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	docchat "github.com/nevindra/docchat"
)

func TestChatSendsDeploymentURLAndHeaders(t *testing.T) {
	var gotPath, gotKey string
	var gotBody chatBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotKey = r.Header.Get("api-key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "hi"}}},
			"usage":   map[string]any{"prompt_tokens": 7, "completion_tokens": 3},
		})
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, "gpt-4o", "key123",
		WithAPIVersion("2024-06-01"), WithTemperature(0.2))
	resp, err := p.Chat(context.Background(), docchat.ChatRequest{
		Messages: []docchat.ChatMessage{docchat.UserMessage("hello")},
	})
	if err != nil {
		t.Fatal(err)
	}

	if gotPath != "/openai/deployments/gpt-4o/chat/completions?api-version=2024-06-01" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "key123" {
		t.Errorf("api-key = %q", gotKey)
	}
	if gotBody.Temperature != 0.2 {
		t.Errorf("temperature = %v", gotBody.Temperature)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Content != "hello" {
		t.Errorf("messages = %+v", gotBody.Messages)
	}
	if resp.Content != "hi" {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Usage.InputTokens != 7 || resp.Usage.OutputTokens != 3 {
		t.Errorf("usage = %+v", resp.Usage)
	}
}

func TestChatHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, "gpt-4o", "k")
	_, err := p.Chat(context.Background(), docchat.ChatRequest{})
	var httpErr *docchat.ErrHTTP
	if !errors.As(err, &httpErr) || httpErr.Status != http.StatusTooManyRequests {
		t.Errorf("expected ErrHTTP 429, got %v", err)
	}
}

func TestChatNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, "gpt-4o", "k")
	_, err := p.Chat(context.Background(), docchat.ChatRequest{})
	var llmErr *docchat.ErrLLM
	if !errors.As(err, &llmErr) {
		t.Errorf("expected ErrLLM, got %v", err)
	}
}

func TestDefaultTemperature(t *testing.T) {
	var gotBody chatBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "x"}}},
		})
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, "d", "k")
	if _, err := p.Chat(context.Background(), docchat.ChatRequest{}); err != nil {
		t.Fatal(err)
	}
	if gotBody.Temperature != 0.5 {
		t.Errorf("default temperature = %v, want 0.5", gotBody.Temperature)
	}
}
