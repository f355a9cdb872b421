package docchat

import (
	"strings"
	"testing"
)

func TestComposeUngroundedSendsRawQuery(t *testing.T) {
	c := NewComposer()
	req := c.Compose("what is this?", "ignored context", false)
	if len(req.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != "user" || req.Messages[0].Content != "what is this?" {
		t.Errorf("got %+v", req.Messages[0])
	}
}

func TestComposeGroundedFillsBothSlots(t *testing.T) {
	c := NewComposer()
	req := c.Compose("질문입니다", "문서 내용", true)
	prompt := req.Messages[0].Content
	if !strings.Contains(prompt, "문서 내용") {
		t.Error("context slot not filled")
	}
	if !strings.Contains(prompt, "질문입니다") {
		t.Error("input slot not filled")
	}
	if strings.Contains(prompt, "{{$context}}") || strings.Contains(prompt, "{{$input}}") {
		t.Error("template slots left in prompt")
	}
}

func TestComposeGroundedKeepsFallbackInstruction(t *testing.T) {
	c := NewComposer()
	req := c.Compose("q", "ctx", true)
	if !strings.Contains(req.Messages[0].Content, "정보를 찾을 수 없습니다.") {
		t.Error("fallback instruction missing from prompt")
	}
}

func TestComposeCustomTemplate(t *testing.T) {
	c := NewComposer(WithTemplate("CTX={{$context}} Q={{$input}}"))
	req := c.Compose("ask", "know", true)
	if req.Messages[0].Content != "CTX=know Q=ask" {
		t.Errorf("got %q", req.Messages[0].Content)
	}
}
