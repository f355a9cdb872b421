package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	docchat "github.com/nevindra/docchat"
)

type stubProvider struct{ answer string }

func (s *stubProvider) Name() string { return "stub" }
func (s *stubProvider) Chat(context.Context, docchat.ChatRequest) (docchat.ChatResponse, error) {
	return docchat.ChatResponse{Content: s.answer}, nil
}

type stubIndex struct{}

func (stubIndex) ClearAll(context.Context) bool         { return true }
func (stubIndex) Upload(context.Context, []string) bool { return true }
func (stubIndex) Search(context.Context, string, int) ([]docchat.Record, error) {
	return nil, nil
}

type stubSplitter struct{}

func (stubSplitter) ExtractAndSplit([]byte, string) ([]string, error) { return nil, nil }

func newTestFrontend(input string) (*Frontend, *bytes.Buffer) {
	app := docchat.New(
		docchat.WithProvider(&stubProvider{answer: "고 언어에 대한 답변입니다."}),
		docchat.WithIndex(stubIndex{}),
		docchat.WithSplitter(stubSplitter{}),
	)
	f := New(app)
	out := &bytes.Buffer{}
	f.in = strings.NewReader(input)
	f.out = out
	return f, out
}

func TestRunGreetsAndAnswers(t *testing.T) {
	f, out := newTestFrontend("go란 무엇인가요?\n/quit\n")
	if err := f.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, docchat.Greeting) {
		t.Error("greeting not printed")
	}
	if !strings.Contains(got, "고 언어에 대한 답변입니다.") {
		t.Errorf("answer not printed: %q", got)
	}
}

func TestRunStopsAtEOF(t *testing.T) {
	f, _ := newTestFrontend("")
	if err := f.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestUploadMissingFile(t *testing.T) {
	f, out := newTestFrontend("/upload /does/not/exist.pdf\n/quit\n")
	if err := f.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "파일을 읽을 수 없습니다") {
		t.Errorf("missing-file message not printed: %q", out.String())
	}
}
