// Package cli is a terminal REPL frontend: chat turns are typed on stdin
// and documents are ingested with the /upload command.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	docchat "github.com/nevindra/docchat"
)

// statusLines maps ingestion stages to the progress lines shown to the user.
var statusLines = map[docchat.IngestState]string{
	docchat.StateClearing:   "기존 인덱스 데이터를 삭제하는 중...",
	docchat.StateExtracting: "문서에서 텍스트를 추출하는 중...",
	docchat.StateUploading:  "AI Search에 문서를 업로드하는 중...",
	docchat.StateReady:      "문서 준비 완료!",
}

// Frontend runs the REPL over an App.
type Frontend struct {
	app     *docchat.App
	session *docchat.SessionState
	in      io.Reader
	out     io.Writer
}

// New creates a Frontend over stdin/stdout.
func New(app *docchat.App) *Frontend {
	return &Frontend{
		app:     app,
		session: docchat.NewSessionState(),
		in:      os.Stdin,
		out:     os.Stdout,
	}
}

// PrintStatus prints the ingestion progress line for a stage to stdout.
// Pass it to docchat.WithStatus when building the App.
func PrintStatus(state docchat.IngestState) {
	if line, ok := statusLines[state]; ok {
		fmt.Println(line)
	}
}

// Run reads turns from stdin until EOF or /quit. Lines starting with
// "/upload " ingest the named file; everything else is a chat query.
func (f *Frontend) Run(ctx context.Context) error {
	fmt.Fprintln(f.out, docchat.Greeting)

	scanner := bufio.NewScanner(f.in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	fmt.Fprint(f.out, "> ")

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line == "/quit" || line == "/exit":
			return nil
		case strings.HasPrefix(line, "/upload "):
			f.upload(ctx, strings.TrimSpace(strings.TrimPrefix(line, "/upload ")))
		default:
			f.query(ctx, line)
		}
		fmt.Fprint(f.out, "> ")
	}
	return scanner.Err()
}

func (f *Frontend) upload(ctx context.Context, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(f.out, "파일을 읽을 수 없습니다: %v\n", err)
		return
	}

	notice, err := f.app.HandleUpload(ctx, f.session, content, filepath.Base(path))
	if err != nil {
		fmt.Fprintf(f.out, "문서 처리 중 오류가 발생했습니다: %v\n", err)
		return
	}
	fmt.Fprintln(f.out, notice)
}

func (f *Frontend) query(ctx context.Context, q string) {
	answer, err := f.app.HandleQuery(ctx, f.session, q)
	if err != nil {
		fmt.Fprintf(f.out, "답변 생성 중 오류가 발생했습니다: %v\n", err)
		return
	}
	fmt.Fprintln(f.out, answer)
}
