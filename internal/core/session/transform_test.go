package session

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/secureai/docshield-console/internal/core/domain"
	"github.com/secureai/docshield-console/internal/core/ports"
	"github.com/secureai/docshield-console/internal/core/state"
)

type gatewayFake struct {
	uploadID    string
	uploadErr   error
	uploadCalls int
	uploadName  string
	uploadBody  string

	result     domain.TransformResult
	resultErr  error
	resultID   string
	askAnswer  domain.Answer
	askErr     error
	askDocID   string
	askCalls   int
	uploadGate chan struct{}
}

func (f *gatewayFake) Upload(_ context.Context, filename string, body io.Reader) (string, error) {
	f.uploadCalls++
	f.uploadName = filename
	raw, _ := io.ReadAll(body)
	f.uploadBody = string(raw)
	if f.uploadGate != nil {
		<-f.uploadGate
	}
	return f.uploadID, f.uploadErr
}

func (f *gatewayFake) FetchResult(_ context.Context, id string) (domain.TransformResult, error) {
	f.resultID = id
	return f.result, f.resultErr
}

func (f *gatewayFake) Ask(_ context.Context, docID, _ string) (domain.Answer, error) {
	f.askCalls++
	f.askDocID = docID
	return f.askAnswer, f.askErr
}

func (f *gatewayFake) ExampleData(context.Context, domain.CategoryKey) (map[string][]domain.ExampleSentence, error) {
	return nil, nil
}

func (f *gatewayFake) DocumentsByType(context.Context, domain.CategoryKey) ([]domain.DocumentDescriptor, error) {
	return nil, nil
}

type statusFake struct {
	messages []string
}

func (f *statusFake) Status(message string) { f.messages = append(f.messages, message) }

func TestTransformPastedTextCommit(t *testing.T) {
	gw := &gatewayFake{
		uploadID: "abc-1",
		result: domain.TransformResult{
			Kind:         domain.ResultStructured,
			DocumentType: "unknown_x",
			Markdown:     "Category: unknown_x\nHello masked text",
		},
	}
	ws := state.NewWorkspace()
	sess := NewTransformSession(gw, ws, &statusFake{})

	doc, err := sess.Transform(context.Background(), ports.TransformInput{Text: "hello world"})
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if gw.uploadName != "pasted.txt" {
		t.Fatalf("pasted text must be wrapped as pasted.txt, got %q", gw.uploadName)
	}
	if gw.uploadBody != "hello world" {
		t.Fatalf("upload body = %q", gw.uploadBody)
	}
	if gw.resultID != "abc-1" {
		t.Fatalf("result fetched for %q, want abc-1", gw.resultID)
	}

	if doc.ID != "abc-1" {
		t.Fatalf("committed id = %q", doc.ID)
	}
	// unknown_x is outside the fixed set: normalization must fall back.
	if len(doc.Categories) != 1 || doc.Categories[0] != domain.DefaultCategory {
		t.Fatalf("categories = %v, want [%s]", doc.Categories, domain.DefaultCategory)
	}
	if doc.Preview != "Hello masked text" {
		t.Fatalf("Category: header must be stripped, preview = %q", doc.Preview)
	}

	snap := ws.Snapshot()
	if !snap.Selected["abc-1"] || len(snap.Selected) != 1 {
		t.Fatalf("selection = %v, want exactly abc-1", snap.Selected)
	}
	if sess.State() != domain.StateCommitted {
		t.Fatalf("state = %s, want committed", sess.State())
	}
}

func TestTransformBothEmptyRejectedLocally(t *testing.T) {
	gw := &gatewayFake{}
	status := &statusFake{}
	sess := NewTransformSession(gw, state.NewWorkspace(), status)

	_, err := sess.Transform(context.Background(), ports.TransformInput{Text: "   "})
	if !domain.IsKind(err, domain.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if gw.uploadCalls != 0 {
		t.Fatalf("empty input must not reach the network")
	}
	if sess.State() != domain.StateIdle {
		t.Fatalf("local rejection must not change state, got %s", sess.State())
	}
	if len(status.messages) == 0 {
		t.Fatalf("expected a user-visible status message")
	}
}

func TestTransformUploadFailureLeavesStoreUntouched(t *testing.T) {
	gw := &gatewayFake{uploadErr: errors.New("boom")}
	ws := state.NewWorkspace()
	sess := NewTransformSession(gw, ws, &statusFake{})

	_, err := sess.Transform(context.Background(), ports.TransformInput{Text: "content"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if sess.State() != domain.StateFailed {
		t.Fatalf("state = %s, want failed", sess.State())
	}
	snap := ws.Snapshot()
	if len(snap.Documents) != 0 || len(snap.Selected) != 0 {
		t.Fatalf("failed transform must not mutate the workspace")
	}
}

func TestTransformResultFailureNoPartialCommit(t *testing.T) {
	gw := &gatewayFake{uploadID: "abc-2", resultErr: errors.New("result 실패: 500")}
	ws := state.NewWorkspace()
	sess := NewTransformSession(gw, ws, &statusFake{})

	_, err := sess.Transform(context.Background(), ports.TransformInput{Text: "content"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(ws.Snapshot().Documents) != 0 {
		t.Fatalf("commit is all-or-nothing; store must stay empty")
	}
	if sess.Status() == "" {
		t.Fatalf("failure reason must be reported")
	}
}

func TestTransformFreeformWithoutHeaderUsesDefault(t *testing.T) {
	gw := &gatewayFake{
		uploadID: "abc-3",
		result: domain.TransformResult{
			Kind:     domain.ResultFreeform,
			Markdown: "plain body with no header",
		},
	}
	ws := state.NewWorkspace()
	sess := NewTransformSession(gw, ws, &statusFake{})

	doc, err := sess.Transform(context.Background(), ports.TransformInput{Text: "content"})
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if doc.Categories[0] != domain.DefaultCategory {
		t.Fatalf("missing header must keep the default category, got %v", doc.Categories)
	}
	if doc.Preview != "plain body with no header" {
		t.Fatalf("full payload must become the body, got %q", doc.Preview)
	}
}

func TestTransformSingleFlightGuard(t *testing.T) {
	gate := make(chan struct{})
	gw := &gatewayFake{uploadID: "abc-4", uploadGate: gate, result: domain.TransformResult{Markdown: "x"}}
	ws := state.NewWorkspace()
	sess := NewTransformSession(gw, ws, &statusFake{})

	done := make(chan error, 1)
	go func() {
		_, err := sess.Transform(context.Background(), ports.TransformInput{Text: "first"})
		done <- err
	}()

	// Wait until the first flow is parked inside Upload.
	for sess.State() != domain.StateUploading {
		time.Sleep(time.Millisecond)
	}

	_, err := sess.Transform(context.Background(), ports.TransformInput{Text: "second"})
	if !domain.IsKind(err, domain.ErrSessionBusy) {
		t.Fatalf("expected ErrSessionBusy, got %v", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("first transform failed: %v", err)
	}
}

func TestNormalizeMarkdownEscapedNewlines(t *testing.T) {
	got := normalizeMarkdown(`Category: HR_INFO\nline one\nline two`)
	if got != "line one\nline two" {
		t.Fatalf("normalizeMarkdown = %q", got)
	}
}

func TestFileUploadPassthrough(t *testing.T) {
	gw := &gatewayFake{uploadID: "abc-5", result: domain.TransformResult{DocumentType: "HR_INFO", Markdown: "body"}}
	ws := state.NewWorkspace()
	sess := NewTransformSession(gw, ws, &statusFake{})

	doc, err := sess.Transform(context.Background(), ports.TransformInput{
		FileName: "resume.docx",
		FileData: []byte{0x50, 0x4b},
	})
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if gw.uploadName != "resume.docx" {
		t.Fatalf("file uploads must pass the original name, got %q", gw.uploadName)
	}
	if doc.Title != "resume.docx" || doc.Categories[0] != domain.CategoryHRInfo {
		t.Fatalf("unexpected doc: %+v", doc)
	}
}
