package mcpadapter

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/secureai/docshield-console/internal/core/domain"
	"github.com/secureai/docshield-console/internal/core/session"
	"github.com/secureai/docshield-console/internal/core/state"
	"github.com/secureai/docshield-console/internal/view"
)

type gatewayFake struct {
	uploadID string
	result   domain.TransformResult
	answer   domain.Answer
}

func (g *gatewayFake) Upload(_ context.Context, _ string, body io.Reader) (string, error) {
	_, _ = io.ReadAll(body)
	return g.uploadID, nil
}

func (g *gatewayFake) FetchResult(context.Context, string) (domain.TransformResult, error) {
	return g.result, nil
}

func (g *gatewayFake) Ask(context.Context, string, string) (domain.Answer, error) {
	return g.answer, nil
}

func (g *gatewayFake) ExampleData(context.Context, domain.CategoryKey) (map[string][]domain.ExampleSentence, error) {
	return nil, nil
}

func (g *gatewayFake) DocumentsByType(context.Context, domain.CategoryKey) ([]domain.DocumentDescriptor, error) {
	return nil, nil
}

func newTestServer(gateway *gatewayFake) (*Server, *state.Workspace) {
	ws := state.NewWorkspace()
	categoryView := view.NewCategoryView(ws, time.Second)
	transformer := session.NewTransformSession(gateway, ws, nil)
	asker := session.NewAskSession(gateway, ws, nil)
	return NewServer("docshield-console", "test", transformer, asker, ws, categoryView), ws
}

func callTool(t *testing.T, s *Server, name string, args map[string]any) string {
	t.Helper()
	request := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]any{
			"name":      name,
			"arguments": args,
		},
	}
	raw, err := json.Marshal(request)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	response := s.mcpServer.HandleMessage(context.Background(), raw)
	encoded, err := json.Marshal(response)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return string(encoded)
}

func TestTransformToolCommitsDocument(t *testing.T) {
	gateway := &gatewayFake{
		uploadID: "doc-1",
		result:   domain.TransformResult{Kind: domain.ResultStructured, DocumentType: "HR_INFO", Markdown: "마스킹된 본문"},
	}
	s, ws := newTestServer(gateway)

	out := callTool(t, s, "docshield_transform", map[string]any{"text": "원본"})
	if !strings.Contains(out, "doc-1") {
		t.Fatalf("tool output missing document id: %s", out)
	}
	if _, ok := ws.Document("doc-1"); !ok {
		t.Fatalf("transform tool must commit into the workspace")
	}
}

func TestAskToolSelectsRequestedDocument(t *testing.T) {
	gateway := &gatewayFake{answer: domain.Answer{Markdown: "답변"}}
	s, ws := newTestServer(gateway)
	ws.UpsertDocument("d1", "a.txt", []string{"HR_INFO"}, "p")

	out := callTool(t, s, "docshield_ask", map[string]any{"question": "질문", "document_id": "d1"})
	if !strings.Contains(out, "답변") {
		t.Fatalf("tool output missing answer: %s", out)
	}
	if !ws.HasSelected("d1") {
		t.Fatalf("ask tool must select the requested document")
	}
}

func TestWorkspaceToolListsSections(t *testing.T) {
	s, ws := newTestServer(&gatewayFake{})
	ws.CommitTransform("d1", "보고서.txt", domain.CategoryTechInfo, "본문")

	out := callTool(t, s, "docshield_workspace", nil)
	if !strings.Contains(out, "보고서.txt") {
		t.Fatalf("workspace tool output missing document: %s", out)
	}
}
