package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/secureai/docshield-console/internal/core/domain"
	"github.com/secureai/docshield-console/internal/core/ports"
	"github.com/secureai/docshield-console/internal/core/state"
)

// pastedFileName wraps freeform text as a synthetic file so the upload
// contract has exactly one shape regardless of input origin.
const pastedFileName = "pasted.txt"

// categoryHeaderRe matches the degraded "Category: <TOKEN>" header line that
// some result payloads carry before the content.
var categoryHeaderRe = regexp.MustCompile(`(?im)^Category:\s*\w+\s*`)

// TransformSession drives one upload → result → classify → commit flow.
// It mutates the workspace only at the final commit edge: any failure before
// that leaves store and selection untouched.
type TransformSession struct {
	gateway   ports.BackendGateway
	workspace *state.Workspace
	status    ports.StatusSink

	mu        sync.Mutex
	stateName domain.SessionState
	lastError string
}

func NewTransformSession(gateway ports.BackendGateway, workspace *state.Workspace, status ports.StatusSink) *TransformSession {
	return &TransformSession{
		gateway:   gateway,
		workspace: workspace,
		status:    status,
		stateName: domain.StateIdle,
	}
}

// State returns the current machine state.
func (s *TransformSession) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateName
}

// Status returns the last failure reason, empty when none.
func (s *TransformSession) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Transform runs the full state machine for one input. Only one flow may be
// in flight per session: a begin while a previous flow is in a non-terminal
// state is rejected with ErrSessionBusy.
func (s *TransformSession) Transform(ctx context.Context, in ports.TransformInput) (domain.Document, error) {
	if in.Empty() {
		// Local validation failure: surfaced as status text, no network
		// call, no state transition.
		s.report("입력된 문서가 없습니다.")
		return domain.Document{}, domain.ErrEmptyInput
	}

	if err := s.begin(); err != nil {
		return domain.Document{}, err
	}

	filename, body := uploadPayload(in)
	s.report("업로드/마스킹 중…")

	id, err := s.gateway.Upload(ctx, filename, body)
	if err != nil {
		return domain.Document{}, s.fail(fmt.Errorf("upload: %w", err))
	}
	if id == "" {
		return domain.Document{}, s.fail(errors.New("upload: server returned empty document id"))
	}

	s.setState(domain.StateAwaitingResult)
	result, err := s.gateway.FetchResult(ctx, id)
	if err != nil {
		return domain.Document{}, s.fail(fmt.Errorf("fetch result: %w", err))
	}

	s.setState(domain.StateClassifying)
	category := domain.NormalizeCategory(result.DocumentType)
	markdown := normalizeMarkdown(result.Markdown)

	doc, ok := s.workspace.CommitTransform(id, filename, category, markdown)
	if !ok {
		return domain.Document{}, s.fail(errors.New("commit: document id rejected by store"))
	}

	s.setState(domain.StateCommitted)
	s.report(fmt.Sprintf("변환 완료 (카테고리: %s)", domain.CategoryLabel(category)))
	return doc, nil
}

func (s *TransformSession) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stateName.Terminal() {
		return domain.ErrSessionBusy
	}
	s.stateName = domain.StateUploading
	s.lastError = ""
	return nil
}

func (s *TransformSession) setState(next domain.SessionState) {
	s.mu.Lock()
	s.stateName = next
	s.mu.Unlock()
}

// fail moves the machine to Failed and reports the reason. The workspace is
// never touched on this path: commits are all-or-nothing.
func (s *TransformSession) fail(err error) error {
	s.mu.Lock()
	s.stateName = domain.StateFailed
	s.lastError = err.Error()
	s.mu.Unlock()
	s.report("변환 실패: " + err.Error())
	return domain.WrapError(domain.ErrTemporary, "transform", err)
}

func (s *TransformSession) report(message string) {
	if s.status != nil {
		s.status.Status(message)
	}
}

func uploadPayload(in ports.TransformInput) (string, *bytes.Reader) {
	if len(in.FileData) > 0 {
		name := in.FileName
		if name == "" {
			name = "document.bin"
		}
		return name, bytes.NewReader(in.FileData)
	}
	return pastedFileName, bytes.NewReader([]byte(strings.TrimSpace(in.Text)))
}

// normalizeMarkdown restores escaped newlines and strips the first
// "Category:" header line so the displayed body never repeats the
// classification.
func normalizeMarkdown(markdown string) string {
	md := strings.ReplaceAll(markdown, `\n`, "\n")
	if loc := categoryHeaderRe.FindStringIndex(md); loc != nil {
		md = md[:loc[0]] + md[loc[1]:]
	}
	return strings.TrimSpace(md)
}
