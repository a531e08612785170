package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/secureai/docshield-console/internal/core/domain"
	"github.com/secureai/docshield-console/internal/core/ports"
	"github.com/secureai/docshield-console/internal/core/state"
)

// AskSession orchestrates selection-based questions and owns the ordered
// transcript. The question entry is appended synchronously before the
// backend call resolves; the answer or error entry follows once it settles.
type AskSession struct {
	gateway   ports.BackendGateway
	workspace *state.Workspace
	status    ports.StatusSink
	now       func() time.Time

	mu         sync.Mutex
	transcript []domain.TranscriptEntry
}

func NewAskSession(gateway ports.BackendGateway, workspace *state.Workspace, status ports.StatusSink) *AskSession {
	return &AskSession{
		gateway:   gateway,
		workspace: workspace,
		status:    status,
		now:       time.Now,
	}
}

// Ask runs one question against the current selection. Local validation
// failures (empty question, empty selection) are rejected before any network
// call and leave the transcript untouched. The returned entry is the final
// appended transcript item: the answer on success, the error entry on a
// backend failure.
func (s *AskSession) Ask(ctx context.Context, question string) (domain.TranscriptEntry, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		s.report("질문을 입력하세요.")
		return domain.TranscriptEntry{}, domain.ErrEmptyQuestion
	}

	selected := s.workspace.SelectedIDs()
	if len(selected) == 0 {
		s.report("먼저 문서를 선택하세요.")
		return domain.TranscriptEntry{}, domain.ErrNoSelection
	}

	// Phase 1: optimistic append of the user's question.
	s.append(domain.RoleUser, q, nil)

	// The backend accepts a single document; only the first selected id is
	// transmitted. Known contract limitation, preserved deliberately.
	answer, err := s.gateway.Ask(ctx, selected[0], q)
	if err != nil {
		entry := s.append(domain.RoleError, "오류: "+err.Error(), nil)
		return entry, domain.WrapError(domain.ErrTemporary, "ask", err)
	}

	markdown := strings.TrimSpace(answer.Markdown)
	if markdown == "" {
		return s.append(domain.RoleBot, "(응답 없음)", nil), nil
	}
	return s.append(domain.RoleBot, markdown, answer.Metrics), nil
}

// Transcript returns a copy of the entries in append order.
func (s *AskSession) Transcript() []domain.TranscriptEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.TranscriptEntry, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (s *AskSession) append(role domain.TranscriptRole, markdown string, metrics *domain.AskMetrics) domain.TranscriptEntry {
	entry := domain.TranscriptEntry{
		ID:        uuid.NewString(),
		Role:      role,
		Markdown:  markdown,
		Metrics:   metrics,
		CreatedAt: s.now(),
	}
	s.mu.Lock()
	s.transcript = append(s.transcript, entry)
	s.mu.Unlock()
	return entry
}

func (s *AskSession) report(message string) {
	if s.status != nil {
		s.status.Status(message)
	}
}
