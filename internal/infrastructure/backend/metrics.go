package backend

import (
	"context"
	"io"

	"github.com/secureai/docshield-console/internal/core/domain"
	"github.com/secureai/docshield-console/internal/core/ports"
)

// ErrorRecorder is the slice of the metrics surface this package needs.
type ErrorRecorder interface {
	RecordBackendError(service, operation string)
}

// InstrumentedGateway counts per-operation failures of the wrapped gateway.
type InstrumentedGateway struct {
	next     ports.BackendGateway
	recorder ErrorRecorder
	service  string
}

func NewInstrumentedGateway(next ports.BackendGateway, recorder ErrorRecorder, service string) *InstrumentedGateway {
	return &InstrumentedGateway{next: next, recorder: recorder, service: service}
}

func (g *InstrumentedGateway) Upload(ctx context.Context, filename string, body io.Reader) (string, error) {
	id, err := g.next.Upload(ctx, filename, body)
	g.record("upload", err)
	return id, err
}

func (g *InstrumentedGateway) FetchResult(ctx context.Context, id string) (domain.TransformResult, error) {
	result, err := g.next.FetchResult(ctx, id)
	g.record("result", err)
	return result, err
}

func (g *InstrumentedGateway) Ask(ctx context.Context, docID, question string) (domain.Answer, error) {
	answer, err := g.next.Ask(ctx, docID, question)
	g.record("ask", err)
	return answer, err
}

func (g *InstrumentedGateway) ExampleData(ctx context.Context, category domain.CategoryKey) (map[string][]domain.ExampleSentence, error) {
	table, err := g.next.ExampleData(ctx, category)
	g.record("example", err)
	return table, err
}

func (g *InstrumentedGateway) DocumentsByType(ctx context.Context, category domain.CategoryKey) ([]domain.DocumentDescriptor, error) {
	list, err := g.next.DocumentsByType(ctx, category)
	g.record("documents", err)
	return list, err
}

func (g *InstrumentedGateway) record(operation string, err error) {
	if err == nil || g.recorder == nil {
		return
	}
	g.recorder.RecordBackendError(g.service, operation)
}
