package ports

import (
	"context"
	"io"

	"github.com/secureai/docshield-console/internal/core/domain"
)

// BackendGateway is the docshield masking/classification backend contract.
type BackendGateway interface {
	// Upload sends one file part (pasted text is wrapped as pasted.txt by
	// the caller) and returns the server-issued opaque document id.
	Upload(ctx context.Context, filename string, body io.Reader) (string, error)
	// FetchResult retrieves the masked content and raw category for id.
	// Both the structured and the degraded freeform response shapes decode
	// into a tagged TransformResult; a shape mismatch is not an error.
	FetchResult(ctx context.Context, id string) (domain.TransformResult, error)
	// Ask forwards a single document id plus the question.
	Ask(ctx context.Context, docID, question string) (domain.Answer, error)
	// ExampleData loads the read-only per-category example table.
	ExampleData(ctx context.Context, category domain.CategoryKey) (map[string][]domain.ExampleSentence, error)
	// DocumentsByType lists server-side documents for one category.
	DocumentsByType(ctx context.Context, category domain.CategoryKey) ([]domain.DocumentDescriptor, error)
}

// TextExtractor turns an uploaded file into plain text by extension.
type TextExtractor interface {
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}

// MarkdownRenderer converts untrusted markdown into sanitized HTML. It never
// fails: internal errors fall back to an escaped newline-to-break rendering.
type MarkdownRenderer interface {
	Render(markdown string) string
	// PreviewText derives plain text from markdown for list previews.
	PreviewText(markdown string) string
}

// StatusSink receives transient user-facing status lines (toasts).
type StatusSink interface {
	Status(message string)
}
