package ports

import (
	"context"
	"strings"

	"github.com/secureai/docshield-console/internal/core/domain"
)

// TransformInput carries either raw pasted text or a file body. At least one
// must be present; the session wraps either form into a single upload shape.
type TransformInput struct {
	Text     string
	FileName string
	FileData []byte
}

// Empty reports whether neither text nor file content was provided.
func (in TransformInput) Empty() bool {
	return len(in.FileData) == 0 && strings.TrimSpace(in.Text) == ""
}

// Transformer is the inbound contract for the upload→result→commit flow.
type Transformer interface {
	Transform(ctx context.Context, in TransformInput) (domain.Document, error)
	State() domain.SessionState
	Status() string
}

// Asker is the inbound contract for selection-based question answering.
type Asker interface {
	Ask(ctx context.Context, question string) (domain.TranscriptEntry, error)
	Transcript() []domain.TranscriptEntry
}
