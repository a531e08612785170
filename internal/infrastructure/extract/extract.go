package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/secureai/docshield-console/internal/core/domain"
)

// Extractor turns an uploaded file into plain text, dispatching on the
// file extension. It implements ports.TextExtractor.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md", ".json", ".csv", ".log":
		return extractPlain(filename, data)
	case ".pdf":
		return extractPDF(data)
	case ".docx":
		return extractDocx(data)
	case ".xlsx":
		return extractXLSX(data)
	default:
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "extract", fmt.Errorf("no extractor for %s", filename))
	}
}

func extractPlain(filename string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("not valid utf-8 text: %s", filename)
	}
	return strings.TrimSpace(string(data)), nil
}
