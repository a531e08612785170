package domain

import "time"

// PreviewLimit bounds the stored preview text, in runes.
const PreviewLimit = 120

// Document is the client-side record of one masked, classified document.
// Only the store owns Documents; other components hold ids.
type Document struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Categories []CategoryKey `json:"categories"`
	Preview    string        `json:"preview"`
}

// HasCategory reports whether the document currently carries key.
func (d Document) HasCategory(key CategoryKey) bool {
	for _, c := range d.Categories {
		if c == key {
			return true
		}
	}
	return false
}

// TransformResultKind tags the two decode paths of the result endpoint.
type TransformResultKind string

const (
	// ResultStructured is the preferred JSON shape {documentType, markdown}.
	ResultStructured TransformResultKind = "structured"
	// ResultFreeform is the degraded plain-text shape whose first line may
	// carry a "Category: <TOKEN>" header.
	ResultFreeform TransformResultKind = "freeform"
)

// TransformResult is the decoded payload of GET /api/result/{id}.
type TransformResult struct {
	Kind         TransformResultKind `json:"kind"`
	DocumentType string              `json:"documentType"`
	Markdown     string              `json:"markdown"`
}

// SessionState enumerates TransformSession states.
type SessionState string

const (
	StateIdle           SessionState = "idle"
	StateUploading      SessionState = "uploading"
	StateAwaitingResult SessionState = "awaiting_result"
	StateClassifying    SessionState = "classifying"
	StateCommitted      SessionState = "committed"
	StateFailed         SessionState = "failed"
)

// Terminal reports whether a new transform may begin from this state.
func (s SessionState) Terminal() bool {
	return s == StateIdle || s == StateCommitted || s == StateFailed
}

// AskMetrics is the optional quality summary attached to an answer.
type AskMetrics struct {
	Relevance     float64                 `json:"relevance"`
	UsedDocs      []string                `json:"usedDocs"`
	CategoryShare map[CategoryKey]float64 `json:"categoryShare"`
	LatencyMs     float64                 `json:"latencyMs"`
}

// Answer is the decoded payload of POST /api/ask.
type Answer struct {
	Markdown string      `json:"markdown"`
	Metrics  *AskMetrics `json:"metrics,omitempty"`
}

// TranscriptRole distinguishes transcript entry origins.
type TranscriptRole string

const (
	RoleUser  TranscriptRole = "user"
	RoleBot   TranscriptRole = "bot"
	RoleError TranscriptRole = "error"
)

// TranscriptEntry is one ordered item of the ask transcript. The question
// entry is appended before the network call resolves; the answer or error
// entry follows once it settles.
type TranscriptEntry struct {
	ID        string         `json:"id"`
	Role      TranscriptRole `json:"role"`
	Markdown  string         `json:"markdown"`
	Metrics   *AskMetrics    `json:"metrics,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// ExampleSentence is one row of the read-only example table served by
// GET /api/example.
type ExampleSentence struct {
	Sentence string  `json:"sentence"`
	Score    float64 `json:"score"`
	Index    int     `json:"index"`
}

// DocumentDescriptor is the per-category listing shape of GET /api/documents.
type DocumentDescriptor struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
}
