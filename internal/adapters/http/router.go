package httpadapter

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/secureai/docshield-console/internal/core/domain"
	"github.com/secureai/docshield-console/internal/core/ports"
	"github.com/secureai/docshield-console/internal/core/state"
	"github.com/secureai/docshield-console/internal/observability/metrics"
	"github.com/secureai/docshield-console/internal/view"
)

const serviceName = "console"

// maxUploadBytes bounds one transform payload.
const maxUploadBytes = 20 << 20

const (
	maxBackendInFlight = 4
	backpressureWait   = 100 * time.Millisecond
)

// Router is the local gateway in front of one workspace. It owns no domain
// state itself; every mutation goes through the sessions and the view.
type Router struct {
	transformer ports.Transformer
	asker       ports.Asker
	gateway     ports.BackendGateway
	extractor   ports.TextExtractor
	renderer    ports.MarkdownRenderer
	workspace   *state.Workspace
	view        *view.CategoryView
	status      *view.StatusLine
	metrics     *metrics.ConsoleMetrics

	rateLimit RateLimitConfig
}

type RateLimitConfig struct {
	PerSecond float64
	Burst     int
}

func NewRouter(
	transformer ports.Transformer,
	asker ports.Asker,
	gateway ports.BackendGateway,
	extractor ports.TextExtractor,
	renderer ports.MarkdownRenderer,
	workspace *state.Workspace,
	categoryView *view.CategoryView,
	statusLine *view.StatusLine,
	consoleMetrics *metrics.ConsoleMetrics,
	rateLimit RateLimitConfig,
) *Router {
	return &Router{
		transformer: transformer,
		asker:       asker,
		gateway:     gateway,
		extractor:   extractor,
		renderer:    renderer,
		workspace:   workspace,
		view:        categoryView,
		status:      statusLine,
		metrics:     consoleMetrics,
		rateLimit:   rateLimit,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.Handle("/v1/transform", rt.limited(http.HandlerFunc(rt.transform)))
	mux.HandleFunc("/v1/workspace", rt.workspaceJSON)
	mux.HandleFunc("/v1/workspace/html", rt.workspaceHTML)
	mux.HandleFunc("/v1/selection/", rt.toggleSelection)
	mux.HandleFunc("/v1/categories/", rt.toggleCategory)
	mux.Handle("/v1/ask", rt.limited(http.HandlerFunc(rt.ask)))
	mux.HandleFunc("/v1/transcript", rt.transcript)
	mux.HandleFunc("/v1/status", rt.statusLine)
	mux.HandleFunc("/v1/masked", rt.masked)
	mux.HandleFunc("/v1/example/", rt.exampleData)
	mux.HandleFunc("/v1/documents/", rt.documentsByType)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) limited(next http.Handler) http.Handler {
	handler := backpressureMiddleware(next, maxBackendInFlight, backpressureWait)
	if rt.rateLimit.PerSecond > 0 {
		handler = rateLimitMiddleware(handler, rt.rateLimit.PerSecond, rt.rateLimit.Burst)
	}
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type transformResponse struct {
	Document   domain.Document     `json:"document"`
	SourceText string              `json:"sourceText,omitempty"`
	State      domain.SessionState `json:"state"`
	Status     string              `json:"status,omitempty"`
}

func (rt *Router) transform(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	input, sourceText, err := rt.readTransformInput(r)
	if err != nil {
		writeError(w, err)
		return
	}

	start := time.Now()
	doc, err := rt.transformer.Transform(r.Context(), input)
	if rt.metrics != nil {
		rt.metrics.RecordTransform(serviceName, err, time.Since(start))
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transformResponse{
		Document:   doc,
		SourceText: sourceText,
		State:      rt.transformer.State(),
		Status:     rt.currentStatus(),
	})
}

func (rt *Router) statusLine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state":  rt.transformer.State(),
		"status": rt.currentStatus(),
	})
}

// masked serves the last committed markdown, raw for the copy affordance
// and rendered for display.
func (rt *Router) masked(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	markdown := rt.workspace.Masked()
	writeJSON(w, http.StatusOK, map[string]string{
		"markdown": markdown,
		"html":     rt.renderMarkdown(markdown),
	})
}

func (rt *Router) currentStatus() string {
	if rt.status == nil {
		return ""
	}
	return rt.status.Current()
}

// readTransformInput accepts either a JSON {text} body or a multipart file
// part. For files it also extracts plain text for the source pane; an
// extraction failure only means an empty source pane, never a failed upload.
func (rt *Router) readTransformInput(r *http.Request) (ports.TransformInput, string, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return ports.TransformInput{}, "", domain.WrapError(domain.ErrInvalidInput, "transform", err)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return ports.TransformInput{}, "", domain.WrapError(domain.ErrInvalidInput, "transform", err)
		}

		sourceText := ""
		if rt.extractor != nil {
			if text, extractErr := rt.extractor.Extract(r.Context(), header.Filename, data); extractErr == nil {
				sourceText = text
			}
		}
		return ports.TransformInput{FileName: header.Filename, FileData: data}, sourceText, nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return ports.TransformInput{}, "", domain.WrapError(domain.ErrInvalidInput, "transform", err)
	}
	return ports.TransformInput{Text: req.Text}, req.Text, nil
}

func (rt *Router) workspaceJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, rt.view.Render())
}

func (rt *Router) workspaceHTML(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	html, err := view.RenderHTML(rt.view.Render())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func (rt *Router) toggleSelection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/selection/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}
	if _, ok := rt.workspace.Document(id); !ok {
		writeError(w, domain.ErrDocumentNotFound)
		return
	}

	var req struct {
		Selected bool `json:"selected"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	writeJSON(w, http.StatusOK, rt.view.ToggleRow(id, req.Selected))
}

func (rt *Router) toggleCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/v1/categories/")
	key, action, found := strings.Cut(rest, "/")
	if !found || action != "toggle" || key == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	if !domain.ValidCategory(domain.CategoryKey(key)) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown category"})
		return
	}

	expanded := rt.view.ToggleSection(domain.CategoryKey(key))
	writeJSON(w, http.StatusOK, map[string]bool{"expanded": expanded})
}

type askResponse struct {
	Entry   domain.TranscriptEntry `json:"entry"`
	HTML    string                 `json:"html,omitempty"`
	Summary string                 `json:"summary,omitempty"`
}

func (rt *Router) ask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	start := time.Now()
	entry, err := rt.asker.Ask(r.Context(), req.Question)
	if rt.metrics != nil {
		relevance := 0.0
		if entry.Metrics != nil {
			relevance = entry.Metrics.Relevance
		}
		rt.metrics.RecordAsk(serviceName, err, relevance, time.Since(start))
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, askResponse{
		Entry:   entry,
		HTML:    rt.renderMarkdown(entry.Markdown),
		Summary: view.SummarizeMetrics(entry.Metrics),
	})
}

func (rt *Router) transcript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	entries := rt.asker.Transcript()
	out := make([]askResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, askResponse{
			Entry:   entry,
			HTML:    rt.renderMarkdown(entry.Markdown),
			Summary: view.SummarizeMetrics(entry.Metrics),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (rt *Router) exampleData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/v1/example/")
	table, err := rt.gateway.ExampleData(r.Context(), domain.NormalizeCategory(key))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

// documentsByType lists server-side documents for one category and folds
// them into the local workspace so the accordion can show them.
func (rt *Router) documentsByType(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	key := domain.NormalizeCategory(strings.TrimPrefix(r.URL.Path, "/v1/documents/"))

	list, err := rt.gateway.DocumentsByType(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	for _, descriptor := range list {
		rt.workspace.UpsertDocument(descriptor.ID, descriptor.FileName, []string{string(key)}, "")
	}
	writeJSON(w, http.StatusOK, list)
}

func (rt *Router) renderMarkdown(markdown string) string {
	if rt.renderer == nil || markdown == "" {
		return ""
	}
	return rt.renderer.Render(markdown)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
