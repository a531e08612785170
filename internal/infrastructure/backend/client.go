package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/secureai/docshield-console/internal/core/domain"
	"github.com/secureai/docshield-console/internal/infrastructure/resilience"
)

// freeformCategoryRe pulls the raw category token out of a degraded
// plain-text result body.
var freeformCategoryRe = regexp.MustCompile(`(?im)^Category:\s*(\w+)`)

// Client talks to the docshield masking/classification backend. It
// implements ports.BackendGateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
	guard      *resilience.Guard
}

func New(baseURL string, timeout time.Duration, guard *resilience.Guard) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		guard:      guard,
	}
}

// Upload sends one file part and returns the server-issued document id.
func (c *Client) Upload(ctx context.Context, filename string, body io.Reader) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	err := c.execute(ctx, "upload", func(ctx context.Context) error {
		return c.postMultipart(ctx, "/api/upload", filename, body, &out)
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out.ID), nil
}

// FetchResult retrieves the masked content for id. The endpoint has two
// shapes: the structured JSON object and a degraded plain-text body whose
// first line may carry a "Category: <TOKEN>" header. Both decode into a
// tagged result; a shape mismatch is not an error.
func (c *Client) FetchResult(ctx context.Context, id string) (domain.TransformResult, error) {
	var raw []byte
	err := c.execute(ctx, "result", func(ctx context.Context) error {
		var readErr error
		raw, readErr = c.getRaw(ctx, "/api/result/"+url.PathEscape(id), "result")
		return readErr
	})
	if err != nil {
		return domain.TransformResult{}, err
	}
	return decodeResult(raw), nil
}

func decodeResult(raw []byte) domain.TransformResult {
	var structured struct {
		DocumentType string `json:"documentType"`
		Markdown     string `json:"markdown"`
	}
	if err := json.Unmarshal(raw, &structured); err == nil && (structured.DocumentType != "" || structured.Markdown != "") {
		return domain.TransformResult{
			Kind:         domain.ResultStructured,
			DocumentType: structured.DocumentType,
			Markdown:     structured.Markdown,
		}
	}

	text := string(raw)
	result := domain.TransformResult{
		Kind:     domain.ResultFreeform,
		Markdown: text,
	}
	if m := freeformCategoryRe.FindStringSubmatch(text); m != nil {
		result.DocumentType = m[1]
	}
	return result
}

// Ask forwards one document id plus the question and decodes the answer.
func (c *Client) Ask(ctx context.Context, docID, question string) (domain.Answer, error) {
	params := url.Values{}
	params.Set("docId", docID)
	params.Set("question", question)

	var out domain.Answer
	err := c.execute(ctx, "ask", func(ctx context.Context) error {
		return c.postForm(ctx, "/api/ask", params, &out, "ask")
	})
	if err != nil {
		return domain.Answer{}, err
	}
	return out, nil
}

// ExampleData loads the read-only per-category example sentence table.
func (c *Client) ExampleData(ctx context.Context, category domain.CategoryKey) (map[string][]domain.ExampleSentence, error) {
	params := url.Values{}
	params.Set("type", string(category))

	out := map[string][]domain.ExampleSentence{}
	err := c.execute(ctx, "example", func(ctx context.Context) error {
		return c.getJSON(ctx, "/api/example?"+params.Encode(), &out, "example")
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DocumentsByType lists server-side documents for one category.
func (c *Client) DocumentsByType(ctx context.Context, category domain.CategoryKey) ([]domain.DocumentDescriptor, error) {
	params := url.Values{}
	params.Set("type", string(category))

	var out []domain.DocumentDescriptor
	err := c.execute(ctx, "documents", func(ctx context.Context) error {
		return c.getJSON(ctx, "/api/documents?"+params.Encode(), &out, "documents")
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.DocumentDescriptor{}
	}
	return out, nil
}

func (c *Client) execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	if c.guard == nil {
		return wrapTemporaryIfNeeded(operation, fn(ctx))
	}
	err := c.guard.Execute(ctx, operation, fn, classifyBackendError)
	return wrapTemporaryIfNeeded(operation, err)
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}
