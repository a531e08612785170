package markdown

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	xhtml "golang.org/x/net/html"
)

// Renderer converts untrusted backend markdown into sanitized HTML. It
// implements ports.MarkdownRenderer and never fails: a conversion error
// falls back to escaped text with newline breaks so the answer still shows.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(htmlrenderer.WithHardWraps()),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

func (r *Renderer) Render(markdown string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return fallbackHTML(markdown)
	}
	return r.policy.Sanitize(buf.String())
}

// PreviewText flattens rendered markdown to plain text for list previews.
func (r *Renderer) PreviewText(markdown string) string {
	rendered := r.Render(markdown)
	node, err := xhtml.Parse(strings.NewReader(rendered))
	if err != nil {
		return strings.TrimSpace(markdown)
	}

	var b strings.Builder
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	return strings.Join(strings.Fields(b.String()), " ")
}

func fallbackHTML(markdown string) string {
	escaped := html.EscapeString(markdown)
	return strings.ReplaceAll(escaped, "\n", "<br>")
}
