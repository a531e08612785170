package markdown

import (
	"strings"
	"testing"
)

func TestRenderBasicMarkdown(t *testing.T) {
	r := NewRenderer()
	got := r.Render("# 제목\n\n본문 **강조**")
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "제목") {
		t.Fatalf("heading lost: %q", got)
	}
	if !strings.Contains(got, "<strong>강조</strong>") {
		t.Fatalf("emphasis lost: %q", got)
	}
}

func TestRenderStripsScript(t *testing.T) {
	r := NewRenderer()
	got := r.Render("hello <script>alert(1)</script> world")
	if strings.Contains(got, "<script") {
		t.Fatalf("script must be sanitized away: %q", got)
	}
	if !strings.Contains(got, "hello") || !strings.Contains(got, "world") {
		t.Fatalf("surrounding text lost: %q", got)
	}
}

func TestRenderHardWraps(t *testing.T) {
	r := NewRenderer()
	got := r.Render("첫 줄\n둘째 줄")
	if !strings.Contains(got, "<br") {
		t.Fatalf("single newlines must render as breaks: %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	r := NewRenderer()
	got := r.Render("| 이름 | 직급 |\n| --- | --- |\n| 김OO | 과장 |")
	if !strings.Contains(got, "<table") || !strings.Contains(got, "김OO") {
		t.Fatalf("gfm table lost: %q", got)
	}
}

func TestPreviewTextFlattensMarkup(t *testing.T) {
	r := NewRenderer()
	got := r.PreviewText("# 제목\n\n- 항목 하나\n- 항목 둘")
	if strings.ContainsAny(got, "<>#") {
		t.Fatalf("preview must be plain text: %q", got)
	}
	for _, want := range []string{"제목", "항목 하나", "항목 둘"} {
		if !strings.Contains(got, want) {
			t.Fatalf("preview missing %q: %q", want, got)
		}
	}
}

func TestFallbackEscapesAndBreaks(t *testing.T) {
	got := fallbackHTML("a <b>\nc")
	if strings.Contains(got, "<b>") {
		t.Fatalf("fallback must escape html: %q", got)
	}
	if !strings.Contains(got, "<br>") {
		t.Fatalf("fallback must keep line structure: %q", got)
	}
}
