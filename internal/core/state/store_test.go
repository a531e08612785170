package state

import (
	"strings"
	"testing"

	"github.com/secureai/docshield-console/internal/core/domain"
)

func bucketsConsistent(t *testing.T, s *DocumentStore) {
	t.Helper()
	for _, key := range domain.CategoryKeys() {
		seen := make(map[string]bool)
		for _, id := range s.IDsFor(key) {
			if seen[id] {
				t.Fatalf("bucket %s contains duplicate id %q", key, id)
			}
			seen[id] = true
			doc, ok := s.Get(id)
			if !ok {
				t.Fatalf("bucket %s references unknown id %q", key, id)
			}
			if !doc.HasCategory(key) {
				t.Fatalf("bucket %s contains %q whose categories are %v", key, id, doc.Categories)
			}
		}
		// Reverse direction: every document carrying key is in the bucket.
		for id, doc := range s.docs {
			if doc.HasCategory(key) && !seen[id] {
				t.Fatalf("document %q has %s but is missing from its bucket", id, key)
			}
		}
	}
}

func TestUpsertEmptyIDIsNoOp(t *testing.T) {
	s := NewDocumentStore()
	s.Upsert("", "title", []string{"HR_INFO"}, "body")
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d documents", s.Len())
	}
}

func TestUpsertNormalizesAndDefaults(t *testing.T) {
	s := NewDocumentStore()
	s.Upsert("d1", "report.docx", []string{"unknown_x"}, "masked body")
	doc, ok := s.Get("d1")
	if !ok {
		t.Fatalf("document missing after upsert")
	}
	if len(doc.Categories) != 1 || doc.Categories[0] != domain.DefaultCategory {
		t.Fatalf("expected default category, got %v", doc.Categories)
	}

	s.Upsert("d2", "empty-cats", nil, "body")
	doc, _ = s.Get("d2")
	if len(doc.Categories) != 1 || doc.Categories[0] != domain.DefaultCategory {
		t.Fatalf("empty category set must substitute the default, got %v", doc.Categories)
	}
	bucketsConsistent(t, s)
}

func TestUpsertReclassifyRebuildsIndex(t *testing.T) {
	s := NewDocumentStore()
	s.Upsert("d1", "a", []string{"HR_INFO"}, "x")
	s.Upsert("d2", "b", []string{"HR_INFO"}, "y")
	s.Upsert("d1", "a", []string{"TECH_INFO"}, "x")

	hr := s.IDsFor(domain.CategoryHRInfo)
	if len(hr) != 1 || hr[0] != "d2" {
		t.Fatalf("expected HR bucket [d2], got %v", hr)
	}
	tech := s.IDsFor(domain.CategoryTechInfo)
	if len(tech) != 1 || tech[0] != "d1" {
		t.Fatalf("expected TECH bucket [d1], got %v", tech)
	}
	bucketsConsistent(t, s)
}

func TestUpsertDeduplicatesCategories(t *testing.T) {
	s := NewDocumentStore()
	s.Upsert("d1", "a", []string{"hr_info", "HR_INFO", "tech_info"}, "x")
	doc, _ := s.Get("d1")
	if len(doc.Categories) != 2 {
		t.Fatalf("expected deduped categories, got %v", doc.Categories)
	}
	bucketsConsistent(t, s)
}

func TestIDsForInsertionOrderStable(t *testing.T) {
	s := NewDocumentStore()
	s.Upsert("d1", "a", []string{"HR_INFO"}, "")
	s.Upsert("d2", "b", []string{"HR_INFO"}, "")
	s.Upsert("d3", "c", []string{"HR_INFO"}, "")
	// Re-upserting an unrelated document must not reorder the bucket.
	s.Upsert("d2", "b", []string{"HR_INFO"}, "updated")

	got := s.IDsFor(domain.CategoryHRInfo)
	want := []string{"d1", "d3", "d2"}
	if len(got) != len(want) {
		t.Fatalf("bucket size %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bucket order %v, want %v", got, want)
		}
	}
}

func TestPreviewTruncation(t *testing.T) {
	s := NewDocumentStore()
	long := strings.Repeat("가", 300)
	s.Upsert("d1", "a", []string{"HR_INFO"}, long)
	doc, _ := s.Get("d1")
	if got := len([]rune(doc.Preview)); got != domain.PreviewLimit {
		t.Fatalf("preview length %d runes, want %d", got, domain.PreviewLimit)
	}
}
