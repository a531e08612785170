package state

import "testing"

func TestToggleIdempotent(t *testing.T) {
	s := NewSelectionSet()
	s.Toggle("d1", true)
	s.Toggle("d1", true)
	if !s.Has("d1") || s.Size() != 1 {
		t.Fatalf("expected single selected d1, size=%d", s.Size())
	}

	s.Toggle("d2", false)
	if s.Has("d2") {
		t.Fatalf("removing a never-added id must leave it unselected")
	}
	if s.Size() != 1 {
		t.Fatalf("size = %d, want 1", s.Size())
	}
}

func TestReplaceWith(t *testing.T) {
	s := NewSelectionSet()
	s.Toggle("d1", true)
	s.Toggle("d2", true)
	s.ReplaceWith("d3")

	if s.Size() != 1 || !s.Has("d3") {
		t.Fatalf("expected sole selection d3, got %v", s.ToList())
	}
	if s.Has("d1") || s.Has("d2") {
		t.Fatalf("prior selection must be cleared")
	}
}

func TestToListStableOrder(t *testing.T) {
	s := NewSelectionSet()
	s.Toggle("b", true)
	s.Toggle("a", true)
	s.Toggle("c", true)
	s.Toggle("a", false)
	s.Toggle("a", true)

	got := s.ToList()
	want := []string{"b", "c", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order %v, want %v", got, want)
		}
	}
}
