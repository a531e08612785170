package state

import (
	"github.com/secureai/docshield-console/internal/core/domain"
)

// DocumentStore owns every Document by id and maintains the derived
// category index. It is not safe for concurrent use on its own; the
// Workspace serializes access.
type DocumentStore struct {
	docs       map[string]domain.Document
	byCategory map[domain.CategoryKey][]string
}

func NewDocumentStore() *DocumentStore {
	byCategory := make(map[domain.CategoryKey][]string, len(domain.CategoryKeys()))
	for _, key := range domain.CategoryKeys() {
		byCategory[key] = nil
	}
	return &DocumentStore{
		docs:       make(map[string]domain.Document),
		byCategory: byCategory,
	}
}

// Upsert records or reclassifies a document. An empty id is a silent
// precondition failure and leaves the store untouched. Raw category values
// are normalized; an empty set is substituted with the default category so
// every document stays reachable from the accordion. The category index is
// rebuilt for this id: removed from every bucket, then appended to the
// buckets of the final set in declaration order, without duplicates.
func (s *DocumentStore) Upsert(id, title string, rawCategories []string, previewSource string) {
	if id == "" {
		return
	}

	var categories []domain.CategoryKey
	seen := make(map[domain.CategoryKey]bool)
	for _, raw := range rawCategories {
		key := domain.NormalizeCategory(raw)
		if seen[key] {
			continue
		}
		seen[key] = true
		categories = append(categories, key)
	}
	if len(categories) == 0 {
		categories = []domain.CategoryKey{domain.DefaultCategory}
	}

	if title == "" {
		title = id
	}

	s.docs[id] = domain.Document{
		ID:         id,
		Title:      title,
		Categories: categories,
		Preview:    truncateRunes(previewSource, domain.PreviewLimit),
	}

	for key, ids := range s.byCategory {
		s.byCategory[key] = removeID(ids, id)
	}
	for _, key := range categories {
		s.byCategory[key] = append(s.byCategory[key], id)
	}
}

// Get returns the document for id, if present.
func (s *DocumentStore) Get(id string) (domain.Document, bool) {
	doc, ok := s.docs[id]
	return doc, ok
}

// IDsFor returns the index bucket for key in insertion order. The result is
// a copy; callers may not mutate the index through it.
func (s *DocumentStore) IDsFor(key domain.CategoryKey) []string {
	ids := s.byCategory[key]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// Len returns the number of stored documents.
func (s *DocumentStore) Len() int {
	return len(s.docs)
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
