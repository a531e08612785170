package state

import (
	"sync"

	"github.com/secureai/docshield-console/internal/core/domain"
)

// Workspace is the single owner of all mutable client state: the document
// store, the selection set, per-category collapse flags and the last masked
// markdown. Every mutation runs under one mutex so the multi-field
// invariants are never observed half-updated. Components receive the
// Workspace as a dependency instead of closing over a package singleton, so
// independent instances (tests, parallel sessions) cannot cross-contaminate.
type Workspace struct {
	mu        sync.Mutex
	store     *DocumentStore
	selection *SelectionSet
	expanded  map[domain.CategoryKey]bool
	masked    string
	revision  uint64

	subscribers []func()
}

func NewWorkspace() *Workspace {
	expanded := make(map[domain.CategoryKey]bool, len(domain.CategoryKeys()))
	for _, key := range domain.CategoryKeys() {
		expanded[key] = false
	}
	return &Workspace{
		store:     NewDocumentStore(),
		selection: NewSelectionSet(),
		expanded:  expanded,
	}
}

// Subscribe registers fn to run after every committed mutation. Callbacks
// run outside the workspace lock, on the mutating goroutine.
func (w *Workspace) Subscribe(fn func()) {
	if fn == nil {
		return
	}
	w.mu.Lock()
	w.subscribers = append(w.subscribers, fn)
	w.mu.Unlock()
}

// notify runs subscriber callbacks. Callers bump the revision inside their
// own critical section so a concurrent Snapshot never pairs new state with
// an old revision.
func (w *Workspace) notify() {
	w.mu.Lock()
	subs := make([]func(), len(w.subscribers))
	copy(subs, w.subscribers)
	w.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// CommitTransform applies the all-or-nothing commit of a completed
// transform: the document is upserted under its server id with a single
// category, the selection becomes exactly that id, the category is forced
// open and the displayed markdown is retained for the copy affordance.
func (w *Workspace) CommitTransform(id, title string, category domain.CategoryKey, markdown string) (domain.Document, bool) {
	w.mu.Lock()
	w.store.Upsert(id, title, []string{string(category)}, markdown)
	doc, ok := w.store.Get(id)
	if ok {
		w.selection.ReplaceWith(id)
		w.expanded[category] = true
		w.masked = markdown
		w.revision++
	}
	w.mu.Unlock()
	if ok {
		w.notify()
	}
	return doc, ok
}

// UpsertDocument records a document without touching selection or collapse
// state. Used when hydrating a category bucket from the server listing.
func (w *Workspace) UpsertDocument(id, title string, rawCategories []string, previewSource string) {
	w.mu.Lock()
	changed := id != ""
	w.store.Upsert(id, title, rawCategories, previewSource)
	if changed {
		w.revision++
	}
	w.mu.Unlock()
	if changed {
		w.notify()
	}
}

// ToggleSelection flips one id and returns the resulting selection size.
func (w *Workspace) ToggleSelection(id string, selected bool) int {
	w.mu.Lock()
	w.selection.Toggle(id, selected)
	size := w.selection.Size()
	w.revision++
	w.mu.Unlock()
	w.notify()
	return size
}

// SelectedIDs returns the current selection in stable order.
func (w *Workspace) SelectedIDs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selection.ToList()
}

// HasSelected reports whether id is currently selected.
func (w *Workspace) HasSelected(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selection.Has(id)
}

// ToggleCategory flips one category's collapse flag and returns the new
// expanded value. Purely presentational: document membership is untouched.
func (w *Workspace) ToggleCategory(key domain.CategoryKey) bool {
	w.mu.Lock()
	w.expanded[key] = !w.expanded[key]
	open := w.expanded[key]
	w.revision++
	w.mu.Unlock()
	w.notify()
	return open
}

// ExpandCategory forces a category open.
func (w *Workspace) ExpandCategory(key domain.CategoryKey) {
	w.mu.Lock()
	already := w.expanded[key]
	w.expanded[key] = true
	if !already {
		w.revision++
	}
	w.mu.Unlock()
	if !already {
		w.notify()
	}
}

// Document returns the stored document for id.
func (w *Workspace) Document(id string) (domain.Document, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.store.Get(id)
}

// Masked returns the markdown of the last committed transform.
func (w *Workspace) Masked() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.masked
}

// Snapshot is a consistent copy of the workspace for rendering.
type Snapshot struct {
	Revision   uint64
	Documents  map[string]domain.Document
	ByCategory map[domain.CategoryKey][]string
	Selected   map[string]bool
	Expanded   map[domain.CategoryKey]bool
}

// Snapshot captures all rendering inputs under one lock acquisition.
func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := Snapshot{
		Revision:   w.revision,
		Documents:  make(map[string]domain.Document, w.store.Len()),
		ByCategory: make(map[domain.CategoryKey][]string, len(domain.CategoryKeys())),
		Selected:   make(map[string]bool, w.selection.Size()),
		Expanded:   make(map[domain.CategoryKey]bool, len(w.expanded)),
	}
	for _, key := range domain.CategoryKeys() {
		ids := w.store.IDsFor(key)
		snap.ByCategory[key] = ids
		for _, id := range ids {
			if doc, ok := w.store.Get(id); ok {
				snap.Documents[id] = doc
			}
		}
		snap.Expanded[key] = w.expanded[key]
	}
	for _, id := range w.selection.ToList() {
		// Weak reference: selected ids without a stored document are
		// dropped from the rendering snapshot.
		if _, ok := w.store.Get(id); ok {
			snap.Selected[id] = true
		}
	}
	return snap
}

// Revision returns the current mutation counter.
func (w *Workspace) Revision() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.revision
}
