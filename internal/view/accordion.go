package view

import (
	"sync"
	"time"

	"github.com/secureai/docshield-console/internal/core/domain"
	"github.com/secureai/docshield-console/internal/core/state"
)

// DefaultHighlightDuration matches the reference flash affordance.
const DefaultHighlightDuration = 1200 * time.Millisecond

// Row is one document line inside a category section.
type Row struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Preview   string `json:"preview"`
	Checked   bool   `json:"checked"`
	Highlight bool   `json:"highlight"`
}

// Section is one collapsible category of the accordion.
type Section struct {
	Key      domain.CategoryKey `json:"key"`
	Label    string             `json:"label"`
	Count    int                `json:"count"`
	Expanded bool               `json:"expanded"`
	Rows     []Row              `json:"rows"`
}

// Accordion is the full deterministic view-model of the category list.
type Accordion struct {
	Revision      uint64    `json:"revision"`
	Sections      []Section `json:"sections"`
	SelectedCount int       `json:"selected_count"`
}

// RowSync carries the converged state of every surface bound to one id
// after a checkbox toggle, so duplicate rows resynchronize without a full
// re-render.
type RowSync struct {
	ID            string `json:"id"`
	Checked       bool   `json:"checked"`
	SelectedCount int    `json:"selected_count"`
}

// CategoryView derives the accordion from the workspace and routes user
// interaction back into it. Rendering is read-only: calling Render
// repeatedly with unchanged inputs yields an identical tree.
type CategoryView struct {
	workspace *state.Workspace
	duration  time.Duration
	now       func() time.Time

	mu             sync.Mutex
	highlightID    string
	highlightUntil time.Time
}

func NewCategoryView(workspace *state.Workspace, highlightDuration time.Duration) *CategoryView {
	if highlightDuration <= 0 {
		highlightDuration = DefaultHighlightDuration
	}
	return &CategoryView{
		workspace: workspace,
		duration:  highlightDuration,
		now:       time.Now,
	}
}

// Render builds the accordion for every category in registry order. Each
// row's checkbox reflects the selection set; counts are live bucket sizes.
func (v *CategoryView) Render() Accordion {
	snap := v.workspace.Snapshot()
	highlightID := v.activeHighlight()

	acc := Accordion{
		Revision:      snap.Revision,
		Sections:      make([]Section, 0, len(domain.CategoryKeys())),
		SelectedCount: len(snap.Selected),
	}
	for _, key := range domain.CategoryKeys() {
		ids := snap.ByCategory[key]
		section := Section{
			Key:      key,
			Label:    domain.CategoryLabel(key),
			Count:    len(ids),
			Expanded: snap.Expanded[key],
			Rows:     make([]Row, 0, len(ids)),
		}
		for _, id := range ids {
			doc, ok := snap.Documents[id]
			if !ok {
				continue
			}
			section.Rows = append(section.Rows, Row{
				ID:        id,
				Title:     doc.Title,
				Preview:   doc.Preview,
				Checked:   snap.Selected[id],
				Highlight: id == highlightID,
			})
		}
		acc.Sections = append(acc.Sections, section)
	}
	return acc
}

// Reveal forces the document's category open and marks the row for a
// transient highlight. It never alters selection or category membership.
func (v *CategoryView) Reveal(id string, key domain.CategoryKey) {
	v.workspace.ExpandCategory(key)

	v.mu.Lock()
	v.highlightID = id
	v.highlightUntil = v.now().Add(v.duration)
	v.mu.Unlock()
}

// ToggleRow flips one document checkbox and reports the converged state for
// every surface bound to that id plus the refreshed selection counter.
func (v *CategoryView) ToggleRow(id string, selected bool) RowSync {
	count := v.workspace.ToggleSelection(id, selected)
	return RowSync{
		ID:            id,
		Checked:       v.workspace.HasSelected(id),
		SelectedCount: count,
	}
}

// ToggleSection flips one category's collapse flag and returns the new
// expanded value.
func (v *CategoryView) ToggleSection(key domain.CategoryKey) bool {
	return v.workspace.ToggleCategory(key)
}

// activeHighlight returns the highlighted id, clearing it past its
// deadline so the flash auto-expires.
func (v *CategoryView) activeHighlight() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.highlightID == "" {
		return ""
	}
	if v.now().After(v.highlightUntil) {
		v.highlightID = ""
		return ""
	}
	return v.highlightID
}
