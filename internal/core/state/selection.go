package state

// SelectionSet is the set of document ids chosen as context for questions.
// Ids are weak references: a selected id missing from the store is ignored
// at render time. Not safe for concurrent use on its own; the Workspace
// serializes access.
type SelectionSet struct {
	order   []string
	members map[string]bool
}

func NewSelectionSet() *SelectionSet {
	return &SelectionSet{members: make(map[string]bool)}
}

// ReplaceWith clears all prior selection and selects exactly id. A fresh
// transform makes the new document the sole selection through this call.
func (s *SelectionSet) ReplaceWith(id string) {
	s.order = s.order[:0]
	clear(s.members)
	if id != "" {
		s.order = append(s.order, id)
		s.members[id] = true
	}
}

// Toggle adds or removes id. Toggling an already-consistent id is a no-op,
// so repeated toggles from duplicate UI surfaces converge.
func (s *SelectionSet) Toggle(id string, selected bool) {
	if id == "" || s.members[id] == selected {
		return
	}
	if selected {
		s.members[id] = true
		s.order = append(s.order, id)
		return
	}
	delete(s.members, id)
	s.order = removeID(s.order, id)
}

func (s *SelectionSet) Size() int { return len(s.order) }

func (s *SelectionSet) Has(id string) bool { return s.members[id] }

// ToList returns the selected ids in selection order.
func (s *SelectionSet) ToList() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
