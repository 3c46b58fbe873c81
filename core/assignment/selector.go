package assignment

import "errors"

var (
	ErrUnknownNote = errors.New("note is not in the current list")

	errNoNotesSelected = errors.New("No notes selected")
)

// Selector tracks the notes list and a multi-select set over it.
// The selection only ever contains currently listed note ids, kept in the
// order they were selected.
type Selector struct {
	notes    []Note
	selected []string
}

func NewSelector(notes []Note) *Selector {
	return &Selector{notes: notes}
}

func (s *Selector) Notes() []Note {
	notes := make([]Note, len(s.notes))
	copy(notes, s.notes)
	return notes
}

// Selected returns the selected note ids in selection order.
func (s *Selector) Selected() []string {
	ids := make([]string, len(s.selected))
	copy(ids, s.selected)
	return ids
}

// Toggle flips membership of noteID in the selection set. Zero or many notes
// may be selected; ids outside the current list are rejected.
func (s *Selector) Toggle(noteID string) error {
	if !s.listed(noteID) {
		return ErrUnknownNote
	}
	for i, id := range s.selected {
		if id == noteID {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return nil
		}
	}
	s.selected = append(s.selected, noteID)
	return nil
}

// SetNotes replaces the notes list and drops selected ids that are no longer listed.
func (s *Selector) SetNotes(notes []Note) {
	s.notes = notes
	kept := s.selected[:0]
	for _, id := range s.selected {
		if s.listed(id) {
			kept = append(kept, id)
		}
	}
	s.selected = kept
}

func (s *Selector) listed(noteID string) bool {
	for _, n := range s.notes {
		if n.ID == noteID {
			return true
		}
	}
	return false
}
