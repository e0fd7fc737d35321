// Package selection keeps the set of viewed drawings consistent as the viewer
// changes discipline, toggles compare mode, or picks drawings.
package selection

// MaxSelected is the number of drawings compare mode can show at once.
const MaxSelected = 4

// State is the selection of one viewer. SelectedIDs[0], when present, is the
// primary drawing.
type State struct {
	SelectedIDs   []string `json:"selectedIds"`
	IsCompareMode bool     `json:"isCompareMode"`
}

// Event is a user action that changes the selection.
type Event interface {
	apply(State) State
}

// DisciplineChanged carries the ids of the drawing list under the newly
// selected discipline, in list order.
type DisciplineChanged struct {
	Filtered []string
}

// CompareModeToggled flips compare mode.
type CompareModeToggled struct{}

// DrawingClicked selects or deselects a drawing from the list.
type DrawingClicked struct {
	ID string
}

// Reconcile returns the state that results from applying event to state. The
// input state is never modified.
func Reconcile(state State, event Event) State {
	if event == nil {
		return state.clone()
	}
	return event.apply(state.clone())
}

func (s State) clone() State {
	ids := make([]string, len(s.SelectedIDs))
	copy(ids, s.SelectedIDs)
	return State{SelectedIDs: ids, IsCompareMode: s.IsCompareMode}
}

// Primary returns the primary drawing id, or "" when nothing is selected.
func (s State) Primary() string {
	if len(s.SelectedIDs) == 0 {
		return ""
	}
	return s.SelectedIDs[0]
}

// Contains reports whether id is selected.
func (s State) Contains(id string) bool {
	return indexOf(s.SelectedIDs, id) >= 0
}

func (e DisciplineChanged) apply(s State) State {
	available := make(map[string]struct{}, len(e.Filtered))
	for _, id := range e.Filtered {
		available[id] = struct{}{}
	}

	kept := make([]string, 0, len(s.SelectedIDs))
	for _, id := range s.SelectedIDs {
		if _, ok := available[id]; ok {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 && len(e.Filtered) > 0 {
		kept = append(kept, e.Filtered[0])
	}

	s.SelectedIDs = kept
	return s
}

func (CompareModeToggled) apply(s State) State {
	if s.IsCompareMode && len(s.SelectedIDs) > 1 {
		s.SelectedIDs = s.SelectedIDs[:1]
	}
	s.IsCompareMode = !s.IsCompareMode
	return s
}

func (e DrawingClicked) apply(s State) State {
	if !s.IsCompareMode {
		s.SelectedIDs = []string{e.ID}
		return s
	}

	if i := indexOf(s.SelectedIDs, e.ID); i >= 0 {
		s.SelectedIDs = append(s.SelectedIDs[:i], s.SelectedIDs[i+1:]...)
		return s
	}

	if len(s.SelectedIDs) < MaxSelected {
		s.SelectedIDs = append(s.SelectedIDs, e.ID)
		return s
	}

	// Full: the oldest comparison partner makes room, the primary stays.
	next := make([]string, 0, MaxSelected)
	next = append(next, s.SelectedIDs[0])
	next = append(next, s.SelectedIDs[2:]...)
	s.SelectedIDs = append(next, e.ID)
	return s
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
