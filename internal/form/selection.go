package form

// ItemSelection is the toggle-based set of selected item ids. Membership is
// unique; snapshot order is ascending insertion order, so the same toggle
// sequence always yields the same snapshot.
type ItemSelection struct {
	order   []int
	members map[int]struct{}
}

// NewItemSelection creates an empty selection.
func NewItemSelection() *ItemSelection {
	return &ItemSelection{members: make(map[int]struct{})}
}

// Toggle adds the id if absent and removes it if present, returning the new
// membership state. Toggling the same id twice restores the prior state.
func (s *ItemSelection) Toggle(id int) bool {
	if _, ok := s.members[id]; ok {
		delete(s.members, id)
		for i, existing := range s.order {
			if existing == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return false
	}

	s.members[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Contains reports whether the id is currently selected.
func (s *ItemSelection) Contains(id int) bool {
	_, ok := s.members[id]
	return ok
}

// Snapshot returns the selected ids in insertion order.
func (s *ItemSelection) Snapshot() []int {
	out := make([]int, len(s.order))
	copy(out, s.order)
	return out
}

// Reset clears the selection.
func (s *ItemSelection) Reset() {
	s.order = nil
	s.members = make(map[int]struct{})
}
