package tabbar

// Selection holds the selected artist id; "" selects the "All" tab.
// It belongs to whoever filters the reviews, not to the Controller.
type Selection struct {
	current string
}

// NewSelection returns a selection starting at id.
func NewSelection(id string) *Selection {
	return &Selection{current: id}
}

// Current returns the selected artist id.
func (s *Selection) Current() string {
	return s.current
}

// Set changes the selection and reports whether it changed.
func (s *Selection) Set(id string) bool {
	if s.current == id {
		return false
	}
	s.current = id
	return true
}
