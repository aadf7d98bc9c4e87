// Package indicator computes where the selection pill sits relative to the
// tab row. It owns no rendering: tab geometry is measured by the view's
// layout pass and recorded in a Registry, and Resolve turns the selected
// entry into a Span.
package indicator

// AllKey is the registry key of the aggregate "All" tab.
const AllKey = "_all"

// DefaultPad is the inset, in cells, between a tab's edges and the pill's.
const DefaultPad = 1

// Rect is the horizontal extent of a rendered element, in terminal columns.
type Rect struct {
	Left  int
	Width int
}

// Right returns the first column past the rect.
func (r Rect) Right() int {
	return r.Left + r.Width
}

// Contains reports whether column x falls inside the rect.
func (r Rect) Contains(x int) bool {
	return x >= r.Left && x < r.Right()
}

// Span is the pill's placement, relative to the tab row container.
type Span struct {
	Offset int
	Size   int
}

// Key maps a selection to its registry key. The empty selection is "All".
func Key(selection string) string {
	if selection == "" {
		return AllKey
	}
	return selection
}

// Resolve computes the pill span for the tab registered under key.
// It reports false when no tab is registered for key, which covers both an
// unknown artist and a tab that has not been laid out yet.
func Resolve(key string, reg *Registry, container Rect, pad int) (Span, bool) {
	if reg == nil {
		return Span{}, false
	}
	target, ok := reg.Lookup(key)
	if !ok {
		return Span{}, false
	}
	return Span{
		Offset: target.Left - container.Left - pad,
		Size:   target.Width + 2*pad,
	}, true
}
