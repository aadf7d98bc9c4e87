package indicator

import "sort"

// Placement is one tab as measured by a layout pass.
type Placement struct {
	Key  string
	Rect Rect
}

// Registry maps tab keys to their last measured rect.
// The zero value is not usable; call NewRegistry.
type Registry struct {
	rects map[string]Rect
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rects: make(map[string]Rect)}
}

// Register records the rect for key. Re-registering overwrites.
func (r *Registry) Register(key string, rect Rect) {
	r.rects[key] = rect
}

// Unregister drops key and reports whether it was present.
func (r *Registry) Unregister(key string) bool {
	if _, ok := r.rects[key]; !ok {
		return false
	}
	delete(r.rects, key)
	return true
}

// Lookup returns the rect registered for key.
func (r *Registry) Lookup(key string) (Rect, bool) {
	rect, ok := r.rects[key]
	return rect, ok
}

// Len returns the number of registered tabs.
func (r *Registry) Len() int {
	return len(r.rects)
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.rects))
	for k := range r.rects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HitTest returns the key whose rect contains column x.
func (r *Registry) HitTest(x int) (string, bool) {
	for _, k := range r.Keys() {
		if r.rects[k].Contains(x) {
			return k, true
		}
	}
	return "", false
}

// Clear drops every entry.
func (r *Registry) Clear() {
	clear(r.rects)
}
