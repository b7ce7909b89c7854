package damage

// History remembers the damage of recent presentations so that a caller
// holding a buffer of age N can redraw only what changed in the last N
// frames instead of the whole surface.
//
// History is not safe for concurrent use.
type History struct {
	// ring holds one bounding rect per presented frame, newest at head-1.
	ring  []Rect
	head  int
	count int
}

// NewHistory creates a history that tracks up to depth frames.
// A depth below 1 is raised to 1.
func NewHistory(depth int) *History {
	if depth < 1 {
		depth = 1
	}
	return &History{ring: make([]Rect, depth)}
}

// Depth returns the number of frames the history can answer for.
func (h *History) Depth() int {
	return len(h.ring)
}

// Push records the bounding damage of one presented frame.
func (h *History) Push(r Rect) {
	h.ring[h.head] = r
	h.head = (h.head + 1) % len(h.ring)
	if h.count < len(h.ring) {
		h.count++
	}
}

// Reset forgets all recorded frames, typically after a resize.
func (h *History) Reset() {
	h.head = 0
	h.count = 0
}

// Since returns the union of damage presented after a buffer of the given
// age was last on screen. A buffer of age N missed the N-1 most recent
// frames, so age 1 yields an empty rect: its contents equal the screen.
//
// The second result is false when the history cannot answer, which happens
// for age 0 (indeterminate contents) or an age deeper than the history; the
// caller must then redraw everything.
func (h *History) Since(age uint8) (Rect, bool) {
	if age == 0 || int(age)-1 > h.count {
		return Rect{}, false
	}
	n := int(age) - 1
	if n == 0 {
		return Rect{}, true
	}
	rects := make([]Rect, 0, n)
	for i := 1; i <= n; i++ {
		idx := (h.head - i + len(h.ring)) % len(h.ring)
		rects = append(rects, h.ring[idx])
	}
	return Union(rects)
}
