package damage

// Union returns the smallest rect containing every rect in rects.
// The second result is false when rects is empty, meaning "no damage".
//
// Inputs are assumed valid (see Validate): each has positive area, so a
// non-empty union always has positive area too.
func Union(rects []Rect) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}

	left, top := uint64(rects[0].X), uint64(rects[0].Y)
	right, bottom := rects[0].Right(), rects[0].Bottom()
	for _, r := range rects[1:] {
		left = min(left, uint64(r.X))
		top = min(top, uint64(r.Y))
		right = max(right, r.Right())
		bottom = max(bottom, r.Bottom())
	}

	//nolint:gosec // G115: validated rects keep every edge within uint32
	return Rect{
		X:      uint32(left),
		Y:      uint32(top),
		Width:  uint32(right - left),
		Height: uint32(bottom - top),
	}, true
}
