package pixfmt

// Shifts gives the bit position of each channel inside a Pixel word.
type Shifts struct {
	R, G, B, A uint
}

// WordShifts reports where each channel sits in the 32-bit word obtained
// from Pixel.Uint32 or AsWords. Display APIs that describe their pixel
// format as channel masks compare against these.
func WordShifts() Shifts {
	return NativeLayout.Shifts()
}

// Shifts reports the word bit positions of a pixel stored in layout l and
// read as a host-order uint32.
func (l Layout) Shifts() Shifts {
	if l == LayoutRGBA8 {
		return Shifts{R: 24, G: 16, B: 8, A: 0}
	}
	return Shifts{R: 16, G: 8, B: 0, A: 24}
}

// Word packs channels at the given shifts, independent of host layout.
func (s Shifts) Word(p Pixel) uint32 {
	return uint32(p.R)<<s.R | uint32(p.G)<<s.G | uint32(p.B)<<s.B | uint32(p.A)<<s.A
}
