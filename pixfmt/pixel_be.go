//go:build armbe || arm64be || m68k || mips || mips64 || mips64p32 || ppc || ppc64 || s390 || s390x || shbe || sparc || sparc64

package pixfmt

// NativeLayout is the in-memory byte order of Pixel on this host.
const NativeLayout = LayoutRGBA8

// Pixel is the canonical 32-bit pixel. Construct it with keyed fields or the
// RGB/RGBA/BGRA helpers; field order follows NativeLayout.
type Pixel struct {
	_ [0]uint32 // word alignment for AsWords

	R uint8
	G uint8
	B uint8
	A uint8
}
