package pixfmt

import "unsafe"

// Layout names a byte order for 4x8-bit pixels in memory.
type Layout uint8

const (
	// LayoutBGRA8 stores blue, green, red, alpha at increasing addresses.
	LayoutBGRA8 Layout = iota

	// LayoutRGBA8 stores red, green, blue, alpha at increasing addresses.
	LayoutRGBA8
)

// String returns the layout name.
func (l Layout) String() string {
	switch l {
	case LayoutBGRA8:
		return "BGRA8"
	case LayoutRGBA8:
		return "RGBA8"
	default:
		return "Unknown"
	}
}

// Format returns the source Format with the same byte order, so canonical
// pixel memory can itself be fed back into Convert.
func (l Layout) Format() Format {
	if l == LayoutRGBA8 {
		return FormatRgba8
	}
	return FormatBgra8
}

// RGB returns an opaque pixel.
func RGB(r, g, b uint8) Pixel {
	return Pixel{R: r, G: g, B: b, A: 0xff}
}

// RGBA returns a pixel from red, green, blue and alpha.
func RGBA(r, g, b, a uint8) Pixel {
	return Pixel{R: r, G: g, B: b, A: a}
}

// BGRA returns a pixel from blue, green, red and alpha.
func BGRA(b, g, r, a uint8) Pixel {
	return Pixel{R: r, G: g, B: b, A: a}
}

// Uint32 reinterprets the pixel as a native-endian 32-bit word.
func (p Pixel) Uint32() uint32 {
	return *(*uint32)(unsafe.Pointer(&p))
}

// FromUint32 reinterprets a native-endian 32-bit word as a pixel.
func FromUint32(w uint32) Pixel {
	return *(*Pixel)(unsafe.Pointer(&w))
}

// AsWords reinterprets pixels as 32-bit words without copying.
func AsWords(px []Pixel) []uint32 {
	if len(px) == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(unsafe.SliceData(px))), len(px))
}

// AsBytes reinterprets pixels as bytes in NativeLayout order without copying.
func AsBytes(px []Pixel) []byte {
	if len(px) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(px))), len(px)*4)
}
