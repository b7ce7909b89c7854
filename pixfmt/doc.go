// Package pixfmt defines the canonical 32-bit pixel used by swbuf surfaces
// and converts pixels from foreign encodings into it.
//
// # Canonical pixel
//
// [Pixel] holds four 8-bit channels. Its in-memory byte order follows the
// host, so that a []Pixel can be reinterpreted as packed 32-bit words with
// [AsWords] and handed to display APIs without copying:
//
//   - little-endian hosts: B, G, R, A (the word reads 0xAARRGGBB)
//   - big-endian hosts:    R, G, B, A (the word reads 0xRRGGBBAA)
//
// # Conversion
//
// [Convert] normalizes rows of any [Format] into canonical pixels while
// translating between [AlphaMode] conventions:
//
//	err := pixfmt.Convert(
//	    pixfmt.Dest{Pixels: buf, Width: w, Height: h, Alpha: pixfmt.AlphaPremultiplied},
//	    pixfmt.Source{Data: rgba, Width: w, Height: h, Format: pixfmt.FormatRgba8, Alpha: pixfmt.AlphaPostmultiplied},
//	)
//
// Alpha is converted at the source precision, before narrowing to 8 bits.
// Converting premultiplied or postmultiplied data to [AlphaOpaque] is a
// contract violation and panics: there is no policy for discarding alpha.
package pixfmt
