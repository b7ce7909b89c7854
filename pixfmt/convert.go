package pixfmt

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/swbuf/internal/parallel"
)

var (
	// ErrUnknownFormat is returned for a Format outside the defined set.
	ErrUnknownFormat = errors.New("pixfmt: unknown format")

	// ErrUnknownAlphaMode is returned for an AlphaMode outside the defined set.
	ErrUnknownAlphaMode = errors.New("pixfmt: unknown alpha mode")

	// ErrShortBuffer is returned when a buffer or stride cannot hold the
	// region being converted.
	ErrShortBuffer = errors.New("pixfmt: buffer too short")

	// ErrNoEncoder is returned by EncodeRow for formats it cannot produce.
	ErrNoEncoder = errors.New("pixfmt: no encoder for format")
)

// Source describes foreign pixel data.
type Source struct {
	// Data holds Height rows of pixels in Format.
	Data []byte

	// Stride is the distance between rows in bytes. Zero means rows are
	// tightly packed (Format.RowBytes(Width)).
	Stride int

	Width, Height int
	Format        Format

	// Alpha is the convention of the source alpha channel. It is ignored
	// for formats without alpha.
	Alpha AlphaMode
}

// Dest describes a canonical pixel buffer.
type Dest struct {
	Pixels []Pixel

	// Stride is the distance between rows in pixels. Zero means Width.
	Stride int

	Width, Height int
	Alpha         AlphaMode
}

func (s *Source) stride() int {
	if s.Stride == 0 {
		return s.Format.RowBytes(s.Width)
	}
	return s.Stride
}

func (d *Dest) stride() int {
	if d.Stride == 0 {
		return d.Width
	}
	return d.Stride
}

// Validate checks that Data holds Height rows of Width pixels at Stride.
func (s Source) Validate() error {
	if !s.Format.IsValid() {
		return fmt.Errorf("%w: %v", ErrUnknownFormat, s.Format)
	}
	if !s.Alpha.IsValid() {
		return fmt.Errorf("%w: %v", ErrUnknownAlphaMode, s.Alpha)
	}
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrShortBuffer, s.Width, s.Height)
	}
	return s.check(s.Width, s.Height)
}

// check verifies the top-left width x height region is addressable.
func (s *Source) check(width, height int) error {
	if width == 0 || height == 0 {
		return nil
	}
	stride, rowBytes := s.stride(), s.Format.RowBytes(width)
	if stride < rowBytes || len(s.Data) < (height-1)*stride+rowBytes {
		return fmt.Errorf("%w: source %dx%d %v stride %d in %d bytes",
			ErrShortBuffer, width, height, s.Format, stride, len(s.Data))
	}
	return nil
}

// Convert decodes src into dst, applying the alpha transformation implied
// by the two modes. Only the top-left min(width) x min(height) region is
// written; the rest of dst is left untouched.
//
// Converting Premultiplied or Postmultiplied content into an Opaque
// destination would silently drop alpha, so Convert panics with a
// *ContractError in that case. Sources whose format carries no alpha are
// treated as Opaque.
func Convert(dst Dest, src Source) error {
	if !src.Format.IsValid() {
		return fmt.Errorf("%w: %v", ErrUnknownFormat, src.Format)
	}
	if !src.Alpha.IsValid() {
		return fmt.Errorf("%w: %v", ErrUnknownAlphaMode, src.Alpha)
	}
	if !dst.Alpha.IsValid() {
		return fmt.Errorf("%w: %v", ErrUnknownAlphaMode, dst.Alpha)
	}

	srcAlpha := src.Alpha
	if !src.Format.HasAlpha() {
		srcAlpha = AlphaOpaque
	}
	op := selectAlphaOp(srcAlpha, dst.Alpha)

	width := min(src.Width, dst.Width)
	height := min(src.Height, dst.Height)
	if width <= 0 || height <= 0 {
		return nil
	}

	if err := src.check(width, height); err != nil {
		return err
	}
	srcStride, dstStride := src.stride(), dst.stride()
	rowBytes := src.Format.RowBytes(width)
	if dstStride < width || len(dst.Pixels) < (height-1)*dstStride+width {
		return fmt.Errorf("%w: destination %dx%d stride %d in %d pixels",
			ErrShortBuffer, width, height, dstStride, len(dst.Pixels))
	}

	if src.Format == NativeLayout.Format() && op == alphaKeep {
		for y := range height {
			out := dst.Pixels[y*dstStride : y*dstStride+width]
			copy(AsBytes(out), src.Data[y*srcStride:y*srcStride+rowBytes])
		}
		return nil
	}

	dec := newDecoder(src.Format)
	rows := func(lo, hi int) {
		for y := lo; y < hi; y++ {
			out := dst.Pixels[y*dstStride : y*dstStride+width]
			dec.convertRow(out, src.Data[y*srcStride:y*srcStride+rowBytes], op)
		}
	}
	if width*height < parallelPixels {
		rows(0, height)
		return nil
	}
	workers().Rows(height, max(parallelPixels/(4*width), 1), rows)
	return nil
}

// parallelPixels is the conversion size from which rows are decoded on
// several goroutines.
const parallelPixels = 1 << 18

var workers = sync.OnceValue(func() *parallel.WorkerPool {
	return parallel.NewWorkerPool(0)
})

// byteOrder gives the byte offset of r, g, b, a within a 4-byte pixel; a
// negative alpha offset marks a padding byte written as 0xff. Three-byte
// formats have no alpha slot.
var byteOrder = map[Format][4]int8{
	FormatRgb8:  {0, 1, 2, -1},
	FormatBgr8:  {2, 1, 0, -1},
	FormatRgba8: {0, 1, 2, 3},
	FormatBgra8: {2, 1, 0, 3},
	FormatArgb8: {1, 2, 3, 0},
	FormatAbgr8: {3, 2, 1, 0},
	FormatRgbx8: {0, 1, 2, 3},
	FormatBgrx8: {2, 1, 0, 3},
	FormatXrgb8: {1, 2, 3, 0},
	FormatXbgr8: {3, 2, 1, 0},
}

// EncodeRow writes src into dst in one of the 8-bit RGB byte formats. Pixel
// values, including alpha, are copied as is; padding bytes are set to 0xff.
// dst must hold f.RowBytes(len(src)) bytes.
func EncodeRow(dst []byte, src []Pixel, f Format) error {
	order, ok := byteOrder[f]
	if !ok {
		return fmt.Errorf("%w: %v", ErrNoEncoder, f)
	}
	bpp := f.Info().BitsPerPixel / 8
	if len(dst) < bpp*len(src) {
		return fmt.Errorf("%w: %d pixels of %v in %d bytes", ErrShortBuffer, len(src), f, len(dst))
	}
	padded := !f.HasAlpha()
	for i, p := range src {
		q := dst[i*bpp : i*bpp+bpp]
		q[order[0]] = p.R
		q[order[1]] = p.G
		q[order[2]] = p.B
		if bpp == 4 {
			if padded {
				q[order[3]] = 0xff
			} else {
				q[order[3]] = p.A
			}
		}
	}
	return nil
}
