package swbuf

import (
	"errors"
	"fmt"

	"github.com/gogpu/swbuf/internal/damage"
	"github.com/gogpu/swbuf/pixfmt"
)

// Buffer grants exclusive access to a surface's back slot for one frame.
//
// A Buffer is obtained from Surface.BufferMut and is consumed by Present,
// PresentWithDamage or Discard. Any use after that panics, as does
// acquiring a second Buffer while one is outstanding.
type Buffer struct {
	s      *Surface
	slot   int
	pixels []Pixel

	width, height int
	age           uint8
	done          bool
}

func (b *Buffer) live() {
	if b.done {
		panic("swbuf: use of consumed Buffer")
	}
}

// consume ends the handle's life and returns its surface.
func (b *Buffer) consume() *Surface {
	b.live()
	b.done = true
	s := b.s
	if s.out == b {
		s.out = nil
	}
	return s
}

// Pixels returns the slot's Width*Height pixels in row-major order.
func (b *Buffer) Pixels() []Pixel {
	b.live()
	return b.pixels
}

// PixelsMut returns the slot's pixels for writing. It is the same memory
// as Pixels.
func (b *Buffer) PixelsMut() []Pixel {
	b.live()
	return b.pixels
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Stride returns the distance between rows in pixels.
func (b *Buffer) Stride() int { return b.width }

// Age reports how stale the contents are: 0 means indeterminate, 1 means
// identical to the screen, N means they were shown N frames ago. Callers
// may use it with Damage to redraw only what changed.
func (b *Buffer) Age() uint8 { return b.age }

// Damage returns the region that changed since the contents were on
// screen. The second result is false if the whole buffer must be redrawn.
func (b *Buffer) Damage() (Rect, bool) {
	b.live()
	return b.s.history.Since(b.age)
}

// At returns the pixel at (x, y).
func (b *Buffer) At(x, y int) Pixel {
	b.live()
	return b.pixels[y*b.width+x]
}

// Set writes the pixel at (x, y).
func (b *Buffer) Set(x, y int, p Pixel) {
	b.live()
	b.pixels[y*b.width+x] = p
}

// Fill sets every pixel to p.
func (b *Buffer) Fill(p Pixel) {
	b.live()
	for i := range b.pixels {
		b.pixels[i] = p
	}
}

// WritePixels converts width x height pixels of format f from src, whose
// rows are stride bytes apart (0 for tightly packed), into the top-left
// corner of the buffer. srcAlpha describes src; the surface's alpha mode
// is the target. Rows and columns beyond the buffer are ignored.
//
// Writing Premultiplied or Postmultiplied pixels into an Opaque surface
// panics, since the alpha would be lost. An unknown format or alpha mode
// matches ErrUnimplemented; a src too short for its dimensions matches
// ErrSizeOutOfRange.
func (b *Buffer) WritePixels(src []byte, stride, width, height int, f pixfmt.Format, srcAlpha AlphaMode) error {
	b.live()
	err := pixfmt.Convert(
		pixfmt.Dest{Pixels: b.pixels, Width: b.width, Height: b.height, Alpha: b.s.alpha},
		pixfmt.Source{Data: src, Stride: stride, Width: width, Height: height, Format: f, Alpha: srcAlpha},
	)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pixfmt.ErrUnknownFormat), errors.Is(err, pixfmt.ErrUnknownAlphaMode):
		return fmt.Errorf("%w: %w", ErrUnimplemented, err)
	default:
		return fmt.Errorf("%w: %w", ErrSizeOutOfRange, err)
	}
}

// Present shows the whole buffer. It is PresentWithDamage with a single
// rect covering the surface.
func (b *Buffer) Present() error {
	return b.PresentWithDamage([]Rect{damage.Whole(b.width, b.height)})
}

// PresentWithDamage shows the buffer, telling the backend that only rects
// changed. The buffer is consumed even when an error is returned.
//
// Every rect must have positive size and lie within the buffer, otherwise
// a *DamageError is returned and nothing is submitted. After a successful
// submission the buffer's slot becomes the front slot with age 1.
//
// An empty rects slice presents nothing: no submission, no swap and no
// age change.
func (b *Buffer) PresentWithDamage(rects []Rect) error {
	s := b.consume()
	if len(rects) == 0 {
		return nil
	}
	return s.present(b, rects)
}

// Discard gives the buffer back without presenting. The slot may hold
// partial writes, so its age drops to 0.
func (b *Buffer) Discard() {
	s := b.consume()
	if !s.closed {
		s.slots[b.slot].age = 0
	}
}
