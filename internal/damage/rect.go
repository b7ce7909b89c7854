// Package damage implements the geometry used for partial presentation:
// damage rectangles, their validation against a surface, and the reduction
// of a damage set to a single bounding region.
package damage

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrOutOfRange is returned when a rectangle is empty, overflows the uint32
// coordinate space, or does not lie within the surface.
var ErrOutOfRange = errors.New("damage: rect out of range")

// Rect is a damaged region in surface pixel coordinates.
//
// X and Y are the top-left corner. Width and Height must be positive for the
// rect to be valid; a zero-area rect is never valid damage.
type Rect struct {
	X      uint32
	Y      uint32
	Width  uint32
	Height uint32
}

// Whole returns the rect covering an entire width x height surface.
func Whole(width, height int) Rect {
	return Rect{Width: clampU32(width), Height: clampU32(height)}
}

// Right returns X+Width. The result cannot overflow.
func (r Rect) Right() uint64 {
	return uint64(r.X) + uint64(r.Width)
}

// Bottom returns Y+Height. The result cannot overflow.
func (r Rect) Bottom() uint64 {
	return uint64(r.Y) + uint64(r.Height)
}

// Empty reports whether the rect has zero area.
func (r Rect) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

// Area returns Width*Height.
func (r Rect) Area() uint64 {
	return uint64(r.Width) * uint64(r.Height)
}

// Contains reports whether o lies entirely within r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Image returns r as an image.Rectangle.
// Coordinates beyond math.MaxInt32 saturate.
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(ToInt32Saturating(uint64(r.X))),
		int(ToInt32Saturating(uint64(r.Y))),
		int(ToInt32Saturating(r.Right())),
		int(ToInt32Saturating(r.Bottom())),
	)
}

// String implements fmt.Stringer.
func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Validate checks that r is non-empty, that X+Width and Y+Height fit in
// uint32, and that r lies within a width x height surface.
func Validate(r Rect, width, height int) error {
	if r.Empty() {
		return fmt.Errorf("%w: %v is empty", ErrOutOfRange, r)
	}
	if r.Right() > math.MaxUint32 || r.Bottom() > math.MaxUint32 {
		return fmt.Errorf("%w: %v overflows", ErrOutOfRange, r)
	}
	if width < 0 || height < 0 || r.Right() > uint64(width) || r.Bottom() > uint64(height) {
		return fmt.Errorf("%w: %v outside %dx%d", ErrOutOfRange, r, width, height)
	}
	return nil
}

// FitsInt32 reports whether every edge of r is representable as an int32.
// Backends whose native coordinate space is signed 32-bit use this to reject
// damage before touching the display.
func FitsInt32(r Rect) bool {
	return r.Right() <= math.MaxInt32 && r.Bottom() <= math.MaxInt32
}

// ToInt32Saturating converts v to int32, saturating at math.MaxInt32.
func ToInt32Saturating(v uint64) int32 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(v)
}

func clampU32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if uint64(v) > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
