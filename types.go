package swbuf

import (
	"slices"

	"github.com/gogpu/swbuf/internal/damage"
	"github.com/gogpu/swbuf/pixfmt"
)

// Rect is a damaged region in surface pixels.
type Rect = damage.Rect

// Pixel is the canonical 32-bit pixel stored in buffers.
type Pixel = pixfmt.Pixel

// AlphaMode selects how the alpha channel of presented pixels is
// interpreted.
type AlphaMode = pixfmt.AlphaMode

// Alpha modes.
const (
	AlphaOpaque         = pixfmt.AlphaOpaque
	AlphaIgnored        = pixfmt.AlphaIgnored
	AlphaPremultiplied  = pixfmt.AlphaPremultiplied
	AlphaPostmultiplied = pixfmt.AlphaPostmultiplied
)

// Frame is one presentation handed to a backend.
type Frame struct {
	// Slot identifies the storage slot; it matches the slot passed to
	// Releaser.WaitReleased.
	Slot int

	// Pixels holds Width*Height pixels, row-major, stride Width.
	// Backends that retain slots may keep reading Pixels until the slot
	// is released; others must copy before Submit returns.
	Pixels []Pixel

	Width, Height int
	Alpha         AlphaMode

	// Damage lists the changed regions. It is never empty and every rect
	// lies within Width x Height. Backends with SingleDamageRegion receive
	// exactly one rect.
	Damage []Rect
}

// Capabilities describes what a surface backend supports.
type Capabilities struct {
	// SingleDamageRegion means the backend accepts one damage rect per
	// frame; multi-rect damage is reduced to its bounding box first.
	SingleDamageRegion bool

	// RetainsSlots means the backend reads slot memory after Submit returns
	// and signals completion through Releaser.
	RetainsSlots bool

	// MaxWidth and MaxHeight bound surface dimensions; zero means no limit
	// beyond addressability.
	MaxWidth, MaxHeight int

	// AlphaModes lists supported modes besides AlphaOpaque and
	// AlphaIgnored, which every backend accepts.
	AlphaModes []AlphaMode
}

// SupportsAlpha reports whether the backend can present in mode m.
func (c Capabilities) SupportsAlpha(m AlphaMode) bool {
	if m == AlphaOpaque || m == AlphaIgnored {
		return true
	}
	return slices.Contains(c.AlphaModes, m)
}
