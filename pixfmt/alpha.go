package pixfmt

import "fmt"

// AlphaMode is the convention by which a pixel's alpha channel relates to
// its color channels.
type AlphaMode uint8

const (
	// AlphaOpaque means the content is fully opaque. The alpha channel of
	// canonical pixels is expected to be 0xff.
	AlphaOpaque AlphaMode = iota

	// AlphaIgnored means the display ignores the alpha channel entirely.
	// For writing purposes it behaves like AlphaOpaque.
	AlphaIgnored

	// AlphaPremultiplied means color channels are already scaled by alpha.
	AlphaPremultiplied

	// AlphaPostmultiplied means color channels are independent of alpha
	// (straight alpha).
	AlphaPostmultiplied
)

// String returns the mode name.
func (m AlphaMode) String() string {
	switch m {
	case AlphaOpaque:
		return "Opaque"
	case AlphaIgnored:
		return "Ignored"
	case AlphaPremultiplied:
		return "Premultiplied"
	case AlphaPostmultiplied:
		return "Postmultiplied"
	default:
		return fmt.Sprintf("AlphaMode(%d)", uint8(m))
	}
}

// IsValid reports whether m is one of the defined modes.
func (m AlphaMode) IsValid() bool {
	return m <= AlphaPostmultiplied
}

// writing maps a mode to the convention used when producing pixels.
func (m AlphaMode) writing() AlphaMode {
	if m == AlphaIgnored {
		return AlphaOpaque
	}
	return m
}

// ContractError is the panic value raised when a conversion would have to
// discard alpha information.
type ContractError struct {
	From, To AlphaMode
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("pixfmt: cannot convert %v alpha to %v without losing alpha", e.From, e.To)
}

// alphaOp is the per-pixel alpha transformation selected from a
// source/destination mode pair.
type alphaOp uint8

const (
	alphaKeep alphaOp = iota
	alphaForceOpaque
	alphaPremultiply
	alphaUnpremultiply
)

// selectAlphaOp implements the conversion table between alpha modes.
// It panics with *ContractError for (Pre|Post) -> Opaque.
func selectAlphaOp(src, dst AlphaMode) alphaOp {
	src, dst = src.writing(), dst.writing()
	switch {
	case src == dst:
		return alphaKeep
	case src == AlphaOpaque:
		return alphaForceOpaque
	case dst == AlphaOpaque:
		panic(&ContractError{From: src, To: dst})
	case src == AlphaPostmultiplied:
		return alphaPremultiply
	default:
		return alphaUnpremultiply
	}
}

// Premultiply scales an 8-bit color channel by alpha, truncating.
func Premultiply(v, a uint8) uint8 {
	return uint8(premul(uint32(v), uint32(a), 0xff))
}

// Unpremultiply divides an 8-bit color channel by alpha, truncating and
// saturating at 0xff. Zero alpha yields zero.
func Unpremultiply(v, a uint8) uint8 {
	return uint8(unpremul(uint32(v), uint32(a), 0xff))
}

func premul(v, a, maxv uint32) uint32 {
	return uint32(uint64(v) * uint64(a) / uint64(maxv))
}

func unpremul(v, a, maxv uint32) uint32 {
	if a == 0 {
		return 0
	}
	return uint32(min(uint64(v)*uint64(maxv)/uint64(a), uint64(maxv)))
}

func premulF(v, a float32) float32 {
	return v * a
}

func unpremulF(v, a float32) float32 {
	if a <= 0 {
		return 0
	}
	return min(v/a, 1)
}
