package pixfmt

// Format identifies a source pixel encoding accepted by Convert.
//
// Names list channels in memory order for byte-aligned formats (Rgba8 is
// R at the lowest address) and from most to least significant bit for packed
// formats (R5G6B5 has red in bits 15-11 of a 16-bit word). Channels and
// packed words wider than one byte are read in host byte order, as if the
// buffer were reinterpreted as an array of uint16/uint32/float32.
//
// The single-channel R formats are grayscale: the value is replicated into
// red, green and blue. R1, R2 and R4 hold several pixels per byte, most
// significant bits first.
type Format uint8

const (
	// Grayscale.
	FormatR1 Format = iota
	FormatR2
	FormatR4
	FormatR8
	FormatR16
	FormatR32F

	// 8 bits per channel.
	FormatRgb8
	FormatBgr8
	FormatRgba8
	FormatBgra8
	FormatArgb8
	FormatAbgr8
	FormatRgbx8
	FormatBgrx8
	FormatXrgb8
	FormatXbgr8

	// Wide integer and floating point.
	FormatRgb16
	FormatRgba16
	FormatBgra16
	FormatRgba16F
	FormatRgb32F
	FormatRgba32F

	// Packed words.
	FormatR5G6B5
	FormatB5G6R5
	FormatR4G4B4A4
	FormatA4R4G4B4
	FormatR5G5B5A1
	FormatA1R5G5B5
	FormatR10G10B10A2
	FormatA2R10G10B10
	FormatA2B10G10R10

	// formatCount is the number of formats (for internal use).
	formatCount
)

// Class groups formats by how components are extracted.
type Class uint8

const (
	// ClassAligned formats have byte- or word-aligned channels.
	ClassAligned Class = iota

	// ClassPacked formats store all channels as bitfields of one word.
	ClassPacked

	// ClassSubByte formats store several grayscale pixels per byte.
	ClassSubByte
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	// Name is the format name.
	Name string

	// BitsPerPixel is the storage size of one pixel, padding included.
	BitsPerPixel int

	// Channels is the number of meaningful channels (padding excluded).
	Channels int

	// BitsPerChannel is the width of the widest channel.
	BitsPerChannel int

	// HasAlpha indicates the format carries an alpha channel.
	HasAlpha bool

	// Float indicates channels are IEEE floating point.
	Float bool

	// Gray indicates a single luminance channel.
	Gray bool

	// Class is the extraction class.
	Class Class
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatR1:   {Name: "R1", BitsPerPixel: 1, Channels: 1, BitsPerChannel: 1, Gray: true, Class: ClassSubByte},
	FormatR2:   {Name: "R2", BitsPerPixel: 2, Channels: 1, BitsPerChannel: 2, Gray: true, Class: ClassSubByte},
	FormatR4:   {Name: "R4", BitsPerPixel: 4, Channels: 1, BitsPerChannel: 4, Gray: true, Class: ClassSubByte},
	FormatR8:   {Name: "R8", BitsPerPixel: 8, Channels: 1, BitsPerChannel: 8, Gray: true},
	FormatR16:  {Name: "R16", BitsPerPixel: 16, Channels: 1, BitsPerChannel: 16, Gray: true},
	FormatR32F: {Name: "R32F", BitsPerPixel: 32, Channels: 1, BitsPerChannel: 32, Gray: true, Float: true},

	FormatRgb8:  {Name: "Rgb8", BitsPerPixel: 24, Channels: 3, BitsPerChannel: 8},
	FormatBgr8:  {Name: "Bgr8", BitsPerPixel: 24, Channels: 3, BitsPerChannel: 8},
	FormatRgba8: {Name: "Rgba8", BitsPerPixel: 32, Channels: 4, BitsPerChannel: 8, HasAlpha: true},
	FormatBgra8: {Name: "Bgra8", BitsPerPixel: 32, Channels: 4, BitsPerChannel: 8, HasAlpha: true},
	FormatArgb8: {Name: "Argb8", BitsPerPixel: 32, Channels: 4, BitsPerChannel: 8, HasAlpha: true},
	FormatAbgr8: {Name: "Abgr8", BitsPerPixel: 32, Channels: 4, BitsPerChannel: 8, HasAlpha: true},
	FormatRgbx8: {Name: "Rgbx8", BitsPerPixel: 32, Channels: 3, BitsPerChannel: 8},
	FormatBgrx8: {Name: "Bgrx8", BitsPerPixel: 32, Channels: 3, BitsPerChannel: 8},
	FormatXrgb8: {Name: "Xrgb8", BitsPerPixel: 32, Channels: 3, BitsPerChannel: 8},
	FormatXbgr8: {Name: "Xbgr8", BitsPerPixel: 32, Channels: 3, BitsPerChannel: 8},

	FormatRgb16:   {Name: "Rgb16", BitsPerPixel: 48, Channels: 3, BitsPerChannel: 16},
	FormatRgba16:  {Name: "Rgba16", BitsPerPixel: 64, Channels: 4, BitsPerChannel: 16, HasAlpha: true},
	FormatBgra16:  {Name: "Bgra16", BitsPerPixel: 64, Channels: 4, BitsPerChannel: 16, HasAlpha: true},
	FormatRgba16F: {Name: "Rgba16F", BitsPerPixel: 64, Channels: 4, BitsPerChannel: 16, HasAlpha: true, Float: true},
	FormatRgb32F:  {Name: "Rgb32F", BitsPerPixel: 96, Channels: 3, BitsPerChannel: 32, Float: true},
	FormatRgba32F: {Name: "Rgba32F", BitsPerPixel: 128, Channels: 4, BitsPerChannel: 32, HasAlpha: true, Float: true},

	FormatR5G6B5:      {Name: "R5G6B5", BitsPerPixel: 16, Channels: 3, BitsPerChannel: 6, Class: ClassPacked},
	FormatB5G6R5:      {Name: "B5G6R5", BitsPerPixel: 16, Channels: 3, BitsPerChannel: 6, Class: ClassPacked},
	FormatR4G4B4A4:    {Name: "R4G4B4A4", BitsPerPixel: 16, Channels: 4, BitsPerChannel: 4, HasAlpha: true, Class: ClassPacked},
	FormatA4R4G4B4:    {Name: "A4R4G4B4", BitsPerPixel: 16, Channels: 4, BitsPerChannel: 4, HasAlpha: true, Class: ClassPacked},
	FormatR5G5B5A1:    {Name: "R5G5B5A1", BitsPerPixel: 16, Channels: 4, BitsPerChannel: 5, HasAlpha: true, Class: ClassPacked},
	FormatA1R5G5B5:    {Name: "A1R5G5B5", BitsPerPixel: 16, Channels: 4, BitsPerChannel: 5, HasAlpha: true, Class: ClassPacked},
	FormatR10G10B10A2: {Name: "R10G10B10A2", BitsPerPixel: 32, Channels: 4, BitsPerChannel: 10, HasAlpha: true, Class: ClassPacked},
	FormatA2R10G10B10: {Name: "A2R10G10B10", BitsPerPixel: 32, Channels: 4, BitsPerChannel: 10, HasAlpha: true, Class: ClassPacked},
	FormatA2B10G10R10: {Name: "A2B10G10R10", BitsPerPixel: 32, Channels: 4, BitsPerChannel: 10, HasAlpha: true, Class: ClassPacked},
}

// Info returns the FormatInfo for this format.
// Unknown formats return the zero FormatInfo.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// IsValid returns true if the format is a valid known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// String returns the format name.
func (f Format) String() string {
	if !f.IsValid() {
		return "Unknown"
	}
	return formatInfoTable[f].Name
}

// HasAlpha returns true if this format has an alpha channel.
func (f Format) HasAlpha() bool {
	return f.Info().HasAlpha
}

// RowBytes returns the number of bytes occupied by width tightly packed
// pixels, rounding partial bytes of sub-byte formats up.
func (f Format) RowBytes(width int) int {
	return (width*f.Info().BitsPerPixel + 7) / 8
}

// Formats returns every known format in declaration order.
func Formats() []Format {
	out := make([]Format, formatCount)
	for i := range out {
		out[i] = Format(i)
	}
	return out
}
