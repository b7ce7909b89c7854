package pixfmt

import (
	"encoding/binary"
	"math"

	"github.com/x448/float16"
)

// sample is one decoded pixel at the source's working precision: every
// channel lies in [0, maxv] where maxv is 0xff or 0xffff.
type sample struct {
	r, g, b, a uint32
}

// sampleF is one decoded floating point pixel, nominally in [0, 1].
type sampleF struct {
	r, g, b, a float32
}

// bitfield locates one channel inside a packed word.
type bitfield struct {
	shift, bits uint8
}

func (f bitfield) extract(w uint32) uint32 {
	return (w >> f.shift) & (1<<f.bits - 1)
}

// channelMap gives the index of each channel within an aligned pixel.
// A negative alpha index means the format has no alpha.
type channelMap struct {
	r, g, b, a int8
}

var alignedMaps = map[Format]channelMap{
	FormatR8:      {0, 0, 0, -1},
	FormatR16:     {0, 0, 0, -1},
	FormatR32F:    {0, 0, 0, -1},
	FormatRgb8:    {0, 1, 2, -1},
	FormatBgr8:    {2, 1, 0, -1},
	FormatRgba8:   {0, 1, 2, 3},
	FormatBgra8:   {2, 1, 0, 3},
	FormatArgb8:   {1, 2, 3, 0},
	FormatAbgr8:   {3, 2, 1, 0},
	FormatRgbx8:   {0, 1, 2, -1},
	FormatBgrx8:   {2, 1, 0, -1},
	FormatXrgb8:   {1, 2, 3, -1},
	FormatXbgr8:   {3, 2, 1, -1},
	FormatRgb16:   {0, 1, 2, -1},
	FormatRgba16:  {0, 1, 2, 3},
	FormatBgra16:  {2, 1, 0, 3},
	FormatRgba16F: {0, 1, 2, 3},
	FormatRgb32F:  {0, 1, 2, -1},
	FormatRgba32F: {0, 1, 2, 3},
}

// packedLayouts lists r, g, b, a bitfields; a zero-width alpha means none.
var packedLayouts = map[Format][4]bitfield{
	FormatR5G6B5:      {{11, 5}, {5, 6}, {0, 5}, {0, 0}},
	FormatB5G6R5:      {{0, 5}, {5, 6}, {11, 5}, {0, 0}},
	FormatR4G4B4A4:    {{12, 4}, {8, 4}, {4, 4}, {0, 4}},
	FormatA4R4G4B4:    {{8, 4}, {4, 4}, {0, 4}, {12, 4}},
	FormatR5G5B5A1:    {{11, 5}, {6, 5}, {1, 5}, {0, 1}},
	FormatA1R5G5B5:    {{10, 5}, {5, 5}, {0, 5}, {15, 1}},
	FormatR10G10B10A2: {{22, 10}, {12, 10}, {2, 10}, {0, 2}},
	FormatA2R10G10B10: {{20, 10}, {10, 10}, {0, 10}, {30, 2}},
	FormatA2B10G10R10: {{0, 10}, {10, 10}, {20, 10}, {30, 2}},
}

// rescale maps v from a bits-wide field to [0, maxv] proportionally.
func rescale(v uint32, bits uint8, maxv uint32) uint32 {
	return uint32(uint64(v) * uint64(maxv) / uint64(uint32(1)<<bits-1))
}

// decoder extracts pixels of one format. Exactly one of px and pxf is set.
type decoder struct {
	maxv uint32
	px   func(row []byte, x int) sample
	pxf  func(row []byte, x int) sampleF
}

func newDecoder(f Format) decoder {
	info := f.Info()
	bpp := info.BitsPerPixel / 8

	switch info.Class {
	case ClassSubByte:
		bits := uint8(info.BitsPerPixel)
		perByte := 8 / int(bits)
		return decoder{maxv: 0xff, px: func(row []byte, x int) sample {
			shift := 8 - bits*uint8(x%perByte+1)
			v := rescale(uint32(row[x/perByte]>>shift)&(1<<bits-1), bits, 0xff)
			return sample{v, v, v, 0xff}
		}}

	case ClassPacked:
		l := packedLayouts[f]
		maxv := uint32(0xff)
		if info.BitsPerChannel > 8 {
			maxv = 0xffff
		}
		word := func(row []byte, x int) uint32 {
			if bpp == 2 {
				return uint32(binary.NativeEndian.Uint16(row[x*2:]))
			}
			return binary.NativeEndian.Uint32(row[x*4:])
		}
		return decoder{maxv: maxv, px: func(row []byte, x int) sample {
			w := word(row, x)
			s := sample{
				r: rescale(l[0].extract(w), l[0].bits, maxv),
				g: rescale(l[1].extract(w), l[1].bits, maxv),
				b: rescale(l[2].extract(w), l[2].bits, maxv),
				a: maxv,
			}
			if l[3].bits > 0 {
				s.a = rescale(l[3].extract(w), l[3].bits, maxv)
			}
			return s
		}}
	}

	m := alignedMaps[f]
	chanBytes := info.BitsPerChannel / 8

	if info.Float {
		read := func(p []byte, i int8) float32 {
			if chanBytes == 2 {
				return float16.Frombits(binary.NativeEndian.Uint16(p[int(i)*2:])).Float32()
			}
			return math.Float32frombits(binary.NativeEndian.Uint32(p[int(i)*4:]))
		}
		return decoder{pxf: func(row []byte, x int) sampleF {
			p := row[x*bpp:]
			s := sampleF{r: read(p, m.r), g: read(p, m.g), b: read(p, m.b), a: 1}
			if m.a >= 0 {
				s.a = read(p, m.a)
			}
			return s
		}}
	}

	if chanBytes == 2 {
		read := func(p []byte, i int8) uint32 {
			return uint32(binary.NativeEndian.Uint16(p[int(i)*2:]))
		}
		return decoder{maxv: 0xffff, px: func(row []byte, x int) sample {
			p := row[x*bpp:]
			s := sample{r: read(p, m.r), g: read(p, m.g), b: read(p, m.b), a: 0xffff}
			if m.a >= 0 {
				s.a = read(p, m.a)
			}
			return s
		}}
	}

	return decoder{maxv: 0xff, px: func(row []byte, x int) sample {
		p := row[x*bpp:]
		s := sample{r: uint32(p[m.r]), g: uint32(p[m.g]), b: uint32(p[m.b]), a: 0xff}
		if m.a >= 0 {
			s.a = uint32(p[m.a])
		}
		return s
	}}
}

func (s sample) apply(op alphaOp, maxv uint32) sample {
	switch op {
	case alphaForceOpaque:
		s.a = maxv
	case alphaPremultiply:
		s.r = premul(s.r, s.a, maxv)
		s.g = premul(s.g, s.a, maxv)
		s.b = premul(s.b, s.a, maxv)
	case alphaUnpremultiply:
		s.r = unpremul(s.r, s.a, maxv)
		s.g = unpremul(s.g, s.a, maxv)
		s.b = unpremul(s.b, s.a, maxv)
	}
	return s
}

// narrow keeps the high-order 8 bits of each channel.
func (s sample) narrow(maxv uint32) Pixel {
	if maxv == 0xff {
		return Pixel{R: uint8(s.r), G: uint8(s.g), B: uint8(s.b), A: uint8(s.a)}
	}
	return Pixel{R: uint8(s.r >> 8), G: uint8(s.g >> 8), B: uint8(s.b >> 8), A: uint8(s.a >> 8)}
}

func (s sampleF) apply(op alphaOp) sampleF {
	switch op {
	case alphaForceOpaque:
		s.a = 1
	case alphaPremultiply:
		s.r = premulF(s.r, s.a)
		s.g = premulF(s.g, s.a)
		s.b = premulF(s.b, s.a)
	case alphaUnpremultiply:
		s.r = unpremulF(s.r, s.a)
		s.g = unpremulF(s.g, s.a)
		s.b = unpremulF(s.b, s.a)
	}
	return s
}

func (s sampleF) narrow() Pixel {
	return Pixel{R: narrowF(s.r), G: narrowF(s.g), B: narrowF(s.b), A: narrowF(s.a)}
}

// narrowF multiplies by 255 and truncates. NaN and values below zero give
// 0; values above one give 255.
func narrowF(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(v * 255)
}

func (d *decoder) convertRow(out []Pixel, row []byte, op alphaOp) {
	if d.pxf != nil {
		for x := range out {
			out[x] = d.pxf(row, x).apply(op).narrow()
		}
		return
	}
	for x := range out {
		out[x] = d.px(row, x).apply(op, d.maxv).narrow(d.maxv)
	}
}
