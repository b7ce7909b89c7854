// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package fbdev is a swbuf backend for the Linux framebuffer device.
//
// The device memory is mapped once per Context. Submit writes damaged rows
// straight into the mapping, converting from canonical pixels to the
// device's bitfield layout, so surfaces never retain slots.
//
//	ctx, _ := swbuf.NewContext(&fbdev.Display{Path: "/dev/fb0"})
//	s, _ := swbuf.NewSurface(ctx, fbdev.Window{}, swbuf.WithSize(640, 480))
//
// On systems other than Linux the driver is not registered.
package fbdev

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/swbuf"
	"github.com/gogpu/swbuf/pixfmt"
)

// Name is the driver name.
const Name = "fbdev"

// DefaultPath is the device opened when Display.Path is empty.
const DefaultPath = "/dev/fb0"

// Display names the framebuffer device.
type Display struct {
	Path string
}

// Window places a surface on the screen. X and Y are the pixel position of
// the surface's top-left corner.
type Window struct {
	X, Y int
}

// Bitfield is one channel of a packed true-color pixel.
type Bitfield struct {
	Offset, Length uint32
}

// Layout describes how the device stores one pixel.
type Layout struct {
	BitsPerPixel     int
	Red, Green, Blue Bitfield
	Transp           Bitfield
}

// Validate reports layouts this package cannot encode.
func (l Layout) Validate() error {
	switch l.BitsPerPixel {
	case 16, 24, 32:
	default:
		return fmt.Errorf("fbdev: unsupported depth %d bpp", l.BitsPerPixel)
	}
	for _, f := range []Bitfield{l.Red, l.Green, l.Blue, l.Transp} {
		if f.Length > 8 || f.Offset+f.Length > uint32(l.BitsPerPixel) {
			return fmt.Errorf("fbdev: bitfield %d+%d does not fit %d bpp", f.Offset, f.Length, l.BitsPerPixel)
		}
	}
	return nil
}

// BytesPerPixel returns the storage size of one pixel.
func (l Layout) BytesPerPixel() int { return l.BitsPerPixel / 8 }

// native reports whether the layout is an alpha-less 32-bit word with the
// same channel positions as swbuf.Pixel, so rows can be copied.
func (l Layout) native() bool {
	if l.BitsPerPixel != 32 || l.Transp.Length != 0 {
		return false
	}
	sh := pixfmt.WordShifts()
	return l.Red == Bitfield{uint32(sh.R), 8} && l.Green == Bitfield{uint32(sh.G), 8} &&
		l.Blue == Bitfield{uint32(sh.B), 8}
}

func (f Bitfield) pack(v uint8) uint32 {
	if f.Length == 0 {
		return 0
	}
	return uint32(v>>(8-f.Length)) << f.Offset
}

func (f Bitfield) unpack(w uint32) uint8 {
	if f.Length == 0 {
		return 0
	}
	maxv := uint32(1)<<f.Length - 1
	v := w >> f.Offset & maxv
	return uint8((v*255 + maxv/2) / maxv)
}

// encodeRow writes src into dst in layout l. dst must hold
// len(src)*l.BytesPerPixel() bytes.
func encodeRow(dst []byte, src []swbuf.Pixel, l Layout) {
	if l.native() {
		copy(dst, pixfmt.AsBytes(src))
		return
	}
	bpp := l.BytesPerPixel()
	for i, p := range src {
		w := l.Red.pack(p.R) | l.Green.pack(p.G) | l.Blue.pack(p.B) | l.Transp.pack(0xff)
		putWord(dst[i*bpp:], w, bpp)
	}
}

// decodeRow reads len(dst) pixels in layout l from src.
func decodeRow(dst []swbuf.Pixel, src []byte, l Layout) {
	bpp := l.BytesPerPixel()
	for i := range dst {
		w := word(src[i*bpp:], bpp)
		dst[i] = swbuf.Pixel{R: l.Red.unpack(w), G: l.Green.unpack(w), B: l.Blue.unpack(w), A: 0xff}
	}
}

// Framebuffer memory is in host byte order, except that 24-bit pixels are
// always stored least significant byte first.
func putWord(b []byte, w uint32, bpp int) {
	switch bpp {
	case 2:
		binary.NativeEndian.PutUint16(b, uint16(w))
	case 4:
		binary.NativeEndian.PutUint32(b, w)
	default:
		b[0], b[1], b[2] = byte(w), byte(w>>8), byte(w>>16)
	}
}

func word(b []byte, bpp int) uint32 {
	switch bpp {
	case 2:
		return uint32(binary.NativeEndian.Uint16(b))
	case 4:
		return binary.NativeEndian.Uint32(b)
	default:
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	}
}

// screen is a mapped framebuffer.
type screen struct {
	mem        []byte
	width      int
	height     int
	lineLength int
	layout     Layout
}

func (s *screen) capabilities(w Window) swbuf.Capabilities {
	return swbuf.Capabilities{
		MaxWidth:  max(s.width-w.X, 1),
		MaxHeight: max(s.height-w.Y, 1),
	}
}

func (s *screen) write(w Window, f swbuf.Frame) {
	bpp := s.layout.BytesPerPixel()
	for _, r := range f.Damage {
		ir := r.Image()
		for y := ir.Min.Y; y < ir.Max.Y; y++ {
			off := (w.Y+y)*s.lineLength + (w.X+ir.Min.X)*bpp
			encodeRow(s.mem[off:off+ir.Dx()*bpp], f.Pixels[y*f.Width+ir.Min.X:y*f.Width+ir.Max.X], s.layout)
		}
	}
}

func (s *screen) read(w Window, width, height int) []swbuf.Pixel {
	out := make([]swbuf.Pixel, width*height)
	bpp := s.layout.BytesPerPixel()
	for y := range min(height, s.height-w.Y) {
		n := min(width, s.width-w.X)
		off := (w.Y+y)*s.lineLength + w.X*bpp
		decodeRow(out[y*width:y*width+n], s.mem[off:off+n*bpp], s.layout)
	}
	return out
}
