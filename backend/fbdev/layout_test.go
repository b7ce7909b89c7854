// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fbdev

import (
	"encoding/binary"
	"testing"

	"github.com/gogpu/swbuf"
	"github.com/gogpu/swbuf/pixfmt"
)

var (
	rgb565 = Layout{BitsPerPixel: 16, Red: Bitfield{11, 5}, Green: Bitfield{5, 6}, Blue: Bitfield{0, 5}}
	rgb888 = Layout{BitsPerPixel: 24, Red: Bitfield{16, 8}, Green: Bitfield{8, 8}, Blue: Bitfield{0, 8}}
	argb   = Layout{BitsPerPixel: 32, Red: Bitfield{16, 8}, Green: Bitfield{8, 8}, Blue: Bitfield{0, 8},
		Transp: Bitfield{24, 8}}
)

func nativeLayout() Layout {
	sh := pixfmt.WordShifts()
	return Layout{BitsPerPixel: 32,
		Red:   Bitfield{uint32(sh.R), 8},
		Green: Bitfield{uint32(sh.G), 8},
		Blue:  Bitfield{uint32(sh.B), 8},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		l    Layout
		ok   bool
	}{
		{"rgb565", rgb565, true},
		{"rgb888", rgb888, true},
		{"argb", argb, true},
		{"8bpp", Layout{BitsPerPixel: 8}, false},
		{"wide channel", Layout{BitsPerPixel: 32, Red: Bitfield{0, 10}}, false},
		{"overflow", Layout{BitsPerPixel: 16, Red: Bitfield{12, 5}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.l.Validate(); (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestEncodeRGB565(t *testing.T) {
	dst := make([]byte, 4)
	encodeRow(dst, []swbuf.Pixel{{R: 255, A: 255}, {G: 255, B: 255, A: 255}}, rgb565)

	if got := binary.NativeEndian.Uint16(dst); got != 0xf800 {
		t.Errorf("red = %#04x, want 0xf800", got)
	}
	if got := binary.NativeEndian.Uint16(dst[2:]); got != 0x07ff {
		t.Errorf("cyan = %#04x, want 0x07ff", got)
	}
}

func TestEncodeRGB888(t *testing.T) {
	dst := make([]byte, 3)
	encodeRow(dst, []swbuf.Pixel{{R: 1, G: 2, B: 3, A: 255}}, rgb888)
	if dst[0] != 3 || dst[1] != 2 || dst[2] != 1 {
		t.Errorf("bytes = %v, want [3 2 1]", dst)
	}
}

func TestEncodeForcesAlpha(t *testing.T) {
	dst := make([]byte, 4)
	encodeRow(dst, []swbuf.Pixel{{R: 10, G: 20, B: 30, A: 0}}, argb)
	if got := binary.NativeEndian.Uint32(dst); got != 0xff0a141e {
		t.Errorf("word = %#08x, want 0xff0a141e", got)
	}
}

func TestNativeFastPath(t *testing.T) {
	l := nativeLayout()
	if !l.native() {
		t.Fatal("host layout not detected as native")
	}
	if argb.native() {
		t.Error("layout with alpha must not take the copy path")
	}

	src := []swbuf.Pixel{{R: 1, G: 2, B: 3, A: 4}, {R: 5, G: 6, B: 7, A: 8}}
	dst := make([]byte, 8)
	encodeRow(dst, src, l)
	for i, b := range pixfmt.AsBytes(src) {
		if dst[i] != b {
			t.Fatalf("byte %d = %d, want %d", i, dst[i], b)
		}
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	src := []swbuf.Pixel{
		{R: 255, G: 255, B: 255, A: 255},
		{A: 255},
		{R: 200, G: 100, B: 50, A: 255},
	}
	for _, l := range []Layout{rgb888, argb, nativeLayout()} {
		buf := make([]byte, len(src)*l.BytesPerPixel())
		encodeRow(buf, src, l)
		got := make([]swbuf.Pixel, len(src))
		decodeRow(got, buf, l)
		for i := range src {
			if got[i] != src[i] {
				t.Errorf("%d bpp pixel %d = %+v, want %+v", l.BitsPerPixel, i, got[i], src[i])
			}
		}
	}
}

func TestDecodeRGB565Extremes(t *testing.T) {
	buf := make([]byte, 4)
	encodeRow(buf, []swbuf.Pixel{{R: 255, G: 255, B: 255, A: 255}, {A: 255}}, rgb565)
	got := make([]swbuf.Pixel, 2)
	decodeRow(got, buf, rgb565)

	if want := (swbuf.Pixel{R: 255, G: 255, B: 255, A: 255}); got[0] != want {
		t.Errorf("white = %+v", got[0])
	}
	if want := (swbuf.Pixel{A: 255}); got[1] != want {
		t.Errorf("black = %+v", got[1])
	}
}

func TestScreenWriteRead(t *testing.T) {
	// 6x4 screen with padded lines.
	scr := &screen{width: 6, height: 4, lineLength: 6*3 + 2, layout: rgb888}
	scr.mem = make([]byte, scr.lineLength*scr.height)
	win := Window{X: 2, Y: 1}

	caps := scr.capabilities(win)
	if caps.MaxWidth != 4 || caps.MaxHeight != 3 {
		t.Fatalf("caps = %dx%d, want 4x3", caps.MaxWidth, caps.MaxHeight)
	}

	px := make([]swbuf.Pixel, 3*2)
	for i := range px {
		px[i] = swbuf.Pixel{R: uint8(10 * (i + 1)), A: 255}
	}
	scr.write(win, swbuf.Frame{
		Pixels: px, Width: 3, Height: 2,
		Damage: []swbuf.Rect{{X: 1, Y: 0, Width: 2, Height: 2}},
	})

	// Column 0 was not damaged.
	if off := 1*scr.lineLength + 2*3; scr.mem[off+2] != 0 {
		t.Errorf("undamaged pixel written")
	}
	if off := 1*scr.lineLength + 3*3; scr.mem[off+2] != 20 {
		t.Errorf("pixel (1,0) R = %d, want 20", scr.mem[off+2])
	}

	got := scr.read(win, 3, 2)
	for i, p := range got {
		want := px[i].R
		if i%3 == 0 {
			want = 0
		}
		if p.R != want {
			t.Errorf("read pixel %d R = %d, want %d", i, p.R, want)
		}
	}
}

func TestScreenReadClips(t *testing.T) {
	scr := &screen{width: 2, height: 2, lineLength: 8, layout: argb}
	scr.mem = make([]byte, 16)
	got := scr.read(Window{X: 1, Y: 1}, 3, 3)
	if len(got) != 9 {
		t.Fatalf("len = %d, want 9", len(got))
	}
	if got[0].A != 255 || got[1].A != 0 {
		t.Errorf("visible pixel decoded %+v, clipped pixel %+v", got[0], got[1])
	}
}
