// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package term is a swbuf backend that presents into a terminal through
// tcell.
//
// Each character cell shows two vertically stacked pixels using the upper
// half block: the foreground color is the top pixel and the background the
// bottom one. A surface of W x H pixels therefore covers W columns and
// ceil(H/2) rows starting at the window Region.
//
//	screen, _ := tcell.NewScreen()
//	_ = screen.Init()
//	ctx, _ := swbuf.NewContext(screen)
//	s, _ := swbuf.NewSurface(ctx, term.Region{}, swbuf.WithSize(80, 48))
package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/swbuf"
)

// Name is the driver name.
const Name = "term"

// upperHalf is U+2580 UPPER HALF BLOCK.
const upperHalf = '▀'

func init() {
	swbuf.Register(Name, 10, driver{})
}

// Screen is the part of tcell.Screen this backend draws with. Any
// tcell.Screen is a valid display handle.
type Screen interface {
	Size() (int, int)
	Show()
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
	GetContent(x, y int) (rune, []rune, tcell.Style, int)
}

// Region is the window handle: the cell at which the surface's top-left
// pixel pair is drawn.
type Region struct {
	X, Y int
}

type driver struct{}

func (driver) Name() string { return Name }

func (driver) OpenContext(display any) (swbuf.ContextBackend, error) {
	scr, ok := display.(Screen)
	if !ok {
		return nil, swbuf.ErrUnsupported
	}
	return &contextBackend{scr: scr}, nil
}

type contextBackend struct {
	scr Screen
}

func (c *contextBackend) OpenSurface(window any) (swbuf.SurfaceBackend, error) {
	var r Region
	switch w := window.(type) {
	case Region:
		r = w
	case *Region:
		r = *w
	default:
		return nil, swbuf.ErrUnsupported
	}
	cols, rows := c.scr.Size()
	if r.X < 0 || r.Y < 0 || r.X >= cols || r.Y >= rows {
		return nil, swbuf.Platform("term: region outside screen", nil)
	}
	return &surface{scr: c.scr, at: r}, nil
}

type surface struct {
	scr Screen
	at  Region
}

func (s *surface) Capabilities() swbuf.Capabilities {
	cols, rows := s.scr.Size()
	return swbuf.Capabilities{
		MaxWidth:  max(cols-s.at.X, 1),
		MaxHeight: max(rows-s.at.Y, 1) * 2,
	}
}

func (s *surface) Submit(f swbuf.Frame) error {
	for _, r := range f.Damage {
		ir := r.Image()
		// Widen to whole cells; a cell is always redrawn from both pixels.
		for cy := ir.Min.Y / 2; cy < (ir.Max.Y+1)/2; cy++ {
			top := f.Pixels[2*cy*f.Width:]
			var bottom []swbuf.Pixel
			if 2*cy+1 < f.Height {
				bottom = f.Pixels[(2*cy+1)*f.Width:]
			}
			for x := ir.Min.X; x < ir.Max.X; x++ {
				st := tcell.StyleDefault.Foreground(color(top[x]))
				if bottom != nil {
					st = st.Background(color(bottom[x]))
				} else {
					st = st.Background(tcell.ColorBlack)
				}
				s.scr.SetContent(s.at.X+x, s.at.Y+cy, upperHalf, nil, st)
			}
		}
	}
	s.scr.Show()
	return nil
}

// Fetch reads the cells back. Cells not drawn by this backend decode as
// their style colors, or black when they use the terminal default.
func (s *surface) Fetch(width, height int) ([]swbuf.Pixel, error) {
	out := make([]swbuf.Pixel, width*height)
	for cy := 0; cy < (height+1)/2; cy++ {
		for x := range width {
			_, _, st, _ := s.scr.GetContent(s.at.X+x, s.at.Y+cy)
			fg, bg, _ := st.Decompose()
			out[2*cy*width+x] = pixel(fg)
			if 2*cy+1 < height {
				out[(2*cy+1)*width+x] = pixel(bg)
			}
		}
	}
	return out, nil
}

func color(p swbuf.Pixel) tcell.Color {
	return tcell.NewRGBColor(int32(p.R), int32(p.G), int32(p.B))
}

func pixel(c tcell.Color) swbuf.Pixel {
	if c == tcell.ColorDefault {
		return swbuf.Pixel{A: 0xff}
	}
	r, g, b := c.RGB()
	return swbuf.Pixel{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}
}
