// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package term

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/swbuf"
)

// cellScreen records cells in a map, like a tcell simulation screen
// without the terminal plumbing.
type cellScreen struct {
	cols, rows int
	cells      map[[2]int]tcell.Style
	runes      map[[2]int]rune
	shows      int
}

func newCellScreen(cols, rows int) *cellScreen {
	return &cellScreen{
		cols:  cols,
		rows:  rows,
		cells: make(map[[2]int]tcell.Style),
		runes: make(map[[2]int]rune),
	}
}

func (c *cellScreen) Size() (int, int) { return c.cols, c.rows }
func (c *cellScreen) Show()            { c.shows++ }

func (c *cellScreen) SetContent(x, y int, mainc rune, _ []rune, style tcell.Style) {
	c.cells[[2]int{x, y}] = style
	c.runes[[2]int{x, y}] = mainc
}

func (c *cellScreen) GetContent(x, y int) (rune, []rune, tcell.Style, int) {
	st, ok := c.cells[[2]int{x, y}]
	if !ok {
		return ' ', nil, tcell.StyleDefault, 1
	}
	return c.runes[[2]int{x, y}], nil, st, 1
}

func open(t *testing.T, scr Screen, at Region, w, h int) *swbuf.Surface {
	t.Helper()
	ctx, err := swbuf.NewContext(scr, swbuf.WithDriver(Name))
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	s, err := swbuf.NewSurface(ctx, at, swbuf.WithSize(w, h))
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestHalfBlocks(t *testing.T) {
	scr := newCellScreen(10, 5)
	s := open(t, scr, Region{X: 1, Y: 1}, 2, 3)

	buf, err := s.BufferMut()
	if err != nil {
		t.Fatal(err)
	}
	buf.Set(0, 0, swbuf.Pixel{R: 255, A: 255})
	buf.Set(0, 1, swbuf.Pixel{G: 255, A: 255})
	buf.Set(1, 2, swbuf.Pixel{B: 255, A: 255})
	if err := buf.Present(); err != nil {
		t.Fatal(err)
	}

	if scr.shows != 1 {
		t.Errorf("Show called %d times, want 1", scr.shows)
	}
	if got := len(scr.cells); got != 4 {
		t.Fatalf("%d cells drawn, want 4", got)
	}
	if r := scr.runes[[2]int{1, 1}]; r != upperHalf {
		t.Errorf("rune = %q, want upper half block", r)
	}

	fg, bg, _ := scr.cells[[2]int{1, 1}].Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) || bg != tcell.NewRGBColor(0, 255, 0) {
		t.Errorf("cell (1,1) fg=%v bg=%v", fg, bg)
	}
	fg, bg, _ = scr.cells[[2]int{2, 2}].Decompose()
	if fg != tcell.NewRGBColor(0, 0, 255) || bg != tcell.ColorBlack {
		t.Errorf("odd last row: fg=%v bg=%v", fg, bg)
	}
}

func TestDamageCoversWholeCells(t *testing.T) {
	scr := newCellScreen(8, 8)
	s := open(t, scr, Region{}, 4, 8)

	buf, _ := s.BufferMut()
	buf.Fill(swbuf.Pixel{R: 10, G: 20, B: 30, A: 255})
	if err := buf.PresentWithDamage([]swbuf.Rect{{X: 1, Y: 3, Width: 2, Height: 2}}); err != nil {
		t.Fatal(err)
	}

	// Rows 3 and 4 live in cells 1 and 2.
	want := map[[2]int]bool{{1, 1}: true, {2, 1}: true, {1, 2}: true, {2, 2}: true}
	if len(scr.cells) != len(want) {
		t.Fatalf("%d cells drawn, want %d", len(scr.cells), len(want))
	}
	for k := range want {
		if _, ok := scr.cells[k]; !ok {
			t.Errorf("cell %v not drawn", k)
		}
	}
}

func TestFetch(t *testing.T) {
	scr := newCellScreen(4, 4)
	s := open(t, scr, Region{}, 3, 3)

	buf, _ := s.BufferMut()
	for y := range 3 {
		for x := range 3 {
			buf.Set(x, y, swbuf.Pixel{R: uint8(x * 40), G: uint8(y * 40), B: 7, A: 255})
		}
	}
	if err := buf.Present(); err != nil {
		t.Fatal(err)
	}

	px, err := s.Fetch()
	if err != nil {
		t.Fatal(err)
	}
	for y := range 3 {
		for x := range 3 {
			want := swbuf.Pixel{R: uint8(x * 40), G: uint8(y * 40), B: 7, A: 255}
			if got := px[y*3+x]; got != want {
				t.Errorf("pixel (%d,%d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
}

func TestCapabilities(t *testing.T) {
	scr := newCellScreen(20, 10)
	ctx, err := swbuf.NewContext(scr, swbuf.WithDriver(Name))
	if err != nil {
		t.Fatal(err)
	}
	defer ctx.Close()

	s, err := swbuf.NewSurface(ctx, &Region{X: 5, Y: 4})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Resize(15, 12); err != nil {
		t.Errorf("Resize(15, 12): %v", err)
	}
	if err := s.Resize(16, 12); !errors.Is(err, swbuf.ErrSizeOutOfRange) {
		t.Errorf("Resize(16, 12) = %v, want ErrSizeOutOfRange", err)
	}
	if err := s.Resize(15, 13); !errors.Is(err, swbuf.ErrSizeOutOfRange) {
		t.Errorf("Resize(15, 13) = %v, want ErrSizeOutOfRange", err)
	}
	if err := s.SetAlphaMode(swbuf.AlphaPremultiplied); !errors.Is(err, swbuf.ErrUnimplemented) {
		t.Errorf("SetAlphaMode(premultiplied) = %v, want ErrUnimplemented", err)
	}
}

func TestRejectsForeignHandles(t *testing.T) {
	if _, err := (driver{}).OpenContext(struct{}{}); !errors.Is(err, swbuf.ErrUnsupported) {
		t.Errorf("OpenContext(struct) = %v", err)
	}
	cb, err := (driver{}).OpenContext(newCellScreen(4, 4))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cb.OpenSurface("window"); !errors.Is(err, swbuf.ErrUnsupported) {
		t.Errorf("OpenSurface(string) = %v", err)
	}
	if _, err := cb.OpenSurface(Region{X: 4}); !errors.Is(err, swbuf.ErrPlatform) {
		t.Errorf("OpenSurface(off screen) = %v, want ErrPlatform", err)
	}
}
