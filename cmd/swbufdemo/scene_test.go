package main

import (
	"context"
	"testing"

	"github.com/gogpu/swbuf"
	"github.com/gogpu/swbuf/backend/memory"
)

func TestBoxBounces(t *testing.T) {
	sc := newScene(40, 20)
	if sc.size != 5 {
		t.Fatalf("size = %d, want 5", sc.size)
	}
	for n := range 200 {
		b := sc.box(n)
		if !b.In(sc.bounds()) || b.Dx() != sc.size {
			t.Fatalf("box(%d) = %v outside %v", n, b, sc.bounds())
		}
	}
	if sc.box(35).Min.X != 35 || sc.box(36).Min.X != 34 {
		t.Errorf("box does not turn at the right edge: %v %v", sc.box(35), sc.box(36))
	}
}

// Partial redraws driven by buffer age must produce exactly what a full
// redraw of the last frame would.
func TestAnimateMatchesFullRedraw(t *testing.T) {
	const w, h, frames = 48, 24, 37

	window := memory.NewWindow(memory.DefaultConfig())
	ctx, err := swbuf.NewContext(memory.NewDisplay(), swbuf.WithDriver(memory.Name))
	if err != nil {
		t.Fatal(err)
	}
	defer ctx.Close()
	s, err := swbuf.NewSurface(ctx, window, swbuf.WithSize(w, h))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := animate(context.Background(), s, frames, 0); err != nil {
		t.Fatal(err)
	}
	if got := window.Frames(); got != frames {
		t.Fatalf("Frames = %d, want %d", got, frames)
	}

	sc := newScene(w, h)
	box := sc.box(frames - 1)
	img := window.Image()
	for y := range h {
		for x := range w {
			want := sc.at(x, y, box)
			c := img.RGBAAt(x, y)
			if c.R != want.R || c.G != want.G || c.B != want.B {
				t.Fatalf("pixel (%d,%d) = %v, want %+v", x, y, c, want)
			}
		}
	}

	// Steady-state frames only damage the moving square.
	d := window.LastDamage()
	if len(d) != 1 || d[0].Width != uint32(sc.size+1) {
		t.Errorf("last damage = %v, want one %d-wide rect", d, sc.size+1)
	}
}
