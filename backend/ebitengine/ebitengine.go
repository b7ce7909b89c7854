// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ebitengine is a swbuf backend that shows surfaces in an Ebitengine
// window.
//
// Frames are not copied on Submit. The Target keeps a reference to the
// presented slot until the next Draw call uploads it, and swbuf waits for
// that release before handing the slot out again.
//
//	t := ebitengine.NewTarget()
//	ctx, _ := swbuf.NewContext(&ebitengine.Display{Title: "demo", Scale: 2})
//	s, _ := swbuf.NewSurface(ctx, t, swbuf.WithSize(320, 200))
//	go render(s)
//	_ = ebitengine.Run(ctx, &ebitengine.Game{Target: t})
package ebitengine

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/swbuf"
)

// Name is the driver name.
const Name = "ebitengine"

func init() {
	swbuf.Register(Name, 40, driver{})
}

// Display configures the Ebitengine window.
type Display struct {
	// Title is the window title.
	Title string

	// Scale multiplies the initial window size; values below 1 mean 1.
	Scale int
}

type driver struct{}

func (driver) Name() string { return Name }

func (driver) OpenContext(display any) (swbuf.ContextBackend, error) {
	d, ok := display.(*Display)
	if !ok {
		return nil, swbuf.ErrUnsupported
	}
	return &contextBackend{d: d}, nil
}

type contextBackend struct {
	d *Display
}

func (c *contextBackend) OpenSurface(window any) (swbuf.SurfaceBackend, error) {
	t, ok := window.(*Target)
	if !ok {
		return nil, swbuf.ErrUnsupported
	}
	if err := t.bind(); err != nil {
		return nil, err
	}
	return &surface{t: t}, nil
}

type surface struct {
	t *Target
}

func (s *surface) Capabilities() swbuf.Capabilities {
	return swbuf.Capabilities{
		RetainsSlots: true,
		AlphaModes:   []swbuf.AlphaMode{swbuf.AlphaPremultiplied, swbuf.AlphaPostmultiplied},
	}
}

func (s *surface) Submit(f swbuf.Frame) error            { return s.t.submit(f) }
func (s *surface) WaitReleased(slot int) error           { return s.t.waitReleased(slot) }
func (s *surface) Fetch(w, h int) ([]swbuf.Pixel, error) { return s.t.fetch(w, h) }
func (s *surface) Detach() error                         { return s.t.unbind() }
func (s *surface) Close() error                          { return s.t.Close() }

// Game runs a Target as an ebiten.Game.
type Game struct {
	Target *Target

	// OnUpdate, if set, is called once per tick. Returning ebiten.Termination
	// ends Run cleanly.
	OnUpdate func() error
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.Target.Closed() {
		return ebiten.Termination
	}
	if g.OnUpdate != nil {
		return g.OnUpdate()
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.Target.Draw(screen)
}

// Layout implements ebiten.Game. The logical screen is the surface size, so
// Ebitengine does the window scaling.
func (g *Game) Layout(_, _ int) (int, int) {
	w, h := g.Target.Size()
	return max(w, 1), max(h, 1)
}

// Run opens the window described by the context's Display and blocks until
// the game ends. It must be called from the main goroutine.
func Run(ctx *swbuf.Context, g *Game) error {
	cb, ok := ctx.Backend().(*contextBackend)
	if !ok {
		return swbuf.ErrUnsupported
	}
	scale := max(cb.d.Scale, 1)
	w, h := g.Layout(0, 0)
	ebiten.SetWindowTitle(cb.d.Title)
	ebiten.SetWindowSize(w*scale, h*scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	swbuf.Logger().Info("ebitengine: run", "title", cb.d.Title, "width", w, "height", h, "scale", scale)
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
