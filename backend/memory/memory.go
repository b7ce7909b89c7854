// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package memory is a swbuf backend that presents into in-memory images.
//
// It is the reference backend for tests and headless tools: every
// presented frame is composited into an *image.RGBA that callers can read,
// encode or hand to another library.
//
//	import _ "github.com/gogpu/swbuf/backend/memory"
//
//	display := memory.NewDisplay()
//	window := memory.NewWindow(memory.DefaultConfig())
//	ctx, _ := swbuf.NewContext(display)
//	s, _ := swbuf.NewSurface(ctx, window, swbuf.WithSize(320, 200))
package memory

import (
	"errors"
	"image"
	"sync"

	"golang.org/x/image/draw"

	"github.com/gogpu/swbuf"
	"github.com/gogpu/swbuf/pixfmt"
)

// Name is the driver name.
const Name = "memory"

// ErrClosed is returned when presenting to a closed window.
var ErrClosed = errors.New("memory: window closed")

func init() {
	swbuf.Register(Name, 10, driver{})
}

// Display is the display handle accepted by this backend.
type Display struct {
	mu      sync.Mutex
	windows int
}

// NewDisplay creates a display.
func NewDisplay() *Display {
	return &Display{}
}

// Windows returns the number of open surfaces on d.
func (d *Display) Windows() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.windows
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
	w, ok := window.(*Window)
	if !ok {
		return nil, swbuf.ErrUnsupported
	}
	c.d.mu.Lock()
	c.d.windows++
	c.d.mu.Unlock()
	return &surface{d: c.d, w: w}, nil
}

// Config configures a Window.
type Config struct {
	// Width and Height fix the image size. When zero the image follows the
	// presented frame size.
	Width, Height int

	// Scaler resamples frames whose size differs from a fixed image size.
	Scaler draw.Scaler

	// SingleDamageRegion makes the window accept one damage rect per frame.
	SingleDamageRegion bool

	// MaxWidth and MaxHeight limit surface dimensions; zero means none.
	MaxWidth, MaxHeight int
}

// DefaultConfig returns a window following the frame size, with
// nearest-neighbor scaling if a fixed size is set later.
func DefaultConfig() Config {
	return Config{Scaler: draw.NearestNeighbor}
}

// Window is an in-memory presentation target.
//
// Thread safety: Window is safe for concurrent use. Presentation and
// readers of Image are serialized.
type Window struct {
	mu     sync.Mutex
	cfg    Config
	img    *image.RGBA
	frames int
	damage []swbuf.Rect
	closed bool
}

// NewWindow creates a window.
func NewWindow(cfg Config) *Window {
	if cfg.Scaler == nil {
		cfg.Scaler = draw.NearestNeighbor
	}
	w := &Window{cfg: cfg}
	if cfg.Width > 0 && cfg.Height > 0 {
		w.img = image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	}
	return w
}

// Image returns a copy of the presented image, or nil before the first
// frame.
func (w *Window) Image() *image.RGBA {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.img == nil {
		return nil
	}
	out := image.NewRGBA(w.img.Rect)
	copy(out.Pix, w.img.Pix)
	return out
}

// Frames returns the number of frames presented.
func (w *Window) Frames() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frames
}

// LastDamage returns the damage of the most recent frame.
func (w *Window) LastDamage() []swbuf.Rect {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]swbuf.Rect(nil), w.damage...)
}

type surface struct {
	d *Display
	w *Window

	// staging holds the frame in image/draw terms.
	staging stage
}

func (s *surface) Capabilities() swbuf.Capabilities {
	return swbuf.Capabilities{
		SingleDamageRegion: s.w.cfg.SingleDamageRegion,
		MaxWidth:           s.w.cfg.MaxWidth,
		MaxHeight:          s.w.cfg.MaxHeight,
		AlphaModes:         []swbuf.AlphaMode{swbuf.AlphaPremultiplied, swbuf.AlphaPostmultiplied},
	}
}

func (s *surface) Submit(f swbuf.Frame) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()

	if s.w.closed {
		return ErrClosed
	}

	src, err := s.staging.update(f)
	if err != nil {
		return err
	}
	fixed := s.w.cfg.Width > 0 && s.w.cfg.Height > 0
	switch {
	case fixed && (f.Width != s.w.cfg.Width || f.Height != s.w.cfg.Height):
		s.w.cfg.Scaler.Scale(s.w.img, s.w.img.Rect, src, src.Bounds(), draw.Src, nil)
	default:
		if s.w.img == nil || s.w.img.Rect.Dx() != f.Width || s.w.img.Rect.Dy() != f.Height {
			s.w.img = image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
		}
		for _, r := range f.Damage {
			ir := r.Image()
			draw.Copy(s.w.img, ir.Min, src, ir, draw.Src, nil)
		}
	}

	s.w.frames++
	s.w.damage = append(s.w.damage[:0], f.Damage...)
	return nil
}

// Fetch reads the image back as canonical premultiplied pixels, whatever
// the surface alpha mode.
func (s *surface) Fetch(width, height int) ([]swbuf.Pixel, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()

	out := make([]swbuf.Pixel, width*height)
	if s.w.img == nil {
		return out, nil
	}
	b := s.w.img.Rect
	err := pixfmt.Convert(
		pixfmt.Dest{Pixels: out, Width: width, Height: height, Alpha: pixfmt.AlphaPremultiplied},
		pixfmt.Source{Data: s.w.img.Pix, Stride: s.w.img.Stride, Width: b.Dx(), Height: b.Dy(),
			Format: pixfmt.FormatRgba8, Alpha: pixfmt.AlphaPremultiplied},
	)
	return out, err
}

func (s *surface) Close() error {
	s.d.mu.Lock()
	s.d.windows--
	s.d.mu.Unlock()
	return nil
}

// Close marks the window closed; later presents fail with ErrClosed.
func (w *Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}
