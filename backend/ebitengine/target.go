// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ebitengine

import (
	"errors"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/swbuf"
	"github.com/gogpu/swbuf/pixfmt"
)

var (
	// ErrTargetClosed is returned when presenting to a closed Target.
	ErrTargetClosed = errors.New("ebitengine: target closed")

	// ErrTargetInUse is returned when a Target is bound to a second surface.
	ErrTargetInUse = errors.New("ebitengine: target already bound to a surface")
)

// Target is the window handle: the drawable an ebiten.Game shows.
//
// Submit and Draw run on different goroutines; Target serializes them.
type Target struct {
	mu sync.Mutex

	// pending is the latest submitted frame not yet uploaded. Its Pixels
	// alias swbuf slot memory until released.
	pending *swbuf.Frame
	damage  []swbuf.Rect

	// held maps a retained slot to the channel closed on its release.
	held map[int]chan struct{}

	// rgba is the premultiplied RGBA8 copy of the last uploaded frame.
	rgba          []byte
	width, height int
	row           []swbuf.Pixel

	img    *ebiten.Image
	bound  bool
	closed bool
	draws  int
}

// NewTarget creates a Target.
func NewTarget() *Target {
	return &Target{held: make(map[int]chan struct{})}
}

func (t *Target) bind() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTargetClosed
	}
	if t.bound {
		return ErrTargetInUse
	}
	t.bound = true
	return nil
}

// unbind undoes bind for a surface that failed to open. Unlike Close it
// leaves the Target usable.
func (t *Target) unbind() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for slot := range t.held {
		t.releaseLocked(slot)
	}
	t.pending = nil
	t.damage = nil
	t.bound = false
	return nil
}

// Size returns the size of the most recent frame, uploaded or pending.
func (t *Target) Size() (width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending != nil {
		return t.pending.Width, t.pending.Height
	}
	return t.width, t.height
}

// Closed reports whether the Target has been closed.
func (t *Target) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Draws returns the number of Draw calls that uploaded a frame.
func (t *Target) Draws() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.draws
}

func (t *Target) submit(f swbuf.Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTargetClosed
	}

	// An undrawn frame is superseded: the new slot holds the complete
	// picture, so only its damage has to be carried over.
	w, h := t.width, t.height
	if t.pending != nil {
		w, h = t.pending.Width, t.pending.Height
		if t.pending.Slot != f.Slot {
			t.releaseLocked(t.pending.Slot)
		}
	}
	if w == f.Width && h == f.Height {
		t.damage = append(t.damage, f.Damage...)
	} else {
		t.damage = append(t.damage[:0], swbuf.Rect{Width: uint32(f.Width), Height: uint32(f.Height)})
	}

	frame := f
	t.pending = &frame
	if _, ok := t.held[f.Slot]; !ok {
		t.held[f.Slot] = make(chan struct{})
	}
	return nil
}

func (t *Target) waitReleased(slot int) error {
	t.mu.Lock()
	ch, ok := t.held[slot]
	t.mu.Unlock()
	if !ok {
		return nil
	}
	<-ch
	return nil
}

func (t *Target) releaseLocked(slot int) {
	if ch, ok := t.held[slot]; ok {
		close(ch)
		delete(t.held, slot)
	}
}

// consume uploads the pending frame into rgba and releases its slot. It
// reports whether rgba changed.
func (t *Target) consume() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	f := t.pending
	if f == nil {
		return false
	}
	t.pending = nil

	if f.Width != t.width || f.Height != t.height {
		t.width, t.height = f.Width, f.Height
		t.rgba = make([]byte, 4*f.Width*f.Height)
	}
	if cap(t.row) < f.Width {
		t.row = make([]swbuf.Pixel, f.Width)
	}
	for _, r := range t.damage {
		ir := r.Image()
		for y := ir.Min.Y; y < ir.Max.Y; y++ {
			src := f.Pixels[y*f.Width+ir.Min.X : y*f.Width+ir.Max.X]
			dst := t.rgba[4*(y*f.Width+ir.Min.X) : 4*(y*f.Width+ir.Max.X)]
			t.encode(dst, src, f.Alpha)
		}
	}
	t.damage = t.damage[:0]
	t.releaseLocked(f.Slot)
	t.draws++
	return true
}

// encode writes src as premultiplied RGBA8, the layout ebiten.Image
// expects.
func (t *Target) encode(dst []byte, src []swbuf.Pixel, alpha swbuf.AlphaMode) {
	switch alpha {
	case swbuf.AlphaPremultiplied:
		_ = pixfmt.EncodeRow(dst, src, pixfmt.FormatRgba8)
	case swbuf.AlphaPostmultiplied:
		row := t.row[:len(src)]
		_ = pixfmt.Convert(
			pixfmt.Dest{Pixels: row, Width: len(src), Height: 1, Alpha: pixfmt.AlphaPremultiplied},
			pixfmt.Source{Data: pixfmt.AsBytes(src), Width: len(src), Height: 1,
				Format: pixfmt.NativeLayout.Format(), Alpha: pixfmt.AlphaPostmultiplied},
		)
		_ = pixfmt.EncodeRow(dst, row, pixfmt.FormatRgba8)
	default:
		_ = pixfmt.EncodeRow(dst, src, pixfmt.FormatRgbx8)
	}
}

// Draw uploads the pending frame, if any, and draws the last frame onto
// screen at the origin.
func (t *Target) Draw(screen *ebiten.Image) {
	changed := t.consume()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.width == 0 || t.height == 0 {
		return
	}
	if t.img != nil {
		if b := t.img.Bounds(); b.Dx() != t.width || b.Dy() != t.height {
			t.img.Deallocate()
			t.img = nil
		}
	}
	if t.img == nil {
		t.img = ebiten.NewImage(t.width, t.height)
		changed = true
	}
	if changed {
		t.img.WritePixels(t.rgba)
	}
	screen.DrawImage(t.img, nil)
}

func (t *Target) fetch(width, height int) ([]swbuf.Pixel, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]swbuf.Pixel, width*height)
	if t.rgba == nil {
		return out, nil
	}
	err := pixfmt.Convert(
		pixfmt.Dest{Pixels: out, Width: width, Height: height, Alpha: pixfmt.AlphaPremultiplied},
		pixfmt.Source{Data: t.rgba, Width: t.width, Height: t.height,
			Format: pixfmt.FormatRgba8, Alpha: pixfmt.AlphaPremultiplied},
	)
	return out, err
}

// Close releases every retained slot and frees the GPU image. It is safe
// to call more than once.
func (t *Target) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	for slot := range t.held {
		t.releaseLocked(slot)
	}
	t.pending = nil
	if t.img != nil {
		t.img.Deallocate()
		t.img = nil
	}
	return nil
}
