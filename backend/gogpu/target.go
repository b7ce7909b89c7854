// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gogpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/swbuf"
	"github.com/gogpu/swbuf/pixfmt"
)

// Errors returned by Target.
var (
	// ErrTargetClosed is returned when a closed target is used.
	ErrTargetClosed = errors.New("gogpu: target is closed")

	// ErrTargetInUse is returned when a target is bound to a second surface.
	ErrTargetInUse = errors.New("gogpu: target already bound to a surface")

	// ErrNoTextureCreator is returned when the draw context cannot create
	// textures.
	ErrNoTextureCreator = errors.New("gogpu: draw context has no texture creator")

	// ErrNotTexture is returned when the created texture cannot be drawn.
	ErrNotTexture = errors.New("gogpu: created texture does not implement gpucontext.Texture")
)

// textureDestroyer is implemented by gogpu textures.
type textureDestroyer interface {
	Destroy()
}

// Target is the window handle of this backend. It holds the latest
// presented frame as RGBA bytes and uploads it on RenderTo.
//
// Thread safety: Target is safe for concurrent use. Frames are typically
// presented from a render goroutine while the host calls RenderTo from its
// draw callback.
type Target struct {
	mu       sync.Mutex
	provider gpucontext.DeviceProvider

	width, height int
	alpha         swbuf.AlphaMode
	rgba          []byte

	texture    any
	oldTexture any
	texAlpha   swbuf.AlphaMode // alpha mode the texture was last told about
	dirty      bool
	resized    bool
	closed     bool
}

// NewTarget creates an unbound target.
func NewTarget() *Target {
	return &Target{}
}

func (t *Target) attach(p gpucontext.DeviceProvider) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTargetClosed
	}
	if t.provider != nil {
		return ErrTargetInUse
	}
	t.provider = p
	return nil
}

// detach unbinds the provider and drops any staged frame, leaving the
// target ready for another surface.
func (t *Target) detach() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.provider = nil
	t.rgba = nil
	t.width, t.height = 0, 0
	t.dirty = false
}

// Provider returns the device provider the target is bound to.
func (t *Target) Provider() gpucontext.DeviceProvider {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.provider
}

// Size returns the dimensions of the staged frame.
func (t *Target) Size() (width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

// Dirty reports whether a presented frame awaits upload.
func (t *Target) Dirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dirty
}

// stage encodes the damaged rows of f into the RGBA staging buffer.
func (t *Target) stage(f swbuf.Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTargetClosed
	}
	if f.Width != t.width || f.Height != t.height {
		t.width, t.height = f.Width, f.Height
		t.rgba = make([]byte, f.Width*f.Height*4)
		t.resized = true
	}
	t.alpha = f.Alpha

	format := pixfmt.FormatRgba8
	if f.Alpha == swbuf.AlphaOpaque || f.Alpha == swbuf.AlphaIgnored {
		format = pixfmt.FormatRgbx8
	}
	stride := f.Width * 4
	for _, r := range f.Damage {
		x0, x1 := int(r.X), int(r.Right())
		for y := int(r.Y); y < int(r.Bottom()); y++ {
			row := f.Pixels[y*f.Width+x0 : y*f.Width+x1]
			if err := pixfmt.EncodeRow(t.rgba[y*stride+x0*4:], row, format); err != nil {
				return err
			}
		}
	}
	t.dirty = true
	return nil
}

// fetch decodes the staged frame.
func (t *Target) fetch(width, height int) ([]swbuf.Pixel, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]swbuf.Pixel, width*height)
	alpha := t.alpha
	if alpha == swbuf.AlphaIgnored {
		alpha = swbuf.AlphaOpaque
	}
	err := pixfmt.Convert(
		pixfmt.Dest{Pixels: out, Width: width, Height: height, Alpha: alpha},
		pixfmt.Source{Data: t.rgba, Width: t.width, Height: t.height, Format: pixfmt.FormatRgba8, Alpha: alpha},
	)
	return out, err
}

// RenderTo uploads the latest frame if needed and draws it at the origin.
func (t *Target) RenderTo(dc gpucontext.TextureDrawer) error {
	return t.RenderAt(dc, 0, 0)
}

// RenderAt uploads the latest frame if needed and draws it at (x, y).
// Nothing is drawn before the first presentation.
func (t *Target) RenderAt(dc gpucontext.TextureDrawer, x, y float32) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTargetClosed
	}
	if t.rgba == nil {
		return nil
	}

	// A resized frame needs a new texture. The old one may still be in
	// use by in-flight command buffers, so it is destroyed only after the
	// replacement has been written.
	if t.resized {
		if t.texture != nil {
			destroy(t.oldTexture)
			t.oldTexture = t.texture
			t.texture = nil
		}
		t.resized = false
	}

	if t.texture == nil {
		creator := dc.TextureCreator()
		if creator == nil {
			return ErrNoTextureCreator
		}
		tex, err := creator.NewTextureFromRGBA(t.width, t.height, t.rgba)
		if err != nil {
			return swbuf.Platform("gogpu: create texture", err)
		}
		t.texture = tex
		t.dirty = false
		t.applyAlpha()
		destroy(t.oldTexture)
		t.oldTexture = nil
	} else {
		if t.dirty {
			if u, ok := t.texture.(gpucontext.TextureUpdater); ok {
				if err := u.UpdateData(t.rgba); err != nil {
					return swbuf.Platform("gogpu: update texture", err)
				}
			}
			t.dirty = false
		}
		if t.texAlpha != t.alpha {
			t.applyAlpha()
		}
	}

	tex, ok := t.texture.(gpucontext.Texture)
	if !ok {
		return ErrNotTexture
	}
	if err := dc.DrawTexture(tex, x, y); err != nil {
		return fmt.Errorf("gogpu: draw texture: %w", err)
	}
	return nil
}

// applyAlpha tells the texture whether its data is premultiplied.
func (t *Target) applyAlpha() {
	if pt, ok := t.texture.(interface{ SetPremultiplied(bool) }); ok {
		pt.SetPremultiplied(t.alpha != swbuf.AlphaPostmultiplied)
	}
	t.texAlpha = t.alpha
}

// Close destroys the textures. Close is idempotent.
func (t *Target) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	destroy(t.oldTexture)
	destroy(t.texture)
	t.oldTexture, t.texture = nil, nil
	t.rgba = nil
	t.provider = nil
	return nil
}

func destroy(tex any) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}
