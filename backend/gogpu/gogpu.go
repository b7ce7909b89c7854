// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gogpu is a swbuf backend that presents through a gogpu
// application's GPU context.
//
// Frames are staged on the CPU and uploaded as a texture when the host
// draws. The display handle is the host's gpucontext.DeviceProvider and
// the window handle is a *Target created by NewTarget:
//
//	target := gogpu.NewTarget()
//	ctx, _ := swbuf.NewContext(app.GPUContextProvider())
//	s, _ := swbuf.NewSurface(ctx, target)
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    target.RenderTo(dc.AsTextureDrawer())
//	})
package gogpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/swbuf"
	"github.com/gogpu/swbuf/pixfmt"
)

// Name is the driver name.
const Name = "gogpu"

func init() {
	swbuf.Register(Name, 50, driver{})
}

// NativeTextureFormat returns the texture format whose memory layout
// matches pixfmt.Pixel on this host.
func NativeTextureFormat() gputypes.TextureFormat {
	return textureFormat(pixfmt.NativeLayout)
}

func textureFormat(l pixfmt.Layout) gputypes.TextureFormat {
	if l == pixfmt.LayoutRGBA8 {
		return gputypes.TextureFormatRGBA8Unorm
	}
	return gputypes.TextureFormatBGRA8Unorm
}

type driver struct{}

func (driver) Name() string { return Name }

// OpenContext accepts a gpucontext.DeviceProvider with a configured
// surface. Providers without one (headless or null devices) are declined.
func (driver) OpenContext(display any) (swbuf.ContextBackend, error) {
	p, ok := display.(gpucontext.DeviceProvider)
	if !ok {
		return nil, swbuf.ErrUnsupported
	}
	format := p.SurfaceFormat()
	if format == gputypes.TextureFormatUndefined {
		return nil, fmt.Errorf("%w: gogpu provider has no surface format", swbuf.ErrUnsupported)
	}
	swbuf.Logger().Debug("gogpu: context opened",
		"surface_format", fmt.Sprint(format),
		"native_format", fmt.Sprint(NativeTextureFormat()))
	return &contextBackend{provider: p, format: format}, nil
}

type contextBackend struct {
	provider gpucontext.DeviceProvider
	format   gputypes.TextureFormat
}

func (c *contextBackend) OpenSurface(window any) (swbuf.SurfaceBackend, error) {
	t, ok := window.(*Target)
	if !ok {
		return nil, swbuf.ErrUnsupported
	}
	if err := t.attach(c.provider); err != nil {
		return nil, err
	}
	return &surface{t: t}, nil
}

// surface forwards frames to its target.
type surface struct {
	t *Target
}

func (s *surface) Capabilities() swbuf.Capabilities {
	return swbuf.Capabilities{
		AlphaModes: []swbuf.AlphaMode{swbuf.AlphaPremultiplied, swbuf.AlphaPostmultiplied},
	}
}

func (s *surface) Submit(f swbuf.Frame) error {
	return s.t.stage(f)
}

func (s *surface) Fetch(width, height int) ([]swbuf.Pixel, error) {
	return s.t.fetch(width, height)
}

func (s *surface) Detach() error {
	s.t.detach()
	return nil
}

func (s *surface) Close() error {
	return s.t.Close()
}
