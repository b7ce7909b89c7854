// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gogpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/swbuf"
	"github.com/gogpu/swbuf/pixfmt"
)

// mockDevice implements gpucontext.Device for testing.
type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

// mockQueue implements gpucontext.Queue for testing.
type mockQueue struct{}

// mockAdapter implements gpucontext.Adapter for testing.
type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider for testing.
type mockProvider struct {
	format gputypes.TextureFormat
}

func (m *mockProvider) Device() gpucontext.Device             { return &mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue               { return &mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return &mockAdapter{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return m.format }

var _ gpucontext.DeviceProvider = (*mockProvider)(nil)

func newSurface(t *testing.T, target *Target, opts ...swbuf.SurfaceOption) *swbuf.Surface {
	t.Helper()
	ctx, err := swbuf.NewContext(&mockProvider{format: gputypes.TextureFormatBGRA8Unorm}, swbuf.WithDriver(Name))
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	s, err := swbuf.NewSurface(ctx, target, opts...)
	if err != nil {
		t.Fatalf("NewSurface() error = %v", err)
	}
	return s
}

func TestNativeTextureFormat(t *testing.T) {
	want := gputypes.TextureFormatBGRA8Unorm
	if pixfmt.NativeLayout == pixfmt.LayoutRGBA8 {
		want = gputypes.TextureFormatRGBA8Unorm
	}
	if got := NativeTextureFormat(); got != want {
		t.Errorf("NativeTextureFormat() = %v, want %v", got, want)
	}
}

func TestOpenContext(t *testing.T) {
	tests := []struct {
		name    string
		display any
		wantErr error
	}{
		{"provider", &mockProvider{format: gputypes.TextureFormatRGBA8Unorm}, nil},
		{"undefined format", &mockProvider{format: gputypes.TextureFormatUndefined}, swbuf.ErrUnsupported},
		{"foreign handle", struct{}{}, swbuf.ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := driver{}.OpenContext(tt.display)
			if tt.wantErr == nil && err != nil {
				t.Errorf("OpenContext() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("OpenContext() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStageAndFetch(t *testing.T) {
	target := NewTarget()
	s := newSurface(t, target, swbuf.WithSize(2, 2), swbuf.WithSingleBuffer())
	defer s.Close()

	if target.Provider() == nil {
		t.Error("target not bound to provider")
	}

	b, err := s.BufferMut()
	if err != nil {
		t.Fatal(err)
	}
	b.Fill(pixfmt.RGBA(1, 2, 3, 0))
	b.Set(1, 1, pixfmt.RGB(7, 8, 9))
	if err := b.Present(); err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	if !target.Dirty() {
		t.Error("Dirty() = false after present")
	}
	if w, h := target.Size(); w != 2 || h != 2 {
		t.Errorf("Size() = %d, %d, want 2, 2", w, h)
	}
	// Staged bytes are RGBA with opaque alpha.
	if got := target.rgba[0:4]; got[0] != 1 || got[1] != 2 || got[2] != 3 || got[3] != 0xff {
		t.Errorf("staged pixel 0 = %v, want [1 2 3 255]", got)
	}

	px, err := s.Fetch()
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if px[3] != pixfmt.RGB(7, 8, 9) || px[0] != pixfmt.RGB(1, 2, 3) {
		t.Errorf("Fetch() = %+v", px)
	}
}

func TestStageDamageRows(t *testing.T) {
	target := NewTarget()
	s := newSurface(t, target, swbuf.WithSize(4, 4), swbuf.WithSingleBuffer())
	defer s.Close()

	b, _ := s.BufferMut()
	b.Fill(pixfmt.RGB(1, 1, 1))
	_ = b.Present()

	b, _ = s.BufferMut()
	b.Fill(pixfmt.RGB(5, 5, 5))
	if err := b.PresentWithDamage([]swbuf.Rect{{X: 1, Y: 1, Width: 1, Height: 1}}); err != nil {
		t.Fatal(err)
	}
	at := func(x, y int) byte { return target.rgba[(y*4+x)*4] }
	if at(1, 1) != 5 || at(0, 0) != 1 || at(2, 1) != 1 {
		t.Errorf("staged red = %d %d %d, want 5 1 1", at(1, 1), at(0, 0), at(2, 1))
	}
}

func TestTargetBoundOnce(t *testing.T) {
	target := NewTarget()
	s := newSurface(t, target)
	defer s.Close()

	ctx, _ := swbuf.NewContext(&mockProvider{format: gputypes.TextureFormatBGRA8Unorm}, swbuf.WithDriver(Name))
	if _, err := swbuf.NewSurface(ctx, target); !errors.Is(err, ErrTargetInUse) {
		t.Errorf("second NewSurface() error = %v, want ErrTargetInUse", err)
	}
}

func TestClosedTarget(t *testing.T) {
	target := NewTarget()
	s := newSurface(t, target, swbuf.WithSize(1, 1))
	if err := target.Close(); err != nil {
		t.Fatal(err)
	}
	if err := target.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	b, _ := s.BufferMut()
	if err := b.Present(); !errors.Is(err, ErrTargetClosed) {
		t.Errorf("Present() error = %v, want ErrTargetClosed", err)
	}
	if err := target.RenderTo(nil); !errors.Is(err, ErrTargetClosed) {
		t.Errorf("RenderTo() error = %v, want ErrTargetClosed", err)
	}
}

func TestFailedSurfaceLeavesTargetUsable(t *testing.T) {
	target := NewTarget()
	ctx, err := swbuf.NewContext(&mockProvider{format: gputypes.TextureFormatBGRA8Unorm}, swbuf.WithDriver(Name))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := swbuf.NewSurface(ctx, target, swbuf.WithSize(-1, 4)); !errors.Is(err, swbuf.ErrSizeOutOfRange) {
		t.Fatalf("NewSurface(WithSize(-1, 4)) error = %v, want ErrSizeOutOfRange", err)
	}
	if target.Provider() != nil {
		t.Error("failed NewSurface left the target bound")
	}

	s, err := swbuf.NewSurface(ctx, target, swbuf.WithSize(4, 4))
	if err != nil {
		t.Fatalf("NewSurface() retry error = %v", err)
	}
	defer s.Close()
	b, err := s.BufferMut()
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Present(); err != nil {
		t.Errorf("Present() after retry error = %v", err)
	}
	if w, h := target.Size(); w != 4 || h != 4 {
		t.Errorf("Size() = %dx%d, want 4x4", w, h)
	}
}

// mockTexture records uploads and the premultiplied flag.
type mockTexture struct {
	w, h          int
	data          []byte
	premultiplied []bool
	destroyed     bool
}

func (m *mockTexture) Width() int  { return m.w }
func (m *mockTexture) Height() int { return m.h }

func (m *mockTexture) UpdateData(data []byte) error {
	m.data = append(m.data[:0], data...)
	return nil
}

func (m *mockTexture) SetPremultiplied(p bool) { m.premultiplied = append(m.premultiplied, p) }
func (m *mockTexture) Destroy()                { m.destroyed = true }

// mockDrawer implements gpucontext.TextureDrawer and TextureCreator.
type mockDrawer struct {
	created []*mockTexture
	draws   int
}

func (m *mockDrawer) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	tex := &mockTexture{w: width, h: height, data: append([]byte(nil), data...)}
	m.created = append(m.created, tex)
	return tex, nil
}

func (m *mockDrawer) DrawTexture(tex gpucontext.Texture, x, y float32) error {
	m.draws++
	return nil
}

func (m *mockDrawer) TextureCreator() gpucontext.TextureCreator { return m }

func TestRenderToFollowsAlphaMode(t *testing.T) {
	target := NewTarget()
	s := newSurface(t, target, swbuf.WithSize(2, 1), swbuf.WithAlphaMode(swbuf.AlphaPremultiplied))
	defer s.Close()

	present := func() {
		t.Helper()
		b, err := s.BufferMut()
		if err != nil {
			t.Fatal(err)
		}
		b.Fill(pixfmt.RGBA(10, 20, 30, 128))
		if err := b.Present(); err != nil {
			t.Fatal(err)
		}
	}

	dc := &mockDrawer{}
	present()
	if err := target.RenderTo(dc); err != nil {
		t.Fatalf("RenderTo() error = %v", err)
	}
	if len(dc.created) != 1 || dc.draws != 1 {
		t.Fatalf("created %d textures, drew %d times, want 1 and 1", len(dc.created), dc.draws)
	}
	tex := dc.created[0]
	if len(tex.premultiplied) != 1 || !tex.premultiplied[0] {
		t.Errorf("premultiplied = %v, want [true]", tex.premultiplied)
	}

	// Same size, new alpha mode: the existing texture must be told.
	if err := s.SetAlphaMode(swbuf.AlphaPostmultiplied); err != nil {
		t.Fatal(err)
	}
	present()
	if err := target.RenderTo(dc); err != nil {
		t.Fatalf("RenderTo() error = %v", err)
	}
	if len(dc.created) != 1 {
		t.Fatalf("created %d textures, want the existing one reused", len(dc.created))
	}
	if want := []bool{true, false}; len(tex.premultiplied) != 2 || tex.premultiplied[1] != want[1] {
		t.Errorf("premultiplied = %v, want %v", tex.premultiplied, want)
	}
	if got, want := tex.data[:4], []byte{10, 20, 30, 128}; string(got) != string(want) {
		t.Errorf("uploaded pixel = %v, want %v", got, want)
	}

	// Nothing changed: no further flag updates.
	if err := target.RenderTo(dc); err != nil {
		t.Fatal(err)
	}
	if len(tex.premultiplied) != 2 || dc.draws != 3 {
		t.Errorf("premultiplied = %v, draws = %d, want 2 updates and 3 draws", tex.premultiplied, dc.draws)
	}
}
