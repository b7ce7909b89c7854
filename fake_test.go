package swbuf

import (
	"errors"
	"sync"
)

// fakeDisplay and fakeWindow are handles understood by fakeDriver.
type fakeDisplay struct{ name string }

type fakeWindow struct{ id int }

// fakeDriver accepts *fakeDisplay handles, or fails with err when set.
type fakeDriver struct {
	name   string
	err    error
	opened int
	caps   Capabilities
	last   *fakeSurface
}

func (d *fakeDriver) Name() string { return d.name }

func (d *fakeDriver) OpenContext(display any) (ContextBackend, error) {
	if d.err != nil {
		return nil, d.err
	}
	if _, ok := display.(*fakeDisplay); !ok {
		return nil, ErrUnsupported
	}
	d.opened++
	return &fakeContext{d: d}, nil
}

type fakeContext struct {
	d      *fakeDriver
	closed bool
}

func (c *fakeContext) OpenSurface(window any) (SurfaceBackend, error) {
	if _, ok := window.(*fakeWindow); !ok {
		return nil, ErrUnsupported
	}
	s := &fakeSurface{caps: c.d.caps}
	c.d.last = s
	return s, nil
}

func (c *fakeContext) Close() error {
	c.closed = true
	return nil
}

// fakeSurface records submitted frames.
type fakeSurface struct {
	mu        sync.Mutex
	caps      Capabilities
	frames    []Frame
	submitErr error
	closed    int
	detached  int

	// release, when set, gates WaitReleased.
	release chan error
	waits   []int
}

func (s *fakeSurface) Capabilities() Capabilities { return s.caps }

func (s *fakeSurface) Submit(f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitErr != nil {
		return s.submitErr
	}
	f.Pixels = append([]Pixel(nil), f.Pixels...)
	s.frames = append(s.frames, f)
	return nil
}

func (s *fakeSurface) WaitReleased(slot int) error {
	s.mu.Lock()
	s.waits = append(s.waits, slot)
	ch := s.release
	s.mu.Unlock()
	if ch == nil {
		return nil
	}
	return <-ch
}

func (s *fakeSurface) Detach() error {
	s.detached++
	return nil
}

func (s *fakeSurface) Close() error {
	s.closed++
	return nil
}

func (s *fakeSurface) submitted() []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Frame(nil), s.frames...)
}

// fetchSurface adds read-back of the last frame.
type fetchSurface struct {
	*fakeSurface
}

func (s fetchSurface) Fetch(width, height int) ([]Pixel, error) {
	frames := s.submitted()
	if len(frames) == 0 {
		return nil, errors.New("nothing shown")
	}
	return frames[len(frames)-1].Pixels, nil
}

// newFakeSurface opens a surface through a private registry.
func newFakeSurface(caps Capabilities, opts ...SurfaceOption) (*Surface, *fakeSurface, error) {
	r := NewRegistry()
	d := &fakeDriver{name: "fake", caps: caps}
	r.Register("fake", 10, d)
	ctx, err := r.NewContext(&fakeDisplay{})
	if err != nil {
		return nil, nil, err
	}
	s, err := NewSurface(ctx, &fakeWindow{}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return s, d.last, nil
}
