package swbuf

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/gogpu/swbuf/internal/damage"
)

// maxPixels bounds width*height so that slot memory stays addressable.
const maxPixels = math.MaxInt / 4

// historyDepth is how many presentations DamageSince can answer for.
const historyDepth = 8

// slot is one pixel storage area.
type slot struct {
	pixels        []Pixel
	width, height int

	// age is 0 when the contents are indeterminate, 1 when they equal the
	// screen, and N when they were on screen N-1 presentations ago.
	age uint8
}

// Surface couples a drawable with double-buffered pixel storage.
//
// A Surface has one owner at a time. It may be handed to another goroutine
// but must not be used from two goroutines at once.
type Surface struct {
	ctx     *Context
	backend SurfaceBackend
	caps    Capabilities
	alpha   AlphaMode

	width, height int

	slots []slot
	back  int

	// out is the outstanding buffer handle, if any.
	out *Buffer

	history *damage.History

	// allocs counts slot allocations.
	allocs int
	closed bool
}

// NewSurface binds window to a new surface on ctx.
//
// A nil window yields ErrIncompleteHandle. A window the context's driver
// does not understand yields an *UnsupportedError holding the window.
func NewSurface(ctx *Context, window any, opts ...SurfaceOption) (*Surface, error) {
	if ctx == nil || isNilHandle(window) {
		return nil, ErrIncompleteHandle
	}

	o := defaultSurfaceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !o.alpha.IsValid() {
		return nil, fmt.Errorf("%w: alpha mode %v", ErrUnimplemented, o.alpha)
	}

	be, err := ctx.backend.OpenSurface(window)
	if err != nil {
		if errors.Is(err, ErrUnsupported) {
			return nil, &UnsupportedError{Window: window, Tried: []string{ctx.driver}}
		}
		return nil, wrapBackend("open surface", err)
	}

	s := &Surface{
		ctx:     ctx,
		backend: be,
		caps:    be.Capabilities(),
		alpha:   AlphaOpaque,
		history: damage.NewHistory(historyDepth),
	}

	fail := func(err error) (*Surface, error) {
		s.releaseBackend()
		return nil, err
	}

	n := 2
	if o.single {
		if s.caps.RetainsSlots {
			return fail(fmt.Errorf("%w: %s keeps reading slots after submit, single buffering is unavailable",
				ErrUnimplemented, ctx.driver))
		}
		n = 1
	}
	s.slots = make([]slot, n)

	if err := s.SetAlphaMode(o.alpha); err != nil {
		return fail(err)
	}
	if o.width != 0 || o.height != 0 {
		if err := s.Resize(o.width, o.height); err != nil {
			return fail(err)
		}
	}

	Logger().Info("swbuf: surface opened", "driver", ctx.driver, "slots", n, "alpha", s.alpha.String())
	return s, nil
}

// Backend returns the surface backend.
func (s *Surface) Backend() SurfaceBackend { return s.backend }

// Capabilities returns the backend capabilities.
func (s *Surface) Capabilities() Capabilities { return s.caps }

// Size returns the current dimensions, or 0, 0 before the first Resize.
func (s *Surface) Size() (width, height int) { return s.width, s.height }

// AlphaMode returns the mode presented pixels are interpreted in.
func (s *Surface) AlphaMode() AlphaMode { return s.alpha }

// SetAlphaMode changes the alpha mode. Modes the backend cannot present
// yield an error matching ErrUnimplemented and leave the mode unchanged.
func (s *Surface) SetAlphaMode(m AlphaMode) error {
	if !m.IsValid() || !s.caps.SupportsAlpha(m) {
		return fmt.Errorf("%w: %s cannot present alpha mode %v", ErrUnimplemented, s.ctx.driver, m)
	}
	if m == s.alpha {
		return nil
	}
	if as, ok := s.backend.(AlphaSetter); ok {
		if err := as.SetAlphaMode(m); err != nil {
			return wrapBackend("set alpha mode", err)
		}
	}
	s.alpha = m
	return nil
}

// Resize sets the surface dimensions. It is cheap when nothing changes, so
// callers may invoke it every frame.
//
// A real change reallocates the back slot, whose age drops to 0. The other
// slot keeps its contents until it becomes the back slot again and is then
// reallocated at the new size.
func (s *Surface) Resize(width, height int) error {
	s.checkOpen()
	if s.out != nil {
		panic("swbuf: Resize while a buffer is outstanding")
	}
	if err := s.checkSize(width, height); err != nil {
		return err
	}
	if width == s.width && height == s.height {
		return nil
	}

	s.width, s.height = width, height
	s.history.Reset()
	s.allocate(s.back)
	return nil
}

func (s *Surface) checkOpen() {
	if s.closed {
		panic("swbuf: use of closed Surface")
	}
}

func (s *Surface) checkSize(width, height int) error {
	switch {
	case width <= 0 || height <= 0:
		return &SizeError{Width: width, Height: height, Reason: "dimensions must be positive"}
	case uint64(width) > math.MaxUint32 || uint64(height) > math.MaxUint32:
		return &SizeError{Width: width, Height: height, Reason: "dimension exceeds 32 bits"}
	case width > maxPixels/height:
		return &SizeError{Width: width, Height: height, Reason: "pixel count not addressable"}
	case s.caps.MaxWidth > 0 && width > s.caps.MaxWidth:
		return &SizeError{Width: width, Height: height, Reason: fmt.Sprintf("backend limits width to %d", s.caps.MaxWidth)}
	case s.caps.MaxHeight > 0 && height > s.caps.MaxHeight:
		return &SizeError{Width: width, Height: height, Reason: fmt.Sprintf("backend limits height to %d", s.caps.MaxHeight)}
	}
	return nil
}

func (s *Surface) allocate(i int) {
	s.slots[i] = slot{
		pixels: make([]Pixel, s.width*s.height),
		width:  s.width,
		height: s.height,
	}
	s.allocs++
	Logger().Debug("swbuf: allocate slot", "slot", i, "width", s.width, "height", s.height)
}

// BufferMut returns exclusive access to the back slot for one frame.
//
// It panics if the surface has not been sized or a previous buffer has
// not been presented or discarded. It may block until the backend
// releases the slot; a failed wait is returned as a platform error and the
// surface stays usable.
func (s *Surface) BufferMut() (*Buffer, error) {
	s.checkOpen()
	if s.width == 0 || s.height == 0 {
		panic("swbuf: BufferMut before Resize")
	}
	if s.out != nil {
		panic("swbuf: BufferMut while a buffer is outstanding")
	}

	if r, ok := s.backend.(Releaser); ok && s.caps.RetainsSlots {
		if err := r.WaitReleased(s.back); err != nil {
			return nil, wrapBackend("wait for slot release", err)
		}
	}

	sl := &s.slots[s.back]
	if sl.width != s.width || sl.height != s.height {
		s.allocate(s.back)
	}

	b := &Buffer{s: s, slot: s.back, pixels: sl.pixels, width: sl.width, height: sl.height, age: sl.age}
	s.out = b
	return b, nil
}

// DamageSince returns the region changed by presentations made after a
// buffer of the given age was on screen. The second result is false when
// the caller must redraw everything.
func (s *Surface) DamageSince(age uint8) (Rect, bool) {
	return s.history.Since(age)
}

// Fetch reads back the displayed contents at the current size. Backends
// without read-back yield ErrUnimplemented.
func (s *Surface) Fetch() ([]Pixel, error) {
	f, ok := s.backend.(Fetcher)
	if !ok {
		return nil, fmt.Errorf("%w: %s cannot fetch", ErrUnimplemented, s.ctx.driver)
	}
	if s.width == 0 || s.height == 0 {
		return nil, &SizeError{Reason: "surface not sized"}
	}
	px, err := f.Fetch(s.width, s.height)
	if err != nil {
		return nil, wrapBackend("fetch", err)
	}
	return px, nil
}

// Close releases the backend. Close is idempotent; the surface cannot be
// used afterwards.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.out = nil
	s.width, s.height = 0, 0
	s.slots = nil
	return s.closeBackend()
}

func (s *Surface) closeBackend() error {
	cl, ok := s.backend.(io.Closer)
	if !ok {
		return nil
	}
	if err := cl.Close(); err != nil {
		Logger().Warn("swbuf: close surface backend", "driver", s.ctx.driver, "error", err)
		return wrapBackend("close surface", err)
	}
	return nil
}

// releaseBackend undoes OpenSurface after a construction failure. The
// window handle stays usable when the backend can detach from it.
func (s *Surface) releaseBackend() {
	if d, ok := s.backend.(Detacher); ok {
		if err := d.Detach(); err != nil {
			Logger().Warn("swbuf: detach surface backend", "driver", s.ctx.driver, "error", err)
		}
		return
	}
	_ = s.closeBackend()
}

// present submits the slot held by b and swaps on success. A rejected
// damage list leaves the surface untouched; a failed submit invalidates the
// slot's contents.
func (s *Surface) present(b *Buffer, rects []Rect) error {
	s.checkOpen()
	for _, r := range rects {
		if err := damage.Validate(r, b.width, b.height); err != nil {
			return &DamageError{Rect: r, Err: err}
		}
	}

	bounds, _ := damage.Union(rects)
	submitted := rects
	if s.caps.SingleDamageRegion && len(rects) > 1 {
		submitted = []Rect{bounds}
	}

	err := s.backend.Submit(Frame{
		Slot:   b.slot,
		Pixels: b.pixels,
		Width:  b.width,
		Height: b.height,
		Alpha:  s.alpha,
		Damage: submitted,
	})
	if err != nil {
		// The slot now holds a frame that never reached the screen.
		s.slots[b.slot].age = 0
		return wrapBackend("submit frame", err)
	}

	s.swap(bounds)
	Logger().Debug("swbuf: present", "slot", b.slot, "damage", bounds.String(), "rects", len(submitted))
	return nil
}

// swap makes the back slot the front slot.
func (s *Surface) swap(bounds Rect) {
	for i := range s.slots {
		switch {
		case i == s.back:
			s.slots[i].age = 1
		case s.slots[i].age > 0 && s.slots[i].age < math.MaxUint8:
			s.slots[i].age++
		}
	}
	s.history.Push(bounds)
	s.back = (s.back + 1) % len(s.slots)
}
