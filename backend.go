package swbuf

// Driver opens backend state for one family of display handles.
//
// OpenContext must return an error matching ErrUnsupported, and nothing
// else, when the display handle is not one it understands; NewContext then
// moves on to the next driver.
type Driver interface {
	Name() string
	OpenContext(display any) (ContextBackend, error)
}

// ContextBackend is driver state shared by every surface of one display.
// It may implement io.Closer.
type ContextBackend interface {
	// OpenSurface binds a window handle. A handle of the wrong kind is
	// reported with an error matching ErrUnsupported.
	OpenSurface(window any) (SurfaceBackend, error)
}

// SurfaceBackend submits frames to one drawable. It may implement
// io.Closer, Detacher, Releaser, Fetcher and AlphaSetter.
type SurfaceBackend interface {
	Capabilities() Capabilities

	// Submit shows the frame. By the time it returns the pixels are either
	// visible or on their way.
	Submit(Frame) error
}

// Releaser is implemented by backends that keep reading slot memory after
// Submit.
type Releaser interface {
	// WaitReleased blocks until the backend no longer reads slot. It is the
	// only operation in swbuf that may block indefinitely.
	WaitReleased(slot int) error
}

// Detacher is implemented by backends whose window handle outlives a
// surface. NewSurface calls Detach instead of Close when it fails after
// OpenSurface, so the caller gets the handle back and may bind it again.
type Detacher interface {
	Detach() error
}

// Fetcher is implemented by backends that can read back what is displayed.
type Fetcher interface {
	Fetch(width, height int) ([]Pixel, error)
}

// AlphaSetter is implemented by backends that must reconfigure when the
// alpha mode changes.
type AlphaSetter interface {
	SetAlphaMode(AlphaMode) error
}
