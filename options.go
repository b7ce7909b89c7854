package swbuf

// ContextOption configures NewContext.
//
// Example:
//
//	ctx, err := swbuf.NewContext(display, swbuf.WithDriver("fbdev"))
type ContextOption func(*contextOptions)

type contextOptions struct {
	driver string
}

func defaultContextOptions() contextOptions {
	return contextOptions{}
}

// WithDriver restricts probing to the named driver.
func WithDriver(name string) ContextOption {
	return func(o *contextOptions) {
		o.driver = name
	}
}

// SurfaceOption configures NewSurface.
//
// Example:
//
//	s, err := swbuf.NewSurface(ctx, window,
//	    swbuf.WithSize(640, 480),
//	    swbuf.WithAlphaMode(swbuf.AlphaPremultiplied))
type SurfaceOption func(*surfaceOptions)

type surfaceOptions struct {
	alpha         AlphaMode
	single        bool
	width, height int
}

func defaultSurfaceOptions() surfaceOptions {
	return surfaceOptions{alpha: AlphaOpaque}
}

// WithAlphaMode requests an alpha mode at creation. The backend must
// support it.
func WithAlphaMode(m AlphaMode) SurfaceOption {
	return func(o *surfaceOptions) {
		o.alpha = m
	}
}

// WithSingleBuffer uses one storage slot instead of two. It suits backends
// that copy frames during Submit: the slot then always equals the screen
// and every buffer after the first present has age 1. Backends that
// retain slots reject it.
func WithSingleBuffer() SurfaceOption {
	return func(o *surfaceOptions) {
		o.single = true
	}
}

// WithSize sizes the surface at creation, as if Resize were called.
func WithSize(width, height int) SurfaceOption {
	return func(o *surfaceOptions) {
		o.width, o.height = width, height
	}
}
