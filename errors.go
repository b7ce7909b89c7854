package swbuf

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every error returned by swbuf matches exactly one of
// these under errors.Is.
var (
	// ErrUnsupported means no driver or backend accepted the handle. The
	// caller still owns the handle and may try another strategy.
	ErrUnsupported = errors.New("swbuf: unsupported handle")

	// ErrIncompleteHandle means a required handle is missing or nil.
	ErrIncompleteHandle = errors.New("swbuf: incomplete handle")

	// ErrSizeOutOfRange means the requested dimensions are zero or not
	// representable.
	ErrSizeOutOfRange = errors.New("swbuf: size out of range")

	// ErrDamageOutOfRange means a damage rect lies outside the surface or
	// cannot be expressed in the backend's coordinate space.
	ErrDamageOutOfRange = errors.New("swbuf: damage out of range")

	// ErrPlatform wraps failures of the underlying display system.
	ErrPlatform = errors.New("swbuf: platform error")

	// ErrUnimplemented means the backend does not support the operation.
	ErrUnimplemented = errors.New("swbuf: unimplemented")
)

// UnsupportedError reports that no driver matched the given handles.
// Display and Window carry the caller's handles back unchanged.
type UnsupportedError struct {
	Display any
	Window  any

	// Tried lists the drivers that were probed, in order.
	Tried []string
}

func (e *UnsupportedError) Error() string {
	var what string
	switch {
	case e.Window != nil:
		what = fmt.Sprintf("window handle %T", e.Window)
	default:
		what = fmt.Sprintf("display handle %T", e.Display)
	}
	if len(e.Tried) == 0 {
		return "swbuf: no driver for " + what
	}
	return "swbuf: no driver for " + what + " (tried " + strings.Join(e.Tried, ", ") + ")"
}

// Is reports whether target is ErrUnsupported.
func (e *UnsupportedError) Is(target error) bool { return target == ErrUnsupported }

// DriverNotFoundError indicates a named driver is not registered.
type DriverNotFoundError struct {
	Name string
}

func (e *DriverNotFoundError) Error() string {
	return "swbuf: driver not found: " + e.Name
}

// Is reports whether target is ErrUnsupported.
func (e *DriverNotFoundError) Is(target error) bool { return target == ErrUnsupported }

// SizeError reports rejected surface dimensions.
type SizeError struct {
	Width, Height int
	Reason        string
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("swbuf: size %dx%d out of range: %s", e.Width, e.Height, e.Reason)
}

// Is reports whether target is ErrSizeOutOfRange.
func (e *SizeError) Is(target error) bool { return target == ErrSizeOutOfRange }

// DamageError reports a rejected damage rect.
type DamageError struct {
	Rect Rect
	Err  error
}

func (e *DamageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("swbuf: damage %v: %v", e.Rect, e.Err)
	}
	return fmt.Sprintf("swbuf: damage %v out of range", e.Rect)
}

func (e *DamageError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDamageOutOfRange.
func (e *DamageError) Is(target error) bool { return target == ErrDamageOutOfRange }

// PlatformError wraps an error from the display system with context.
type PlatformError struct {
	Msg string
	Err error
}

func (e *PlatformError) Error() string {
	if e.Err == nil {
		return "swbuf: " + e.Msg
	}
	return "swbuf: " + e.Msg + ": " + e.Err.Error()
}

func (e *PlatformError) Unwrap() error { return e.Err }

// Is reports whether target is ErrPlatform.
func (e *PlatformError) Is(target error) bool { return target == ErrPlatform }

// Platform returns a *PlatformError. Backends use it to report failures of
// the system they drive.
func Platform(msg string, err error) error {
	return &PlatformError{Msg: msg, Err: err}
}

// classified reports whether err already carries one of the swbuf kinds.
func classified(err error) bool {
	for _, k := range []error{ErrUnsupported, ErrIncompleteHandle, ErrSizeOutOfRange,
		ErrDamageOutOfRange, ErrPlatform, ErrUnimplemented} {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}

// wrapBackend passes classified errors through and wraps the rest as
// platform errors.
func wrapBackend(msg string, err error) error {
	if err == nil || classified(err) {
		return err
	}
	return Platform(msg, err)
}
