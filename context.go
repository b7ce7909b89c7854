package swbuf

import "io"

// Context is the backend state for one display connection, shared by all
// surfaces opened against it.
type Context struct {
	driver  string
	backend ContextBackend
	closed  bool
}

// Driver returns the name of the driver that accepted the display.
func (c *Context) Driver() string { return c.driver }

// Backend returns the driver's context state.
func (c *Context) Backend() ContextBackend { return c.backend }

// Close releases driver state if the backend holds any. Surfaces opened
// from c should be closed first. Close is idempotent.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if cl, ok := c.backend.(io.Closer); ok {
		if err := cl.Close(); err != nil {
			return wrapBackend("close context", err)
		}
	}
	return nil
}
