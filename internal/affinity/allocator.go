package affinity

// Allocator creates and destroys values of type R on a Thread.
type Allocator[R any] struct {
	t *Thread
}

// For returns an allocator for R bound to the named resource class.
func For[R any](name string) Allocator[R] {
	return Allocator[R]{t: New(name)}
}

// Thread returns the underlying thread.
func (a Allocator[R]) Thread() *Thread { return a.t }

// Allocate runs alloc on the thread and returns its value.
func (a Allocator[R]) Allocate(alloc func() (R, error)) (R, error) {
	var r R
	err := a.t.Do(func() error {
		var err error
		r, err = alloc()
		return err
	})
	return r, err
}

// Release runs free(r) on the thread.
func (a Allocator[R]) Release(free func(R) error, r R) error {
	return a.t.Do(func() error { return free(r) })
}
