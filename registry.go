package swbuf

import (
	"errors"
	"reflect"
	"sort"
	"sync"
)

// DriverEntry represents a registered driver.
type DriverEntry struct {
	// Name is the unique identifier for this driver.
	Name string

	// Priority determines probing order (higher = probed first).
	// Conventional priorities:
	//   - 50: GPU texture upload through a host toolkit
	//   - 20: native devices
	//   - 10: terminals and in-memory targets
	Priority int

	Driver Driver
}

// globalRegistry is the default registry.
var globalRegistry = &Registry{}

// Registry holds the drivers NewContext probes.
//
// Drivers register themselves from init, so the set linked into a binary
// is fixed at build time:
//
//	func init() {
//	    swbuf.Register("fbdev", 20, driver{})
//	}
//
// Importing a backend package for its side effect enables it:
//
//	import _ "github.com/gogpu/swbuf/backend/fbdev"
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*DriverEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and NewContext.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*DriverEntry)}
}

// Register adds a driver to the global registry. Registering a name that
// already exists replaces the previous entry.
func Register(name string, priority int, d Driver) {
	globalRegistry.Register(name, priority, d)
}

// Unregister removes a driver from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// Drivers returns registered driver names in probing order.
func Drivers() []string {
	return globalRegistry.Drivers()
}

// NewContext opens a context for display using the global registry.
func NewContext(display any, opts ...ContextOption) (*Context, error) {
	return globalRegistry.NewContext(display, opts...)
}

// Register adds a driver to this registry.
func (r *Registry) Register(name string, priority int, d Driver) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*DriverEntry)
	}
	r.entries[name] = &DriverEntry{Name: name, Priority: priority, Driver: d}
}

// Unregister removes a driver from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// Drivers returns registered driver names sorted by priority, highest
// first, with ties broken by name.
func (r *Registry) Drivers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.sorted()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Get returns a copy of the entry for name.
func (r *Registry) Get(name string) (DriverEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return DriverEntry{}, false
	}
	return *e, true
}

// NewContext probes drivers in priority order and returns a context from
// the first one that accepts display. A driver that fails for any reason
// other than ErrUnsupported ends the search with its error.
//
// When every driver declines, the returned *UnsupportedError carries
// display back to the caller.
func (r *Registry) NewContext(display any, opts ...ContextOption) (*Context, error) {
	if isNilHandle(display) {
		return nil, ErrIncompleteHandle
	}

	o := defaultContextOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r.mu.RLock()
	var candidates []DriverEntry
	if o.driver != "" {
		e, ok := r.entries[o.driver]
		if !ok {
			r.mu.RUnlock()
			return nil, &DriverNotFoundError{Name: o.driver}
		}
		candidates = []DriverEntry{*e}
	} else {
		candidates = r.sorted()
	}
	r.mu.RUnlock()

	log := Logger()
	tried := make([]string, 0, len(candidates))
	for _, e := range candidates {
		be, err := e.Driver.OpenContext(display)
		if err == nil {
			log.Info("swbuf: driver selected", "driver", e.Name, "display", reflect.TypeOf(display).String())
			return &Context{driver: e.Name, backend: be}, nil
		}
		if !errors.Is(err, ErrUnsupported) {
			return nil, wrapBackend("open context with "+e.Name, err)
		}
		log.Debug("swbuf: driver declined display", "driver", e.Name)
		tried = append(tried, e.Name)
	}
	return nil, &UnsupportedError{Display: display, Tried: tried}
}

// sorted returns entries by priority (highest first), then name.
// Must be called with lock held.
func (r *Registry) sorted() []DriverEntry {
	entries := make([]DriverEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// isNilHandle reports whether h is nil or a typed nil pointer, map, slice,
// channel, function or interface.
func isNilHandle(h any) bool {
	if h == nil {
		return true
	}
	v := reflect.ValueOf(h)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}
