// Package affinity confines OS resources with thread affinity to a single
// dedicated OS thread.
//
// Some native handles are only valid on the thread that created them, yet
// the surfaces using them move freely between goroutines. A Thread owns one
// locked OS thread per resource class; callers hand it closures and block
// on their own reply only. The thread starts on first use and lives until
// the process exits.
package affinity

import (
	"fmt"
	"runtime"
	"sync"
)

// Thread executes functions serially on one locked OS thread.
//
// Thread safety: Thread is safe for concurrent use. Commands from many
// goroutines are queued and run one at a time in arrival order.
type Thread struct {
	name string
	once sync.Once
	cmds chan command
}

// command pairs a function with the one-shot channel its result goes to.
type command struct {
	fn    func() error
	reply chan result
}

type result struct {
	err       error
	recovered any
	panicked  bool
}

var (
	registryMu sync.Mutex
	registry   = map[string]*Thread{}
)

// New returns the Thread for the named resource class, creating it on the
// first call. The OS thread itself is started lazily by the first Do.
func New(name string) *Thread {
	registryMu.Lock()
	defer registryMu.Unlock()

	if t, ok := registry[name]; ok {
		return t
	}
	t := &Thread{name: name, cmds: make(chan command)}
	registry[name] = t
	return t
}

// Lookup returns the Thread for name if New has been called for it.
func Lookup(name string) (*Thread, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	t, ok := registry[name]
	return t, ok
}

// Name returns the resource class name.
func (t *Thread) Name() string { return t.name }

// Do runs fn on the thread and returns its error. A panic in fn is
// re-raised in the caller's goroutine.
//
// fn must not call Do on the same Thread: the thread is busy running fn and
// never receives the nested command, so the call deadlocks. fn is already
// on the thread and can do the nested work inline. Work that must run after
// fn returns can be queued by Do from another goroutine.
func (t *Thread) Do(fn func() error) error {
	t.once.Do(t.start)

	reply := make(chan result, 1)
	t.cmds <- command{fn: fn, reply: reply}
	r := <-reply
	if r.panicked {
		panic(fmt.Sprintf("affinity: %s: %v", t.name, r.recovered))
	}
	return r.err
}

func (t *Thread) start() {
	started := make(chan struct{})
	go t.loop(started)
	<-started
}

func (t *Thread) loop(started chan<- struct{}) {
	runtime.LockOSThread()
	close(started)

	for cmd := range t.cmds {
		cmd.reply <- run(cmd.fn)
	}
}

func run(fn func() error) (r result) {
	defer func() {
		if v := recover(); v != nil {
			r = result{recovered: v, panicked: true}
		}
	}()
	return result{err: fn()}
}
