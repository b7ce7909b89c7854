// Package parallel splits row-oriented pixel work across a pool of
// goroutines.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool runs closures on a fixed set of goroutines.
//
// Each worker owns a queue and steals from the others when its own queue
// is empty, so bands that take longer (wide formats, float decoding) do not
// leave the rest of the pool idle.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool

	// life is held for reading while work is enqueued and for writing by
	// Close, so nothing is queued after the workers start draining.
	life sync.RWMutex
}

// NewWorkerPool starts a pool. If workers is 0 or negative, GOMAXPROCS is
// used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), max(4*workers, 8))
	}
	p.running.Store(true)
	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case fn := <-own:
			fn()
			continue
		default:
		}
		if fn := p.steal(id); fn != nil {
			fn()
			continue
		}
		select {
		case <-p.done:
			p.drain(own)
			return
		case fn := <-own:
			fn()
		}
	}
}

func (p *WorkerPool) drain(q chan func()) {
	for {
		select {
		case fn := <-q:
			fn()
		default:
			return
		}
	}
}

func (p *WorkerPool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case fn := <-p.queues[i]:
			return fn
		default:
		}
	}
	return nil
}

// ExecuteAll runs every closure and waits for them. On a closed pool the
// closures run on the calling goroutine.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}
	p.life.RLock()
	if !p.running.Load() {
		p.life.RUnlock()
		for _, fn := range work {
			fn()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(work))
	for i, fn := range work {
		p.queues[i%p.workers] <- func() {
			defer wg.Done()
			fn()
		}
	}
	p.life.RUnlock()
	wg.Wait()
}

// Rows calls fn over [0, n) split into contiguous bands of at least
// minRows rows, one band per worker at most. fn receives the half-open
// band [lo, hi). Small inputs run on the calling goroutine.
func (p *WorkerPool) Rows(n, minRows int, fn func(lo, hi int)) {
	bands := min(p.workers, n/max(minRows, 1))
	if bands <= 1 {
		if n > 0 {
			fn(0, n)
		}
		return
	}
	work := make([]func(), bands)
	for b := range bands {
		lo, hi := b*n/bands, (b+1)*n/bands
		work[b] = func() { fn(lo, hi) }
	}
	p.ExecuteAll(work)
}

// Close stops the workers after queued work completes. It is safe to call
// more than once.
func (p *WorkerPool) Close() {
	p.life.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.life.Unlock()
		return
	}
	close(p.done)
	p.life.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool accepts work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
