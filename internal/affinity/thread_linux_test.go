//go:build linux

package affinity

import (
	"sync"
	"testing"

	"golang.org/x/sys/unix"
)

func TestDoSameOSThread(t *testing.T) {
	th := New("test-tid")

	var first int
	if err := th.Do(func() error { first = unix.Gettid(); return nil }); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	tids := make([]int, 16)
	for i := range tids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = th.Do(func() error { tids[i] = unix.Gettid(); return nil })
		}()
	}
	wg.Wait()

	for i, tid := range tids {
		if tid != first {
			t.Errorf("call %d ran on thread %d, want %d", i, tid, first)
		}
	}
	if first == unix.Gettid() {
		t.Errorf("worker shares the test goroutine's thread %d", first)
	}
}
