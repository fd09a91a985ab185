package pipeline

import (
	"sync"
	"testing"
)

func TestJobGuard_AcquireReleaseCycle(t *testing.T) {
	g := NewJobGuard()

	if !g.TryAcquire("job-1") {
		t.Fatal("first acquire should succeed")
	}
	if g.TryAcquire("job-1") {
		t.Fatal("second acquire of a held id should fail")
	}
	if !g.TryAcquire("job-2") {
		t.Fatal("unrelated id should acquire")
	}

	g.Release("job-1")
	if !g.TryAcquire("job-1") {
		t.Fatal("acquire after release should succeed")
	}
}

func TestJobGuard_ReleaseUnheldIsSafe(t *testing.T) {
	g := NewJobGuard()
	g.Release("never-held") // must not panic
}

func TestJobGuard_ConcurrentAcquire(t *testing.T) {
	g := NewJobGuard()

	const goroutines = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire("contested") {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	n := 0
	for range wins {
		n++
	}
	if n != 1 {
		t.Errorf("%d goroutines acquired the same id, want 1", n)
	}
}
