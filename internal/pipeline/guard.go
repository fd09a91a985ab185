package pipeline

import "sync"

// JobGuard rejects a second concurrent run for the same job id. It is
// an explicit injectable object rather than a package-level set so it
// can be scoped per test and shared across orchestrators in a process.
type JobGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewJobGuard returns an empty guard.
func NewJobGuard() *JobGuard {
	return &JobGuard{inFlight: make(map[string]struct{})}
}

// TryAcquire reserves the id. Returns false when the id is already
// held; the caller must fail fast with ErrAlreadyProcessing.
func (g *JobGuard) TryAcquire(jobID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, held := g.inFlight[jobID]; held {
		return false
	}
	g.inFlight[jobID] = struct{}{}
	return true
}

// Release frees the id. Safe to call for ids that are not held. Callers
// must defer this right after a successful TryAcquire so a crashed run
// cannot permanently block retries.
func (g *JobGuard) Release(jobID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, jobID)
}
