package gate

import "sync"

// Gate tracks identifiers that currently have work in flight. It admits each
// identifier at most once until the holder leaves, so redundant pipelines for
// the same user are dropped instead of queued.
type Gate struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func New() *Gate {
	return &Gate{inFlight: make(map[string]struct{})}
}

// TryEnter admits id if it is not already in flight. The caller that gets
// true must call Leave on every exit path.
func (g *Gate) TryEnter(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.inFlight[id]; ok {
		return false
	}
	g.inFlight[id] = struct{}{}
	return true
}

func (g *Gate) Leave(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, id)
}

func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.inFlight)
}
