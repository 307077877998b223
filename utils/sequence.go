package utils

import "sync"

// VersionGate hands out increasing sequence numbers to fetches and accepts
// a result only if no newer one has been applied yet.
type VersionGate struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
}

func (g *VersionGate) Begin() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.issued++
	return g.issued
}

// TryApply reports whether seq is newer than the last applied sequence,
// recording it if so.
func (g *VersionGate) TryApply(seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq <= g.applied {
		return false
	}
	g.applied = seq
	return true
}

func (g *VersionGate) Applied() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.applied
}
