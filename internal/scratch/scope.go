package scratch

import (
	"context"
	"sync"
)

// Scope collects artifacts whose lifetime ends with one pipeline run.
// Close releases them in reverse order of tracking; calling Close again is a no-op.
type Scope struct {
	manager Manager

	mu        sync.Mutex
	artifacts []*Artifact
	closed    bool
}

// Track hands ownership of a to the scope. Tracking after Close releases a immediately.
func (s *Scope) Track(ctx context.Context, a *Artifact) {
	if a == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.manager.Release(ctx, a)
		return
	}
	s.artifacts = append(s.artifacts, a)
	s.mu.Unlock()
}

// Close releases every tracked artifact.
func (s *Scope) Close(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	artifacts := s.artifacts
	s.artifacts = nil
	s.mu.Unlock()

	for i := len(artifacts) - 1; i >= 0; i-- {
		s.manager.Release(ctx, artifacts[i])
	}
}
