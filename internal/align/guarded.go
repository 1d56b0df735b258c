// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package align

import (
	"sync"

	"github.com/relabs-tech/arenafit/internal/calibration"
)

// Guarded serializes a Session for drivers that tick and deliver input on
// different goroutines. One mutex covers the calibration state and the
// node tree for the whole of each handler.
type Guarded struct {
	mu sync.Mutex
	s  *Session
}

func NewGuarded(s *Session) *Guarded {
	return &Guarded{s: s}
}

func (g *Guarded) KeyRelease(k calibration.Key) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.s.KeyRelease(k)
}

func (g *Guarded) Resize(width, height int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.s.Resize(width, height)
}

func (g *Guarded) Tick() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.s.Tick()
}

func (g *Guarded) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.s.Snapshot()
}

// Do runs fn with the lock held, e.g. to draw a consistent frame.
func (g *Guarded) Do(fn func(*Session)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.s)
}
