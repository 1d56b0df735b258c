// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package pose

import (
	"math"
	"time"

	"github.com/relabs-tech/arenafit/internal/geom"
)

type mockSource struct {
	start  time.Time
	bodies map[string]bool
	now    func() time.Time
}

// NewMockSource creates a mock tracker that reports the given rigid
// bodies drifting slowly around the tracker origin.
func NewMockSource(bodies ...string) Source {
	m := &mockSource{start: time.Now(), bodies: map[string]bool{}, now: time.Now}
	for _, b := range bodies {
		m.bodies[b] = true
	}
	return m
}

func (m *mockSource) RigidBody(name string) (Sample, error) {
	if !m.bodies[name] {
		return Sample{}, ErrNotFound
	}
	now := m.now()
	elapsed := now.Sub(m.start).Seconds()

	return Sample{
		Body: name,
		Position: geom.Vec3{
			0.05 * math.Sin(elapsed*0.5),
			0.6,
			0.05 * math.Cos(elapsed*0.5),
		},
		Rotation: geom.FromEuler(geom.Euler{
			Pitch: 2 * math.Sin(elapsed*0.3),
			Yaw:   math.Mod(elapsed*10, 360),
			Roll:  2 * math.Cos(elapsed*0.3),
		}),
		Time: now,
	}, nil
}
