// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package pose

import (
	"errors"
	"fmt"
	"time"

	"github.com/relabs-tech/arenafit/internal/geom"
)

var (
	// ErrNotFound means the named rigid body is not reported this tick.
	ErrNotFound = errors.New("rigid body not found")
	// ErrWouldBlock means no sample is ready without waiting.
	ErrWouldBlock = errors.New("pose source would block")
)

// Sample is one rigid body reading in tracker space.
type Sample struct {
	Body     string
	Position geom.Vec3 // meters
	Rotation geom.Quat // x, y, z, w
	Time     time.Time
}

// Source is anything that can report the latest pose of a named rigid body
// without blocking the render thread.
type Source interface {
	RigidBody(name string) (Sample, error)
}

// Message is the JSON form of a Sample on the rigid body topics.
type Message struct {
	Body     string    `json:"body"`
	Position []float64 `json:"position"`
	Rotation []float64 `json:"rotation"`
	Time     time.Time `json:"t"`
	// Lost is set by the tracker bridge when the body dropped out of view.
	Lost bool `json:"lost,omitempty"`
}

// NewMessage converts s to its wire form.
func NewMessage(s Sample) Message {
	return Message{
		Body:     s.Body,
		Position: []float64{s.Position[0], s.Position[1], s.Position[2]},
		Rotation: []float64{s.Rotation[0], s.Rotation[1], s.Rotation[2], s.Rotation[3]},
		Time:     s.Time,
	}
}

// Sample validates dimensionality and converts m. Finiteness is left to
// the consumer so a bad reading can be counted where it is dropped.
func (m Message) Sample() (Sample, error) {
	pos, err := geom.Vec3FromSlice(m.Position)
	if err != nil {
		return Sample{}, fmt.Errorf("body %q position: %w", m.Body, err)
	}
	rot, err := geom.QuatFromSlice(m.Rotation)
	if err != nil {
		return Sample{}, fmt.Errorf("body %q rotation: %w", m.Body, err)
	}
	return Sample{Body: m.Body, Position: pos, Rotation: rot, Time: m.Time}, nil
}
