// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package align

import (
	"fmt"
	"time"

	"github.com/relabs-tech/arenafit/internal/calibration"
	"github.com/relabs-tech/arenafit/internal/geom"
	"github.com/relabs-tech/arenafit/internal/pose"
	"github.com/relabs-tech/arenafit/internal/scene"
)

// Session bundles everything one calibration run mutates. Its methods are
// the callback bodies a display driver invokes; they are not safe for
// concurrent use (see Guarded).
type Session struct {
	State  *calibration.State
	Scene  *scene.Scene
	Loop   *Loop
	Fitter *Fitter
}

// NewSession wires the loop and fitter around sc and pushes the initial
// field of view into the camera.
func NewSession(sc *scene.Scene, state *calibration.State, src pose.Source, body string) *Session {
	s := &Session{
		State:  state,
		Scene:  sc,
		Loop:   NewLoop(src, body, state, sc.Arena.Node, sc.Marker.Node),
		Fitter: &Fitter{Camera: sc.Camera, State: state},
	}
	s.Fitter.OnZoom()
	return s
}

// KeyRelease applies one operator key and refits the projection when the
// field of view changed.
func (s *Session) KeyRelease(k calibration.Key) {
	if s.State.Apply(k) {
		s.Fitter.OnZoom()
	}
}

// Resize forwards a display resize to the fitter.
func (s *Session) Resize(width, height int) error {
	return s.Fitter.OnResize(width, height)
}

// Tick runs one alignment step.
func (s *Session) Tick() error {
	return s.Loop.Tick()
}

// Snapshot is a read-only copy of the session for HUDs and status topics.
type Snapshot struct {
	YawOffset       float64    `json:"yaw_offset"`
	FieldOfView     float64    `json:"fov_y"`
	Aspect          float64    `json:"aspect"`
	ArenaPosition   geom.Vec3  `json:"arena_position"`
	ArenaRotation   geom.Euler `json:"arena_rotation"`
	TrackerPosition geom.Vec3  `json:"tracker_position"`
	Tracking        string     `json:"tracking"`
	Ticks           uint64     `json:"ticks"`
	Time            time.Time  `json:"t"`
}

// Snapshot copies the current session values.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		YawOffset:     s.State.YawOffset,
		FieldOfView:   s.Scene.Camera.Projection.FovY,
		Aspect:        s.Scene.Camera.Projection.Aspect,
		ArenaPosition: s.Scene.Arena.Position(),
		ArenaRotation: s.Scene.Arena.Euler(),
		Tracking:      s.Loop.Outcome().String(),
		Ticks:         s.Loop.Ticks(),
		Time:          time.Now(),
	}
	if last, ok := s.Loop.LastSample(); ok {
		snap.TrackerPosition = last.Position
	}
	return snap
}

// Label formats the operator HUD line.
func (s Snapshot) Label() string {
	return fmt.Sprintf("off=%g, aspect=%.4f, fov_y=%g, (%.2f, %.2f, %.2f), (%.2f, %.2f, %.2f) [%s]",
		s.YawOffset, s.Aspect, s.FieldOfView,
		s.ArenaPosition[0], s.ArenaPosition[1], s.ArenaPosition[2],
		s.TrackerPosition[0], s.TrackerPosition[1], s.TrackerPosition[2],
		s.Tracking,
	)
}
