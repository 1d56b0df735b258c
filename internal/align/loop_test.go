// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package align

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/relabs-tech/arenafit/internal/calibration"
	"github.com/relabs-tech/arenafit/internal/geom"
	"github.com/relabs-tech/arenafit/internal/pose"
	"github.com/relabs-tech/arenafit/internal/scene"
)

const degTol = 1e-5

type fakeSource struct {
	sample pose.Sample
	err    error
	calls  int
}

func (f *fakeSource) RigidBody(name string) (pose.Sample, error) {
	f.calls++
	if f.err != nil {
		return pose.Sample{}, f.err
	}
	s := f.sample
	s.Body = name
	return s, nil
}

func newTestLoop(src pose.Source, yawOffset float64) *Loop {
	root := scene.NewNode("root")
	arena := scene.NewNode("Arena")
	marker := scene.NewNode("Sphere")
	root.AddChild(arena)
	root.AddChild(marker)
	return NewLoop(src, "Arena", calibration.NewState(yawOffset, 39), arena, marker)
}

func TestTick_IdentityWithOffset(t *testing.T) {
	src := &fakeSource{sample: pose.Sample{Position: geom.Vec3{1, 2, 3}, Rotation: geom.QuatIdentity}}
	l := newTestLoop(src, 10)

	if err := l.Tick(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if l.Arena.Position() != (geom.Vec3{1, 2, 3}) {
		t.Errorf("Expected arena position (1,2,3), got %v", l.Arena.Position())
	}
	e := l.Arena.Euler()
	if math.Abs(e.Yaw-10) > degTol || math.Abs(e.Pitch) > degTol || math.Abs(e.Roll) > degTol {
		t.Errorf("Expected yaw=10 pitch=roll=0, got %+v", e)
	}
	if l.Marker.Position() != (geom.Vec3{1, 2, 3}) {
		t.Errorf("Expected marker at tracker position, got %v", l.Marker.Position())
	}
	if l.Marker.Rotation() != geom.QuatIdentity {
		t.Errorf("Expected marker rotation untouched, got %v", l.Marker.Rotation())
	}
	if got := l.Arena.World().Translation(); got != (geom.Vec3{1, 2, 3}) {
		t.Errorf("Expected world matrix updated, got %v", got)
	}
	if l.Outcome() != OutcomeOK {
		t.Errorf("Expected OutcomeOK, got %v", l.Outcome())
	}
}

func TestTick_OffsetNotAccumulated(t *testing.T) {
	raw := geom.FromEuler(geom.Euler{Pitch: 5, Yaw: 20, Roll: -3})
	src := &fakeSource{sample: pose.Sample{Rotation: raw}}
	l := newTestLoop(src, 15)

	for i := 0; i < 50; i++ {
		if err := l.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	e := l.Arena.Euler()
	if math.Abs(e.Yaw-35) > degTol || math.Abs(e.Pitch-5) > degTol || math.Abs(e.Roll+3) > degTol {
		t.Errorf("Expected (5, 35, -3) after repeated ticks, got %+v", e)
	}
}

func TestTick_OffsetThenNegativeRestores(t *testing.T) {
	raws := []geom.Euler{
		{Pitch: 0, Yaw: 0, Roll: 0},
		{Pitch: 30, Yaw: -120, Roll: 45},
		{Pitch: -60, Yaw: 170, Roll: -10},
	}
	for _, r := range raws {
		raw := geom.FromEuler(r)
		src := &fakeSource{sample: pose.Sample{Rotation: raw}}
		l := newTestLoop(src, 23)
		if err := l.Tick(); err != nil {
			t.Fatal(err)
		}

		// Feed the offset result back as the raw pose with -d.
		src.sample.Rotation = l.Arena.Rotation()
		l.State.YawOffset = -23
		if err := l.Tick(); err != nil {
			t.Fatal(err)
		}
		if d := math.Abs(l.Arena.Rotation().Dot(raw)); d < 1-1e-10 {
			t.Errorf("%+v: Expected previous rotation restored, dot=%v", r, d)
		}
	}
}

func TestTick_TrackingLostKeepsLastPose(t *testing.T) {
	src := &fakeSource{sample: pose.Sample{Position: geom.Vec3{0.5, 0, 0.25}, Rotation: geom.AxisAngle(geom.Vec3{0, 1, 0}, 30)}}
	l := newTestLoop(src, -100.5)
	if err := l.Tick(); err != nil {
		t.Fatal(err)
	}
	pos, rot := l.Arena.Position(), l.Arena.Rotation()
	markerPos := l.Marker.Position()

	src.err = pose.ErrNotFound
	err := l.Tick()
	if !errors.Is(err, ErrTrackingLost) {
		t.Fatalf("Expected ErrTrackingLost, got %v", err)
	}
	if l.Arena.Position() != pos || l.Arena.Rotation() != rot {
		t.Errorf("Expected arena frozen at last pose")
	}
	if l.Marker.Position() != markerPos {
		t.Errorf("Expected marker frozen at last pose")
	}
	if l.Outcome() != OutcomeLost {
		t.Errorf("Expected OutcomeLost, got %v", l.Outcome())
	}

	// Recovers on the next tick.
	src.err = nil
	src.sample.Position = geom.Vec3{0, 0, 0}
	if err := l.Tick(); err != nil {
		t.Fatalf("Expected recovery, got %v", err)
	}
	if l.Arena.Position() != (geom.Vec3{}) {
		t.Errorf("Expected new position after recovery, got %v", l.Arena.Position())
	}
}

func TestTick_InvalidPoseDropped(t *testing.T) {
	src := &fakeSource{sample: pose.Sample{Position: geom.Vec3{1, 1, 1}, Rotation: geom.QuatIdentity}}
	l := newTestLoop(src, 0)
	if err := l.Tick(); err != nil {
		t.Fatal(err)
	}

	bad := []pose.Sample{
		{Position: geom.Vec3{math.NaN(), 0, 0}, Rotation: geom.QuatIdentity},
		{Position: geom.Vec3{2, 2, 2}, Rotation: geom.Quat{0, math.Inf(1), 0, 1}},
		{Position: geom.Vec3{2, 2, 2}, Rotation: geom.Quat{}},
	}
	for _, s := range bad {
		src.sample = s
		if err := l.Tick(); !errors.Is(err, ErrInvalidPose) {
			t.Errorf("Expected ErrInvalidPose for %+v, got %v", s, err)
		}
		if l.Arena.Position() != (geom.Vec3{1, 1, 1}) {
			t.Errorf("Expected previous position retained, got %v", l.Arena.Position())
		}
		if l.Outcome() != OutcomeInvalid {
			t.Errorf("Expected OutcomeInvalid, got %v", l.Outcome())
		}
	}
}

func TestTick_WouldBlockUsesCachedPose(t *testing.T) {
	src := &fakeSource{err: pose.ErrWouldBlock}
	l := newTestLoop(src, 0)

	if err := l.Tick(); !errors.Is(err, ErrTrackingLost) {
		t.Fatalf("Expected ErrTrackingLost with no cached pose, got %v", err)
	}

	src.err = nil
	src.sample = pose.Sample{Position: geom.Vec3{3, 0, 0}, Rotation: geom.QuatIdentity}
	if err := l.Tick(); err != nil {
		t.Fatal(err)
	}

	src.err = pose.ErrWouldBlock
	if err := l.Tick(); err != nil {
		t.Fatalf("Expected cached pose to be used, got %v", err)
	}
	if l.Outcome() != OutcomeStale {
		t.Errorf("Expected OutcomeStale, got %v", l.Outcome())
	}
	if l.Arena.Position() != (geom.Vec3{3, 0, 0}) {
		t.Errorf("Expected cached position, got %v", l.Arena.Position())
	}
}

func TestTick_OldSampleFlaggedStale(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	src := &fakeSource{sample: pose.Sample{Rotation: geom.QuatIdentity, Time: now.Add(-2 * time.Second)}}
	l := newTestLoop(src, 0)
	l.StaleAfter = 500 * time.Millisecond
	l.now = func() time.Time { return now }

	if err := l.Tick(); err != nil {
		t.Fatal(err)
	}
	if l.Outcome() != OutcomeStale {
		t.Errorf("Expected OutcomeStale, got %v", l.Outcome())
	}

	src.sample.Time = now.Add(-100 * time.Millisecond)
	_ = l.Tick()
	if l.Outcome() != OutcomeOK {
		t.Errorf("Expected OutcomeOK, got %v", l.Outcome())
	}
	if l.Ticks() != 2 {
		t.Errorf("Expected 2 ticks, got %d", l.Ticks())
	}
}
