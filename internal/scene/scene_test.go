// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package scene

import (
	"math"
	"testing"

	"github.com/relabs-tech/arenafit/internal/geom"
)

func TestPrimitiveLoader(t *testing.T) {
	l := PrimitiveLoader{ArenaRadius: 0.5, Segments: 8}
	arena, err := l.Load("", "Arena")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(arena.Vertices) != 8 {
		t.Errorf("Expected 8 vertices, got %d", len(arena.Vertices))
	}
	if r := arena.Vertices[0].Len(); math.Abs(r-0.5) > 1e-12 {
		t.Errorf("Expected radius 0.5, got %v", r)
	}
	if _, err := l.Load("arena.obj", "Cube"); err == nil {
		t.Error("Expected error for unknown object")
	}
}

func TestScene_OutlineFollowsArena(t *testing.T) {
	l := PrimitiveLoader{ArenaRadius: 1, Segments: 4}
	arena, _ := l.Load("", "Arena")
	marker, _ := l.Load("", "Sphere")
	s := New(arena, marker, &Camera{Rotation: geom.QuatIdentity})

	if arena.Parent() != s.Root || marker.Parent() != s.Root {
		t.Fatal("Expected arena and marker under root")
	}

	_ = arena.SetPosition(geom.Vec3{0, 0, -3})
	arena.Update()
	out := Outline(arena)
	want := geom.Vec3{1, 0, -3}
	if out[0].Sub(want).Len() > 1e-12 {
		t.Errorf("Expected first vertex %v, got %v", want, out[0])
	}
}

func TestCamera_Project(t *testing.T) {
	cam := &Camera{
		Rotation:   geom.QuatIdentity,
		Projection: Projection{FovY: 39, Aspect: 2, ZNear: 0.1, ZFar: 10},
	}
	x, y, ok := cam.Project(geom.Vec3{0, 0, -2}, 200, 100)
	if !ok {
		t.Fatal("Expected point in front of camera")
	}
	if math.Abs(x-100) > 1e-9 || math.Abs(y-50) > 1e-9 {
		t.Errorf("Expected centre pixel, got (%v, %v)", x, y)
	}
	if _, _, ok := cam.Project(geom.Vec3{0, 0, 2}, 200, 100); ok {
		t.Error("Expected point behind camera to be rejected")
	}
}
