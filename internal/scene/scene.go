// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package scene

import "github.com/relabs-tech/arenafit/internal/geom"

// Scene owns the node tree: an empty root with the arena and the marker
// sphere as children, plus the projector camera.
type Scene struct {
	Root   *Node
	Arena  *Mesh
	Marker *Mesh
	Camera *Camera

	Background [3]float64
}

// New builds the scene tree and brings every world matrix up to date.
func New(arena, marker *Mesh, cam *Camera) *Scene {
	root := NewNode("root")
	root.AddChild(arena.Node)
	root.AddChild(marker.Node)
	root.Update()
	return &Scene{
		Root:       root,
		Arena:      arena,
		Marker:     marker,
		Camera:     cam,
		Background: [3]float64{.2, .4, .2},
	}
}

// Outline returns the world-space vertices of m.
func Outline(m *Mesh) []geom.Vec3 {
	w := m.World()
	out := make([]geom.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = w.MulPoint(v)
	}
	return out
}
