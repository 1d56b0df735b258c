// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package scene

import (
	"fmt"
	"math"

	"github.com/relabs-tech/arenafit/internal/geom"
)

// Mesh is a drawable outline attached to a transform node. Vertices are
// in the node's local space; consecutive vertices form line segments.
type Mesh struct {
	*Node
	Vertices []geom.Vec3
	Closed   bool
}

// Loader resolves an object inside a mesh file. Parsing real asset
// formats lives outside this module.
type Loader interface {
	Load(path, name string) (*Mesh, error)
}

// PrimitiveLoader generates the built-in "Arena" disc and "Sphere"
// marker outlines. path is ignored.
type PrimitiveLoader struct {
	ArenaRadius float64 // meters
	Segments    int
}

func (l PrimitiveLoader) Load(path, name string) (*Mesh, error) {
	segs := l.Segments
	if segs < 3 {
		segs = 48
	}
	switch name {
	case "Arena":
		r := l.ArenaRadius
		if r <= 0 {
			r = 1
		}
		return &Mesh{Node: NewNode(name), Vertices: ring(r, segs), Closed: true}, nil
	case "Sphere":
		return &Mesh{Node: NewNode(name), Vertices: ring(1, segs), Closed: true}, nil
	default:
		return nil, fmt.Errorf("mesh %q not found in %s", name, path)
	}
}

// ring lies in the XZ plane (floor plane for a Y-up tracker).
func ring(r float64, segs int) []geom.Vec3 {
	out := make([]geom.Vec3, segs)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(segs)
		out[i] = geom.Vec3{r * math.Cos(a), 0, r * math.Sin(a)}
	}
	return out
}
