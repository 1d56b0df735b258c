// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package scene

import (
	"github.com/relabs-tech/arenafit/internal/geom"
)

// Projection holds the live projector frustum parameters.
type Projection struct {
	FovY   float64 // vertical field of view, degrees
	Aspect float64 // width / height
	ZNear  float64
	ZFar   float64
}

// Matrix returns the perspective matrix for the current parameters.
func (p Projection) Matrix() geom.Mat4 {
	return geom.Perspective(p.FovY, p.Aspect, p.ZNear, p.ZFar)
}

// Camera is the projector viewpoint. Position and Rotation come from the
// projector calibration and stay fixed for the session; only the
// projection changes live.
type Camera struct {
	Position   geom.Vec3
	Rotation   geom.Quat
	Projection Projection
}

// View returns the world-to-camera matrix.
func (c *Camera) View() geom.Mat4 {
	return geom.RigidInverse(c.Position, c.Rotation)
}

// Project maps a world point to pixel coordinates on a w×h surface.
// ok is false for points behind the camera.
func (c *Camera) Project(p geom.Vec3, w, h int) (x, y float64, ok bool) {
	clip, cw := geom.Mat4Mul(c.Projection.Matrix(), c.View()).MulPointW(p)
	if cw <= 1e-9 {
		return 0, 0, false
	}
	nx, ny := clip[0]/cw, clip[1]/cw
	x = (nx + 1) / 2 * float64(w)
	y = (1 - ny) / 2 * float64(h)
	return x, y, true
}
