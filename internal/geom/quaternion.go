// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package geom

import (
	"fmt"
	"math"
)

// Quat represents a quaternion (x, y, z, w).
type Quat [4]float64

// QuatIdentity is the zero rotation.
var QuatIdentity = Quat{0, 0, 0, 1}

// Euler is an intrinsic Y-X-Z rotation in degrees: yaw about +Y first,
// then pitch about the rotated X axis, then roll about the rotated Z axis.
// FromEuler and Quat.Euler use the same order.
type Euler struct {
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
	Roll  float64 `json:"roll"`
}

// AxisAngle builds a rotation of deg degrees about a unit axis.
func AxisAngle(axis Vec3, deg float64) Quat {
	h := Deg2Rad(deg) * 0.5
	s := math.Sin(h)
	return Quat{axis[0] * s, axis[1] * s, axis[2] * s, math.Cos(h)}
}

// Mul returns the Hamilton product q × r (apply r, then q).
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		q[3]*r[0] + q[0]*r[3] + q[1]*r[2] - q[2]*r[1],
		q[3]*r[1] - q[0]*r[2] + q[1]*r[3] + q[2]*r[0],
		q[3]*r[2] + q[0]*r[1] - q[1]*r[0] + q[2]*r[3],
		q[3]*r[3] - q[0]*r[0] - q[1]*r[1] - q[2]*r[2],
	}
}

func (q Quat) Len() float64 {
	return math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
}

// Normalize returns q scaled to unit length. A zero quaternion is
// returned unchanged.
func (q Quat) Normalize() Quat {
	l := q.Len()
	if l < 1e-12 {
		return q
	}
	return Quat{q[0] / l, q[1] / l, q[2] / l, q[3] / l}
}

func (q Quat) IsFinite() bool {
	for _, c := range q {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Dot is the 4D dot product; |Dot| == 1 means the same rotation.
func (q Quat) Dot(r Quat) float64 {
	return q[0]*r[0] + q[1]*r[1] + q[2]*r[2] + q[3]*r[3]
}

// QuatFromSlice converts a decoded wire slice (x, y, z, w) into a Quat.
func QuatFromSlice(s []float64) (Quat, error) {
	if len(s) != 4 {
		return Quat{}, fmt.Errorf("quat: expected 4 components, got %d", len(s))
	}
	return Quat{s[0], s[1], s[2], s[3]}, nil
}

// FromEuler converts an intrinsic Y-X-Z Euler triple to a unit quaternion.
func FromEuler(e Euler) Quat {
	qy := AxisAngle(Vec3{0, 1, 0}, e.Yaw)
	qx := AxisAngle(Vec3{1, 0, 0}, e.Pitch)
	qz := AxisAngle(Vec3{0, 0, 1}, e.Roll)
	return qy.Mul(qx).Mul(qz)
}

// Euler converts q to an intrinsic Y-X-Z triple in degrees. Pitch is in
// [-90, 90]; yaw and roll are in (-180, 180]. At pitch = ±90 yaw and roll
// are degenerate and roll is reported as 0.
func (q Quat) Euler() Euler {
	m := QuatToMat3(q.Normalize())

	cp := math.Hypot(m[3], m[4])
	pitch := math.Atan2(-m[5], cp)

	if cp < 1e-12 {
		return Euler{
			Pitch: Rad2Deg(pitch),
			Yaw:   Rad2Deg(math.Atan2(-m[6], m[0])),
			Roll:  0,
		}
	}

	// Roll is taken from the first and last rows with yaw removed, which
	// stays well conditioned as cp goes to zero.
	yaw := math.Atan2(m[2], m[8])
	sy, cy := math.Sin(yaw), math.Cos(yaw)
	roll := math.Atan2(-(cy*m[1] - sy*m[7]), cy*m[0]-sy*m[6])

	return Euler{
		Pitch: Rad2Deg(pitch),
		Yaw:   Rad2Deg(yaw),
		Roll:  Rad2Deg(roll),
	}
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	return QuatToMat3(q).MulVec(v)
}

func (q Quat) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f, %.4f)", q[0], q[1], q[2], q[3])
}

// QuatToMat3 converts a quaternion to a 3×3 rotation matrix.
func QuatToMat3(q Quat) Mat3 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Mat3{
		1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy),
		2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx),
		2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy),
	}
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(r float64) float64 {
	return r * 180 / math.Pi
}
