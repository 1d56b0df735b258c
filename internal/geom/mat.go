// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package geom

import "math"

// Mat3 is a 3×3 matrix stored row-major.
type Mat3 [9]float64

func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

// Transpose is the inverse for rotation matrices.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Mat4 is a 4×4 matrix stored row-major, acting on column vectors.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// MulPoint transforms a 3D point (w=1) by the matrix without the
// perspective divide.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11],
	}
}

// MulPointW transforms a point and returns the homogeneous w as well.
func (m Mat4) MulPointW(v Vec3) (Vec3, float64) {
	w := m[12]*v[0] + m[13]*v[1] + m[14]*v[2] + m[15]
	return m.MulPoint(v), w
}

// Translation returns the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[3], m[7], m[11]}
}

// TRS builds translate × rotate × scale.
func TRS(t Vec3, r Quat, s Vec3) Mat4 {
	rm := QuatToMat3(r)
	return Mat4{
		rm[0] * s[0], rm[1] * s[1], rm[2] * s[2], t[0],
		rm[3] * s[0], rm[4] * s[1], rm[5] * s[2], t[1],
		rm[6] * s[0], rm[7] * s[1], rm[8] * s[2], t[2],
		0, 0, 0, 1,
	}
}

// RigidInverse inverts a rotation+translation matrix (no scale).
func RigidInverse(t Vec3, r Quat) Mat4 {
	rt := QuatToMat3(r).Transpose()
	ti := rt.MulVec(t).Scale(-1)
	return Mat4{
		rt[0], rt[1], rt[2], ti[0],
		rt[3], rt[4], rt[5], ti[1],
		rt[6], rt[7], rt[8], ti[2],
		0, 0, 0, 1,
	}
}

// Perspective builds an OpenGL-style projection from a vertical field of
// view in degrees.
func Perspective(fovYDeg, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(Deg2Rad(fovYDeg)/2)
	nf := 1 / (near - far)
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, 2 * far * near * nf,
		0, 0, -1, 0,
	}
}

// Approx reports whether every element of a and b differs by at most eps.
func (m Mat4) Approx(b Mat4, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
