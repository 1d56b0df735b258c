// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package geom

import (
	"math"
	"testing"
)

func TestTRS_MulPoint(t *testing.T) {
	m := TRS(Vec3{1, 2, 3}, AxisAngle(Vec3{0, 0, 1}, 90), Vec3{2, 2, 2})
	got := m.MulPoint(Vec3{1, 0, 0})
	want := Vec3{1, 4, 3}
	if got.Sub(want).Len() > 1e-12 {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestRigidInverse(t *testing.T) {
	pos := Vec3{0.5, -1, 2}
	rot := FromEuler(Euler{Pitch: 10, Yaw: -35, Roll: 5})
	m := Mat4Mul(RigidInverse(pos, rot), TRS(pos, rot, Vec3{1, 1, 1}))
	if !m.Approx(Mat4Identity(), 1e-12) {
		t.Errorf("Expected identity, got %v", m)
	}
}

func TestPerspective_CentreMapsToOrigin(t *testing.T) {
	p := Perspective(39, 16.0/9.0, 0.1, 10)
	v, w := p.MulPointW(Vec3{0, 0, -2})
	if math.Abs(v[0]/w) > 1e-12 || math.Abs(v[1]/w) > 1e-12 {
		t.Errorf("Expected point on axis to map to NDC origin, got %v/%v", v, w)
	}
	// Top edge of the frustum at depth 2 maps to NDC y = 1.
	top := 2 * math.Tan(Deg2Rad(39)/2)
	v, w = p.MulPointW(Vec3{0, top, -2})
	if math.Abs(v[1]/w-1) > 1e-9 {
		t.Errorf("Expected NDC y=1 at frustum top, got %v", v[1]/w)
	}
}
