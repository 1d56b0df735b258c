// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package calibration

import "testing"

func TestApply_YawKeys(t *testing.T) {
	s := NewState(DefaultYawOffset, DefaultFieldOfView)

	if s.Apply(KeyRight) {
		t.Error("Expected yaw key not to report a FOV change")
	}
	if s.YawOffset != -99.5 {
		t.Errorf("Expected YawOffset=-99.5, got %v", s.YawOffset)
	}
	s.Apply(KeyLeft)
	s.Apply(KeyLeft)
	if s.YawOffset != -101.5 {
		t.Errorf("Expected YawOffset=-101.5, got %v", s.YawOffset)
	}
}

func TestApply_RightThenLeftRestoresOffset(t *testing.T) {
	for _, start := range []float64{DefaultYawOffset, 0, 12.25, -3} {
		s := NewState(start, DefaultFieldOfView)
		const n = 37
		for i := 0; i < n; i++ {
			s.Apply(KeyRight)
		}
		for i := 0; i < n; i++ {
			s.Apply(KeyLeft)
		}
		if s.YawOffset != start {
			t.Errorf("start %v: Expected exact restore, got %v", start, s.YawOffset)
		}
	}
}

func TestApply_FovKeys(t *testing.T) {
	s := NewState(0, 39.0)

	if !s.Apply(KeyUp) {
		t.Error("Expected up to report a FOV change")
	}
	if s.FieldOfView != 39.5 {
		t.Errorf("Expected FieldOfView=39.5, got %v", s.FieldOfView)
	}
	if !s.Apply(KeyDown) {
		t.Error("Expected down to report a FOV change")
	}
	if s.FieldOfView != 39.0 {
		t.Errorf("Expected FieldOfView=39.0, got %v", s.FieldOfView)
	}
}

func TestApply_UnclampedByDefault(t *testing.T) {
	s := NewState(0, 0.5)
	s.Apply(KeyDown)
	s.Apply(KeyDown)
	if s.FieldOfView != -0.5 {
		t.Errorf("Expected unclamped FieldOfView=-0.5, got %v", s.FieldOfView)
	}
}

func TestApply_Clamped(t *testing.T) {
	s := NewState(0, 1.5)
	s.ClampFov = true
	s.Apply(KeyDown)
	if s.Apply(KeyDown) {
		t.Error("Expected no change once at the lower clamp")
	}
	if s.FieldOfView != MinFieldOfView {
		t.Errorf("Expected FieldOfView=%v, got %v", MinFieldOfView, s.FieldOfView)
	}

	s.FieldOfView = 178.75
	s.Apply(KeyUp)
	if s.FieldOfView != MaxFieldOfView {
		t.Errorf("Expected FieldOfView=%v, got %v", MaxFieldOfView, s.FieldOfView)
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want Key
		ok   bool
	}{
		{"left", KeyLeft, true},
		{"RIGHT", KeyRight, true},
		{" up\n", KeyUp, true},
		{"down", KeyDown, true},
		{"enter", KeyNone, false},
	}
	for _, tc := range tests {
		got, err := ParseKey(tc.in)
		if (err == nil) != tc.ok || got != tc.want {
			t.Errorf("ParseKey(%q) = %v, %v; want %v, ok=%v", tc.in, got, err, tc.want, tc.ok)
		}
		if tc.ok {
			if back, _ := ParseKey(got.String()); back != got {
				t.Errorf("String() of %v does not parse back, got %v", got, back)
			}
		}
	}
}
