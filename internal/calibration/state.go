// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package calibration

import (
	"fmt"
	"strings"
)

// Default operator constants.
const (
	DefaultYawOffset   = -100.5
	DefaultFieldOfView = 39.0
	DefaultYawStep     = 1.0
	DefaultFovStep     = 0.5

	// Bounds applied only when ClampFov is set.
	MinFieldOfView = 1.0
	MaxFieldOfView = 179.0
)

// Key is a discrete operator input.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	default:
		return "none"
	}
}

// ParseKey maps a wire name ("left", "RIGHT", ...) to a Key.
func ParseKey(s string) (Key, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return KeyLeft, nil
	case "right":
		return KeyRight, nil
	case "up":
		return KeyUp, nil
	case "down":
		return KeyDown, nil
	default:
		return KeyNone, fmt.Errorf("unknown key %q", s)
	}
}

// State is the operator calibration for one session. It is not persisted.
type State struct {
	YawOffset   float64 `json:"yaw_offset"`    // degrees, added to tracked yaw
	FieldOfView float64 `json:"field_of_view"` // vertical, degrees

	YawStep  float64 `json:"-"`
	FovStep  float64 `json:"-"`
	ClampFov bool    `json:"-"`
}

// NewState returns a state with the default steps.
func NewState(yawOffset, fov float64) *State {
	return &State{
		YawOffset:   yawOffset,
		FieldOfView: fov,
		YawStep:     DefaultYawStep,
		FovStep:     DefaultFovStep,
	}
}

// Apply handles one key release and reports whether the field of view
// changed, in which case the projection must be refitted.
//
//	left/right -> yaw offset -= / += YawStep
//	up/down    -> field of view += / -= FovStep
func (s *State) Apply(k Key) (fovChanged bool) {
	switch k {
	case KeyLeft:
		s.YawOffset -= s.YawStep
	case KeyRight:
		s.YawOffset += s.YawStep
	case KeyUp:
		return s.setFov(s.FieldOfView + s.FovStep)
	case KeyDown:
		return s.setFov(s.FieldOfView - s.FovStep)
	}
	return false
}

func (s *State) setFov(v float64) bool {
	if s.ClampFov {
		if v < MinFieldOfView {
			v = MinFieldOfView
		}
		if v > MaxFieldOfView {
			v = MaxFieldOfView
		}
	}
	changed := v != s.FieldOfView
	s.FieldOfView = v
	return changed
}
