// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package calibration

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/relabs-tech/arenafit/internal/geom"
	"github.com/relabs-tech/arenafit/internal/scene"
)

// ErrCalibrationLoad marks a missing or malformed projector calibration.
// The session cannot start without one.
var ErrCalibrationLoad = errors.New("calibration load")

// Projector is the on-disk projector calibration.
type Projector struct {
	Version  int       `json:"version"`
	Position []float64 `json:"position"` // x, y, z in tracker meters
	Rotation []float64 `json:"rotation"` // x, y, z, w
	FovY     float64   `json:"fov_y"`
	Aspect   float64   `json:"aspect"`
	ZNear    float64   `json:"z_near"`
	ZFar     float64   `json:"z_far"`
}

// LoadCamera reads a projector calibration file and builds the camera.
func LoadCamera(path string) (*scene.Camera, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCalibrationLoad, err)
	}

	var p Projector
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCalibrationLoad, path, err)
	}
	cam, err := p.Camera()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCalibrationLoad, path, err)
	}
	return cam, nil
}

// Camera validates p and converts it.
func (p Projector) Camera() (*scene.Camera, error) {
	pos, err := geom.Vec3FromSlice(p.Position)
	if err != nil {
		return nil, fmt.Errorf("position: %w", err)
	}
	if !pos.IsFinite() {
		return nil, fmt.Errorf("position %v is not finite", pos)
	}

	rot := geom.QuatIdentity
	if len(p.Rotation) > 0 {
		rot, err = geom.QuatFromSlice(p.Rotation)
		if err != nil {
			return nil, fmt.Errorf("rotation: %w", err)
		}
		if !rot.IsFinite() || rot.Len() < 1e-9 {
			return nil, fmt.Errorf("rotation %v is not a valid quaternion", rot)
		}
		rot = rot.Normalize()
	}

	if !(p.FovY > 0 && p.FovY < 180) {
		return nil, fmt.Errorf("fov_y %v out of range", p.FovY)
	}
	if !(p.Aspect > 0) || math.IsInf(p.Aspect, 0) {
		return nil, fmt.Errorf("aspect %v out of range", p.Aspect)
	}

	near, far := p.ZNear, p.ZFar
	if near <= 0 {
		near = 0.1
	}
	if far <= near {
		far = 100
	}

	return &scene.Camera{
		Position: pos,
		Rotation: rot,
		Projection: scene.Projection{
			FovY:   p.FovY,
			Aspect: p.Aspect,
			ZNear:  near,
			ZFar:   far,
		},
	}, nil
}

// SaveCamera writes cam as a projector calibration file.
func SaveCamera(path string, cam *scene.Camera) error {
	p := Projector{
		Version:  1,
		Position: cam.Position[:],
		Rotation: cam.Rotation[:],
		FovY:     cam.Projection.FovY,
		Aspect:   cam.Projection.Aspect,
		ZNear:    cam.Projection.ZNear,
		ZFar:     cam.Projection.ZFar,
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal projector calibration: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write projector calibration: %w", err)
	}
	return nil
}
