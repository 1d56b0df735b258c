// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package align

import (
	"fmt"

	"github.com/relabs-tech/arenafit/internal/calibration"
	"github.com/relabs-tech/arenafit/internal/scene"
)

// Fitter projects calibration state and display geometry onto the camera
// projection. It keeps no state of its own.
type Fitter struct {
	Camera *scene.Camera
	State  *calibration.State
}

// OnResize sets aspect = width / height. A non-positive size is rejected
// and the previous aspect kept.
func (f *Fitter) OnResize(width, height int) error {
	if height <= 0 || width <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrDegenerateResize, width, height)
	}
	f.Camera.Projection.Aspect = float64(width) / float64(height)
	return nil
}

// OnZoom copies the calibrated field of view into the projection.
func (f *Fitter) OnZoom() {
	f.Camera.Projection.FovY = f.State.FieldOfView
}
