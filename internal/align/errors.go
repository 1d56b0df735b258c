// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package align

import (
	"errors"

	"github.com/relabs-tech/arenafit/internal/scene"
)

// Per-tick and per-event errors. None of them are fatal: the loop keeps
// the last good transform and the fitter keeps the last good aspect.
var (
	ErrInvalidPose      = scene.ErrInvalidPose
	ErrTrackingLost     = errors.New("tracking lost")
	ErrDegenerateResize = errors.New("degenerate resize")
)
