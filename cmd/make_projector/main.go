// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// make_projector writes a projector calibration file from measured values.
package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/arenafit/internal/calibration"
	"github.com/relabs-tech/arenafit/internal/geom"
	"github.com/relabs-tech/arenafit/internal/scene"
)

func main() {
	out := flag.String("out", "projector.json", "output calibration file")
	x := flag.Float64("x", 0, "projector position x (m)")
	y := flag.Float64("y", 2.5, "projector position y (m)")
	z := flag.Float64("z", 0, "projector position z (m)")
	pitch := flag.Float64("pitch", -90, "projector pitch (deg)")
	yaw := flag.Float64("yaw", 0, "projector yaw (deg)")
	roll := flag.Float64("roll", 0, "projector roll (deg)")
	fov := flag.Float64("fov", calibration.DefaultFieldOfView, "vertical field of view (deg)")
	aspect := flag.Float64("aspect", 16.0/9.0, "aspect ratio")
	near := flag.Float64("near", 0.1, "near plane (m)")
	far := flag.Float64("far", 100, "far plane (m)")
	flag.Parse()

	cam := &scene.Camera{
		Position: geom.Vec3{*x, *y, *z},
		Rotation: geom.FromEuler(geom.Euler{Pitch: *pitch, Yaw: *yaw, Roll: *roll}),
		Projection: scene.Projection{
			FovY:   *fov,
			Aspect: *aspect,
			ZNear:  *near,
			ZFar:   *far,
		},
	}

	if err := calibration.SaveCamera(*out, cam); err != nil {
		log.Fatalf("failed to write calibration: %v", err)
	}
	log.Printf("wrote projector calibration to %s", *out)
}
