// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package calibration

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/relabs-tech/arenafit/internal/geom"
	"github.com/relabs-tech/arenafit/internal/scene"
)

func TestLoadCamera_Missing(t *testing.T) {
	_, err := LoadCamera(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrCalibrationLoad) {
		t.Errorf("Expected ErrCalibrationLoad, got %v", err)
	}
}

func TestLoadCamera_Malformed(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"garbage.json":  "not json",
		"short.json":    `{"position":[1,2],"fov_y":39,"aspect":1.5}`,
		"nofov.json":    `{"position":[1,2,3],"aspect":1.5}`,
		"noaspect.json": `{"position":[1,2,3],"fov_y":39}`,
		"badrot.json":   `{"position":[1,2,3],"rotation":[0,0,0,0],"fov_y":39,"aspect":1.5}`,
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadCamera(path); !errors.Is(err, ErrCalibrationLoad) {
			t.Errorf("%s: Expected ErrCalibrationLoad, got %v", name, err)
		}
	}
}

func TestSaveLoadCamera(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projector.json")
	in := &scene.Camera{
		Position: geom.Vec3{0.1, 1.8, -0.4},
		Rotation: geom.FromEuler(geom.Euler{Pitch: -80}),
		Projection: scene.Projection{
			FovY: 41.5, Aspect: 1.6, ZNear: 0.05, ZFar: 20,
		},
	}
	if err := SaveCamera(path, in); err != nil {
		t.Fatalf("SaveCamera: %v", err)
	}
	out, err := LoadCamera(path)
	if err != nil {
		t.Fatalf("LoadCamera: %v", err)
	}
	if out.Position != in.Position || out.Projection != in.Projection {
		t.Errorf("Expected %+v, got %+v", in, out)
	}
	if d := out.Rotation.Dot(in.Rotation); d < 1-1e-12 {
		t.Errorf("Expected same rotation, dot=%v", d)
	}
}

func TestProjectorDefaults(t *testing.T) {
	cam, err := Projector{Position: []float64{0, 0, 0}, FovY: 39, Aspect: 1}.Camera()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cam.Rotation != geom.QuatIdentity {
		t.Errorf("Expected identity rotation, got %v", cam.Rotation)
	}
	if cam.Projection.ZNear != 0.1 || cam.Projection.ZFar != 100 {
		t.Errorf("Expected default clip planes, got %+v", cam.Projection)
	}
}
