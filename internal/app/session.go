// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"errors"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/arenafit/internal/align"
	"github.com/relabs-tech/arenafit/internal/calibration"
	"github.com/relabs-tech/arenafit/internal/config"
	"github.com/relabs-tech/arenafit/internal/geom"
	"github.com/relabs-tech/arenafit/internal/pose"
	"github.com/relabs-tech/arenafit/internal/scene"
)

// newSession performs the startup steps shared by the drivers. Any error
// here is fatal for the session.
func newSession(cfg *config.Config, client mqtt.Client) (*align.Session, error) {
	cam, err := calibration.LoadCamera(cfg.ProjectorFile)
	if err != nil {
		return nil, err
	}
	log.Printf("projector loaded from %s: position=%v fov_y=%g aspect=%.4f",
		cfg.ProjectorFile, cam.Position, cam.Projection.FovY, cam.Projection.Aspect)

	loader := scene.PrimitiveLoader{ArenaRadius: cfg.ArenaRadius}
	arena, err := loader.Load(cfg.ArenaFile, "Arena")
	if err != nil {
		return nil, fmt.Errorf("load arena: %w", err)
	}
	log.Printf("Arena Loaded. Position: %v, Rotation: %v", arena.Position(), arena.Rotation())

	marker, err := loader.Load("", "Sphere")
	if err != nil {
		return nil, fmt.Errorf("load marker: %w", err)
	}
	s := cfg.MarkerScale
	if err := marker.SetScale(geom.Vec3{s, s, s}); err != nil {
		return nil, fmt.Errorf("marker scale: %w", err)
	}

	src, err := newPoseSource(cfg, client)
	if err != nil {
		return nil, err
	}

	state := calibration.NewState(cfg.InitialYawOffset, cfg.InitialFovY)
	state.YawStep = cfg.YawStep
	state.FovStep = cfg.FovStep
	state.ClampFov = cfg.ClampFov

	session := align.NewSession(scene.New(arena, marker, cam), state, src, cfg.RigidBodyArena)
	session.Loop.StaleAfter = time.Duration(cfg.StaleAfterMs) * time.Millisecond

	if _, err := src.RigidBody(cfg.RigidBodyArena); errors.Is(err, pose.ErrNotFound) {
		log.Printf("WARNING: rigid body %q not reported yet, arena stays at origin until it is", cfg.RigidBodyArena)
	}
	return session, nil
}

func newPoseSource(cfg *config.Config, client mqtt.Client) (pose.Source, error) {
	switch cfg.PoseSource {
	case "mock":
		log.Println("using mock pose source")
		return pose.NewMockSource(cfg.RigidBodyArena), nil
	default:
		if client == nil {
			return nil, fmt.Errorf("mqtt pose source needs a broker connection")
		}
		src, err := pose.NewMQTTSource(client, cfg.TopicRigidBodyPrefix)
		if err != nil {
			return nil, err
		}
		// Give retained or in-flight samples a moment to arrive before the
		// startup check.
		time.Sleep(200 * time.Millisecond)
		return src, nil
	}
}
