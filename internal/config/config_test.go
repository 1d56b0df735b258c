// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arenafit_config.txt")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MinimalUsesDefaults(t *testing.T) {
	path := writeConfig(t, `
# broker on the tracking PC
MQTT_BROKER=tcp://localhost:1883
PROJECTOR_FILE=projector.json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.InitialYawOffset != -100.5 {
		t.Errorf("Expected InitialYawOffset=-100.5, got %v", cfg.InitialYawOffset)
	}
	if cfg.InitialFovY != 39 {
		t.Errorf("Expected InitialFovY=39, got %v", cfg.InitialFovY)
	}
	if cfg.YawStep != 1.0 || cfg.FovStep != 0.5 {
		t.Errorf("Expected steps 1.0/0.5, got %v/%v", cfg.YawStep, cfg.FovStep)
	}
	if cfg.ClampFov {
		t.Error("Expected ClampFov=false by default")
	}
	if cfg.RigidBodyArena != "Arena" {
		t.Errorf("Expected RigidBodyArena=Arena, got %q", cfg.RigidBodyArena)
	}
}

func TestLoad_AllKeys(t *testing.T) {
	path := writeConfig(t, `
MQTT_BROKER=tcp://10.0.0.2:1883
MQTT_CLIENT_ID_VIEWER=v
TOPIC_RIGID_BODY_PREFIX=motive/rb/
TOPIC_STATUS=s
TOPIC_KEYS=k
POSE_SOURCE=mock
RIGID_BODY_ARENA=Arena2
STALE_AFTER_MS=0
PRODUCER_BODIES=Arena, Wand ,
PRODUCER_INTERVAL=5
PROJECTOR_FILE=p.json
ARENA_FILE=arena.obj
ARENA_RADIUS=0.75
MARKER_SCALE=0.1
INITIAL_YAW_OFFSET=12.5
INITIAL_FOV_Y=41
YAW_STEP=0.25
FOV_STEP=0.1
CLAMP_FOV=true
TICK_RATE=120
SCREEN=0
FULLSCREEN=false
STATUS_PUBLISH_INTERVAL=100
WEB_SERVER_PORT=9090
OLED_UPDATE_INTERVAL=500
JOGBOX_SERIAL_PORT=/dev/ttyUSB0
JOGBOX_BAUD_RATE=115200
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TopicRigidBodyPrefix != "motive/rb" {
		t.Errorf("Expected trailing slash trimmed, got %q", cfg.TopicRigidBodyPrefix)
	}
	if len(cfg.ProducerBodies) != 2 || cfg.ProducerBodies[1] != "Wand" {
		t.Errorf("Expected [Arena Wand], got %v", cfg.ProducerBodies)
	}
	if !cfg.ClampFov || cfg.Fullscreen {
		t.Errorf("Expected ClampFov=true Fullscreen=false, got %v %v", cfg.ClampFov, cfg.Fullscreen)
	}
	if cfg.TickRate != 120 || cfg.JogBoxBaudRate != 115200 || cfg.WebServerPort != 9090 {
		t.Errorf("Unexpected ints: %+v", cfg)
	}
	if cfg.InitialYawOffset != 12.5 || cfg.ArenaRadius != 0.75 {
		t.Errorf("Unexpected floats: %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"missing broker", "PROJECTOR_FILE=p.json\n", "MQTT_BROKER is required"},
		{"missing projector", "MQTT_BROKER=tcp://x:1883\n", "PROJECTOR_FILE is required"},
		{"unknown key", "MQTT_BROKER=x\nPROJECTOR_FILE=p\nFOO=1\n", "unknown config key"},
		{"bad line", "MQTT_BROKER\n", "invalid config line 1"},
		{"bad float", "MQTT_BROKER=x\nPROJECTOR_FILE=p\nINITIAL_FOV_Y=wide\n", "invalid INITIAL_FOV_Y"},
		{"bad source", "MQTT_BROKER=x\nPROJECTOR_FILE=p\nPOSE_SOURCE=natnet\n", "POSE_SOURCE must be"},
		{"bad tick rate", "MQTT_BROKER=x\nPROJECTOR_FILE=p\nTICK_RATE=0\n", "TICK_RATE must be"},
		{"zero step", "MQTT_BROKER=x\nPROJECTOR_FILE=p\nYAW_STEP=0\n", "YAW_STEP must be > 0"},
	}
	for _, tc := range tests {
		_, err := Load(writeConfig(t, tc.body))
		if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
			t.Errorf("%s: Expected error containing %q, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.txt")); err == nil {
		t.Error("Expected error for missing file")
	}
}
