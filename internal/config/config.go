// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDViewer   string
	MQTTClientIDProducer string
	MQTTClientIDWeb      string
	MQTTClientIDConsole  string
	MQTTClientIDDisplay  string
	MQTTClientIDJogBox   string

	// Topics
	TopicRigidBodyPrefix string // rigid body samples are published on <prefix>/<name>
	TopicStatus          string // viewer publishes session snapshots here
	TopicKeys            string // remote operator key releases

	// Tracking
	PoseSource       string // "mqtt" or "mock"
	RigidBodyArena   string
	StaleAfterMs     int
	ProducerBodies   []string
	ProducerInterval int // milliseconds
	ProjectorFile    string
	ArenaFile        string
	ArenaRadius      float64
	MarkerScale      float64

	// Calibration
	InitialYawOffset float64
	InitialFovY      float64
	YawStep          float64
	FovStep          float64
	ClampFov         bool

	// Display driver
	TickRate              int // ticks per second
	Screen                int
	Fullscreen            bool
	StatusPublishInterval int // milliseconds

	// Web Server
	WebServerPort int

	// Status OLED
	OLEDUpdateInterval int // milliseconds

	// Jog box
	JogBoxSerialPort string
	JogBoxBaudRate   int
}

// Package-level unexported singleton:
//   - globalConfig: only reachable through InitGlobal/Get.
//   - configOnce: InitGlobal loads at most once.
//   - configMu: write lock while loading, read lock for Get.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Defaults returns a configuration with every optional value filled in.
func Defaults() *Config {
	return &Config{
		MQTTClientIDViewer:    "arenafit-viewer",
		MQTTClientIDProducer:  "arenafit-mocap-producer",
		MQTTClientIDWeb:       "arenafit-web",
		MQTTClientIDConsole:   "arenafit-console",
		MQTTClientIDDisplay:   "arenafit-status-display",
		MQTTClientIDJogBox:    "arenafit-jogbox",
		TopicRigidBodyPrefix:  "mocap/rigidbody",
		TopicStatus:           "arenafit/status",
		TopicKeys:             "arenafit/keys",
		PoseSource:            "mqtt",
		RigidBodyArena:        "Arena",
		StaleAfterMs:          250,
		ProducerBodies:        []string{"Arena"},
		ProducerInterval:      10,
		ArenaRadius:           0.6,
		MarkerScale:           0.05,
		InitialYawOffset:      -100.5,
		InitialFovY:           39,
		YawStep:               1.0,
		FovStep:               0.5,
		TickRate:              60,
		Screen:                1,
		Fullscreen:            true,
		StatusPublishInterval: 200,
		WebServerPort:         8080,
		OLEDUpdateInterval:    250,
		JogBoxBaudRate:        9600,
	}
}

// Load reads the configuration file on top of Defaults.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Defaults()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_VIEWER":
		c.MQTTClientIDViewer = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value
	case "MQTT_CLIENT_ID_JOGBOX":
		c.MQTTClientIDJogBox = value

	// Topics
	case "TOPIC_RIGID_BODY_PREFIX":
		c.TopicRigidBodyPrefix = strings.TrimSuffix(value, "/")
	case "TOPIC_STATUS":
		c.TopicStatus = value
	case "TOPIC_KEYS":
		c.TopicKeys = value

	// Tracking
	case "POSE_SOURCE":
		if value != "mqtt" && value != "mock" {
			return fmt.Errorf("POSE_SOURCE must be mqtt or mock, got %q", value)
		}
		c.PoseSource = value
	case "RIGID_BODY_ARENA":
		c.RigidBodyArena = value
	case "STALE_AFTER_MS":
		ms, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid STALE_AFTER_MS %q: %w", value, err)
		}
		if ms < 0 {
			return fmt.Errorf("STALE_AFTER_MS must be >= 0, got %d", ms)
		}
		c.StaleAfterMs = ms
	case "PRODUCER_BODIES":
		var bodies []string
		for _, b := range strings.Split(value, ",") {
			if b = strings.TrimSpace(b); b != "" {
				bodies = append(bodies, b)
			}
		}
		c.ProducerBodies = bodies
	case "PRODUCER_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid PRODUCER_INTERVAL %q: %w", value, err)
		}
		c.ProducerInterval = interval
	case "PROJECTOR_FILE":
		c.ProjectorFile = value
	case "ARENA_FILE":
		c.ArenaFile = value
	case "ARENA_RADIUS":
		r, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid ARENA_RADIUS %q: %w", value, err)
		}
		c.ArenaRadius = r
	case "MARKER_SCALE":
		s, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid MARKER_SCALE %q: %w", value, err)
		}
		c.MarkerScale = s

	// Calibration
	case "INITIAL_YAW_OFFSET":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid INITIAL_YAW_OFFSET %q: %w", value, err)
		}
		c.InitialYawOffset = v
	case "INITIAL_FOV_Y":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid INITIAL_FOV_Y %q: %w", value, err)
		}
		c.InitialFovY = v
	case "YAW_STEP":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid YAW_STEP %q: %w", value, err)
		}
		c.YawStep = v
	case "FOV_STEP":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid FOV_STEP %q: %w", value, err)
		}
		c.FovStep = v
	case "CLAMP_FOV":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid CLAMP_FOV %q: %w", value, err)
		}
		c.ClampFov = b

	// Display driver
	case "TICK_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid TICK_RATE %q: %w", value, err)
		}
		if rate < 1 || rate > 1000 {
			return fmt.Errorf("TICK_RATE must be 1-1000, got %d", rate)
		}
		c.TickRate = rate
	case "SCREEN":
		screen, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SCREEN %q: %w", value, err)
		}
		c.Screen = screen
	case "FULLSCREEN":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid FULLSCREEN %q: %w", value, err)
		}
		c.Fullscreen = b
	case "STATUS_PUBLISH_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid STATUS_PUBLISH_INTERVAL %q: %w", value, err)
		}
		c.StatusPublishInterval = interval

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Status OLED
	case "OLED_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid OLED_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.OLEDUpdateInterval = interval

	// Jog box
	case "JOGBOX_SERIAL_PORT":
		c.JogBoxSerialPort = value
	case "JOGBOX_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid JOGBOX_BAUD_RATE %q: %w", value, err)
		}
		c.JogBoxBaudRate = rate

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.ProjectorFile == "" {
		return fmt.Errorf("PROJECTOR_FILE is required")
	}
	if c.RigidBodyArena == "" {
		return fmt.Errorf("RIGID_BODY_ARENA is required")
	}
	if c.YawStep <= 0 {
		return fmt.Errorf("YAW_STEP must be > 0")
	}
	if c.FovStep <= 0 {
		return fmt.Errorf("FOV_STEP must be > 0")
	}
	if c.StatusPublishInterval <= 0 {
		return fmt.Errorf("STATUS_PUBLISH_INTERVAL must be > 0")
	}
	if c.ProducerInterval <= 0 {
		return fmt.Errorf("PRODUCER_INTERVAL must be > 0")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Only the first call loads; later calls return the first result.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
