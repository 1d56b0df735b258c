// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/arenafit/internal/align"
	"github.com/relabs-tech/arenafit/internal/config"
)

// RunStatusDisplay mirrors the calibration on an SSD1306 OLED next to the
// operator, fed from the status topic.
func RunStatusDisplay() error {
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Println("status display: initialized")

	if err := dev.Draw(dev.Bounds(), renderLines("Arena Fit", "Waiting..."), image.Point{}); err != nil {
		log.Printf("status display: error showing splash: %v", err)
	}

	var (
		mu   sync.RWMutex
		last align.Snapshot
		have bool
	)

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDDisplay)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("status display: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicStatus, 0, func(_ mqtt.Client, msg mqtt.Message) {
		s, err := decodeStatus(msg.Payload())
		if err != nil {
			log.Printf("status display: %v", err)
			return
		}
		mu.Lock()
		last = s
		have = true
		mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("status display: subscribed to %s", cfg.TopicStatus)

	ticker := time.NewTicker(time.Duration(cfg.OLEDUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		mu.RLock()
		s, ok := last, have
		mu.RUnlock()

		if err := dev.Draw(dev.Bounds(), renderStatus(s, ok), image.Point{}); err != nil {
			log.Printf("status display: error updating display: %v", err)
		}
	}
	return nil
}

// statusLines formats a snapshot for four 7x13 text rows.
func statusLines(s align.Snapshot, have bool) []string {
	if !have {
		return []string{"Calibration", "Waiting..."}
	}
	return []string{
		fmt.Sprintf("off: %7.1f", s.YawOffset),
		fmt.Sprintf("fov: %7.1f", s.FieldOfView),
		fmt.Sprintf("asp: %7.3f", s.Aspect),
		fmt.Sprintf("trk: %s", s.Tracking),
	}
}

func renderStatus(s align.Snapshot, have bool) *image1bit.VerticalLSB {
	return renderLines(statusLines(s, have)...)
}

func renderLines(lines ...string) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		if i >= 4 {
			break
		}
		drawer.Dot = fixed.P(0, 13*(i+1))
		drawer.DrawString(line)
	}
	return img
}
