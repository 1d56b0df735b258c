// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/arenafit/internal/calibration"
	"github.com/relabs-tech/arenafit/internal/config"
)

// RunJogBox reads key names ("left", "right", "up", "down"), one per
// line, from a serial jog box and forwards them to the viewer.
func RunJogBox() error {
	cfg := config.Get()
	if cfg.JogBoxSerialPort == "" {
		return fmt.Errorf("JOGBOX_SERIAL_PORT is not set")
	}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDJogBox)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("jog box connected to MQTT broker at %s", cfg.MQTTBroker)

	serialOpts := serial.OpenOptions{
		PortName:              cfg.JogBoxSerialPort,
		BaudRate:              uint(cfg.JogBoxBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return fmt.Errorf("open %s: %w", serialOpts.PortName, err)
	}
	defer port.Close()
	log.Printf("jog box serial port opened on %s at %d baud", serialOpts.PortName, serialOpts.BaudRate)

	return forwardKeys(port, func(k calibration.Key) error {
		return publishKey(client, cfg.TopicKeys, k, "jogbox")
	})
}

// forwardKeys parses key lines from r until EOF. Unknown lines are logged
// and skipped.
func forwardKeys(r io.Reader, send func(calibration.Key) error) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" && !strings.HasPrefix(line, "#") {
			k, perr := calibration.ParseKey(line)
			if perr != nil {
				log.Printf("jog box: %v", perr)
			} else if serr := send(k); serr != nil {
				log.Printf("jog box publish error: %v", serr)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			log.Printf("jog box read error: %v", err)
			return err
		}
	}
}
