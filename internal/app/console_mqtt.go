// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/arenafit/internal/config"
	"github.com/relabs-tech/arenafit/internal/pose"
)

// RunConsoleMQTT prints rigid body samples, key releases and session
// status as they cross the broker.
func RunConsoleMQTT() error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	subs := []struct {
		topic   string
		handler mqtt.MessageHandler
	}{
		{cfg.TopicRigidBodyPrefix + "/+", func(_ mqtt.Client, msg mqtt.Message) {
			var m pose.Message
			if err := json.Unmarshal(msg.Payload(), &m); err != nil {
				log.Printf("console: rigid body unmarshal error: %v", err)
				return
			}
			if m.Lost {
				fmt.Printf("[BODY] %-8s LOST\n", m.Body)
				return
			}
			s, err := m.Sample()
			if err != nil {
				log.Printf("console: %v", err)
				return
			}
			e := s.Rotation.Euler()
			fmt.Printf("[BODY] %-8s pos=%v  PITCH=%6.2f YAW=%7.2f ROLL=%6.2f\n",
				s.Body, s.Position, e.Pitch, e.Yaw, e.Roll)
		}},
		{cfg.TopicKeys, func(_ mqtt.Client, msg mqtt.Message) {
			k, m, err := decodeKey(msg.Payload())
			if err != nil {
				log.Printf("console: %v", err)
				return
			}
			fmt.Printf("[KEY ] %-5s from %s\n", k, m.Source)
		}},
		{cfg.TopicStatus, func(_ mqtt.Client, msg mqtt.Message) {
			s, err := decodeStatus(msg.Payload())
			if err != nil {
				log.Printf("console: %v", err)
				return
			}
			fmt.Printf("[STAT] %s\n", s.Label())
		}},
	}

	for _, sub := range subs {
		token := client.Subscribe(sub.topic, 0, sub.handler)
		token.Wait()
		if token.Error() != nil {
			return token.Error()
		}
		log.Printf("console: subscribed to %s", sub.topic)
	}

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
