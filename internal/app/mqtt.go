// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/arenafit/internal/align"
	"github.com/relabs-tech/arenafit/internal/calibration"
)

// KeyMessage is a remote operator key release on the keys topic.
type KeyMessage struct {
	Key    string    `json:"key"`
	Source string    `json:"source,omitempty"`
	Time   time.Time `json:"t"`
}

func connectMQTT(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("MQTT connect %s: %w", broker, token.Error())
	}
	return client, nil
}

// Key releases go out at QoS 0. Each one is a relative step, so a broker
// redelivery would apply it twice.
const keyQoS = 0

// publishKey sends one key release to the viewer.
func publishKey(client mqtt.Client, topic string, k calibration.Key, source string) error {
	payload, err := json.Marshal(KeyMessage{Key: k.String(), Source: source, Time: time.Now()})
	if err != nil {
		return fmt.Errorf("key marshal error: %w", err)
	}
	token := client.Publish(topic, keyQoS, false, payload)
	token.Wait()
	return token.Error()
}

// decodeKey parses a KeyMessage payload.
func decodeKey(payload []byte) (calibration.Key, KeyMessage, error) {
	var m KeyMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		return calibration.KeyNone, m, fmt.Errorf("key unmarshal error: %w", err)
	}
	k, err := calibration.ParseKey(m.Key)
	return k, m, err
}

// subscribeKeys forwards remote key releases to fn. fn runs on the MQTT
// client's goroutine.
func subscribeKeys(client mqtt.Client, topic string, fn func(calibration.Key)) error {
	token := client.Subscribe(topic, keyQoS, func(_ mqtt.Client, msg mqtt.Message) {
		k, m, err := decodeKey(msg.Payload())
		if err != nil {
			log.Printf("keys: %v", err)
			return
		}
		log.Printf("keys: %s from %s", k, m.Source)
		fn(k)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("subscribed to MQTT topic %s", topic)
	return nil
}

// statusPublisher throttles session snapshots onto the status topic.
// Publish does not wait for the broker so it is safe on the render thread.
type statusPublisher struct {
	client   mqtt.Client
	topic    string
	interval time.Duration
	last     time.Time
}

func (p *statusPublisher) maybePublish(snap align.Snapshot) {
	if p == nil || p.client == nil {
		return
	}
	if !p.last.IsZero() && snap.Time.Sub(p.last) < p.interval {
		return
	}
	p.last = snap.Time

	payload, err := json.Marshal(snap)
	if err != nil {
		log.Printf("status: json marshal error: %v", err)
		return
	}
	p.client.Publish(p.topic, 0, true, payload)
}

func decodeStatus(payload []byte) (align.Snapshot, error) {
	var s align.Snapshot
	if err := json.Unmarshal(payload, &s); err != nil {
		return s, fmt.Errorf("status unmarshal error: %w", err)
	}
	return s, nil
}
