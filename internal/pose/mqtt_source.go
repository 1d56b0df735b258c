// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package pose

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTSource caches the latest sample of every rigid body published under
// a topic prefix. RigidBody is a cache read and never waits on the broker.
type MQTTSource struct {
	client mqtt.Client
	prefix string

	mu     sync.RWMutex
	latest map[string]Sample
}

// NewMQTTSource subscribes to "<prefix>/+" on an already connected client.
func NewMQTTSource(client mqtt.Client, prefix string) (*MQTTSource, error) {
	s := &MQTTSource{
		client: client,
		prefix: strings.TrimSuffix(prefix, "/"),
		latest: map[string]Sample{},
	}

	topic := s.prefix + "/+"
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		if err := s.HandlePayload(msg.Topic(), msg.Payload()); err != nil {
			log.Printf("pose: %v", err)
		}
	})
	token.Wait()
	if token.Error() != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, token.Error())
	}
	log.Printf("pose: subscribed to %s", topic)
	return s, nil
}

// HandlePayload decodes one rigid body message and stores it. The body
// name comes from the payload, falling back to the last topic segment.
func (s *MQTTSource) HandlePayload(topic string, payload []byte) error {
	var m Message
	if err := json.Unmarshal(payload, &m); err != nil {
		return fmt.Errorf("%s payload unmarshal error: %w", topic, err)
	}
	if m.Body == "" {
		m.Body = topic[strings.LastIndex(topic, "/")+1:]
	}
	if m.Lost {
		s.mu.Lock()
		delete(s.latest, m.Body)
		s.mu.Unlock()
		return nil
	}
	sample, err := m.Sample()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.latest[sample.Body] = sample
	s.mu.Unlock()
	return nil
}

// RigidBody returns the most recent sample of name, or ErrNotFound if the
// body was never seen. Staleness is judged by the caller from Sample.Time.
func (s *MQTTSource) RigidBody(name string) (Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sample, ok := s.latest[name]
	if !ok {
		return Sample{}, ErrNotFound
	}
	return sample, nil
}

// Close unsubscribes from the rigid body topics.
func (s *MQTTSource) Close() {
	s.client.Unsubscribe(s.prefix + "/+").Wait()
}
