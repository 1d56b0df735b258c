// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/arenafit/internal/config"
	"github.com/relabs-tech/arenafit/internal/pose"
)

// RunMocapProducer publishes mock rigid body samples on the rigid body
// topics, standing in for the motion capture bridge.
func RunMocapProducer() error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDProducer)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("mocap producer: connected to MQTT broker at %s", cfg.MQTTBroker)

	src := pose.NewMockSource(cfg.ProducerBodies...)
	ticker := time.NewTicker(time.Duration(cfg.ProducerInterval) * time.Millisecond)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	logEvery := time.Second
	var lastLog time.Time

	for {
		select {
		case <-sigCh:
			log.Println("mocap producer: shutting down")
			return nil
		case t := <-ticker.C:
			for _, body := range cfg.ProducerBodies {
				sample, err := publishBody(client, cfg.TopicRigidBodyPrefix, src, body)
				if err != nil {
					log.Printf("mocap producer: %s: %v", body, err)
					continue
				}
				if t.Sub(lastLog) >= logEvery {
					log.Printf("mocap producer: %s position=%v rotation=%v", body, sample.Position, sample.Rotation)
				}
			}
			if t.Sub(lastLog) >= logEvery {
				lastLog = t
			}
		}
	}
}

func publishBody(client mqtt.Client, prefix string, src pose.Source, body string) (pose.Sample, error) {
	sample, err := src.RigidBody(body)
	if errors.Is(err, pose.ErrNotFound) {
		payload, merr := json.Marshal(pose.Message{Body: body, Lost: true, Time: time.Now()})
		if merr != nil {
			return sample, fmt.Errorf("%w: %v", err, merr)
		}
		token := client.Publish(prefix+"/"+body, 0, false, payload)
		token.Wait()
		if perr := token.Error(); perr != nil {
			return sample, fmt.Errorf("%w: publish lost marker: %w", err, perr)
		}
		return sample, err
	}
	if err != nil {
		return sample, err
	}

	payload, err := json.Marshal(pose.NewMessage(sample))
	if err != nil {
		return sample, err
	}
	// Live stream: not retained, a late subscriber must not see an old pose.
	token := client.Publish(prefix+"/"+body, 0, false, payload)
	token.Wait()
	return sample, token.Error()
}
