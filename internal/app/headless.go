// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/arenafit/internal/align"
	"github.com/relabs-tech/arenafit/internal/config"
)

// RunHeadless runs the alignment loop without a window, publishing status
// for the web panel and status display. Ticks run on a ticker goroutine
// and remote keys on MQTT callbacks, so the session is lock-guarded.
func RunHeadless() error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDViewer)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("headless: connected to MQTT broker at %s", cfg.MQTTBroker)

	session, err := newSession(cfg, client)
	if err != nil {
		return err
	}
	g := align.NewGuarded(session)

	if err := subscribeKeys(client, cfg.TopicKeys, g.KeyRelease); err != nil {
		return err
	}

	status := &statusPublisher{
		client:   client,
		topic:    cfg.TopicStatus,
		interval: time.Duration(cfg.StatusPublishInterval) * time.Millisecond,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("headless: ticking at %d Hz", cfg.TickRate)
	runTicker(ctx, time.Second/time.Duration(cfg.TickRate), g, status)

	log.Println("headless: shutting down")
	return nil
}

type ticker interface {
	Tick() error
	Snapshot() align.Snapshot
}

// runTicker ticks t at the given period until ctx is done.
func runTicker(ctx context.Context, period time.Duration, t ticker, status *statusPublisher) {
	tk := time.NewTicker(period)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			_ = t.Tick()
			status.maybePublish(t.Snapshot())
		}
	}
}
