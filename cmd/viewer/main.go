// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/arenafit/internal/app"
	"github.com/relabs-tech/arenafit/internal/config"
)

func main() {
	configPath := flag.String("config", "arenafit_config.txt", "path to config file")
	screen := flag.Int("screen", -1, "screen index for the projector window (overrides SCREEN)")
	flag.Parse()

	log.Println("starting arenafit viewer")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	idx := config.Get().Screen
	if *screen >= 0 {
		idx = *screen
	}

	if err := app.RunViewer(idx); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
