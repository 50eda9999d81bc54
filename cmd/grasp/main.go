// grasp - real-time hand gesture physics engine
// Turns webcam hand tracking into grab, carry and throw interactions
// with simulated rigid bodies, served over websockets.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-grasp/pkg/debug"
	"github.com/teslashibe/go-grasp/pkg/engine"
)

func main() {
	cfg := parseFlags()

	app, err := engine.New(cfg)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	if err := app.Init(); err != nil {
		log.Fatalf("❌ Initialization failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("❌ Runtime error: %v", err)
	}
}

// parseFlags loads the config and applies command line overrides.
func parseFlags() engine.Config {
	cfg, err := engine.Load()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}

	debugFlag := flag.Bool("debug", cfg.Debug, "Enable verbose debug logging")
	debugTicks := flag.Bool("debug-ticks", false, "Log every simulation tick (very verbose)")
	port := flag.String("port", cfg.Server.Port, "HTTP listen port")
	preset := flag.String("preset", cfg.Scene.Preset, "Startup scene preset")
	tickRate := flag.Float64("tick-rate", cfg.Sim.TickRate, "Simulation frequency in Hz")
	variableDamping := flag.Bool("variable-damping", cfg.Sim.VariableDamping, "Scale damping by measured tick length")
	seed := flag.Int64("seed", cfg.Sim.Seed, "Random seed, 0 seeds from the clock")
	writeConfig := flag.String("write-config", "", "Write an example config to the given path and exit")
	flag.Parse()

	if *writeConfig != "" {
		if err := engine.WriteExample(*writeConfig); err != nil {
			log.Fatalf("❌ Write config: %v", err)
		}
		fmt.Printf("📝 wrote example config to %s\n", *writeConfig)
		os.Exit(0)
	}

	debug.Ticks = *debugTicks

	cfg.Debug = *debugFlag
	cfg.Server.Port = *port
	cfg.Scene.Preset = *preset
	cfg.Sim.TickRate = *tickRate
	cfg.Sim.VariableDamping = *variableDamping
	cfg.Sim.Seed = *seed
	return cfg
}
