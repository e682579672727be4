package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/tank2/internal/ai"
	"github.com/mitchelldurbincs/tank2/internal/config"
	"github.com/mitchelldurbincs/tank2/internal/game"
	"github.com/mitchelldurbincs/tank2/internal/game/mapgen"
	"github.com/mitchelldurbincs/tank2/internal/selfplay"
	"github.com/mitchelldurbincs/tank2/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	seed := flag.Int64("seed", 0, "Map seed (0 for time-based)")
	tickMS := flag.Int("tick", -1, "Milliseconds between turns (-1 to use config default)")
	flag.Parse()

	_ = godotenv.Load()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	if *tickMS == -1 {
		*tickMS = cfg.Viewer.TickMS
	}

	masks := mapgen.NewGenerator(mapgen.MapConfig{
		BrickPercent: cfg.Map.BrickPercent,
		SteelPercent: cfg.Map.SteelPercent,
		WaterPercent: cfg.Map.WaterPercent,
		MaxAttempts:  cfg.Map.MaxAttempts,
	}, rand.New(rand.NewSource(*seed))).Generate()

	// The TUI owns the terminal, so engine and commander logs are discarded
	logger := zerolog.Nop()
	engine, err := game.NewEngine(game.GameConfig{
		Brick:    masks.Brick,
		Water:    masks.Water,
		Steel:    masks.Steel,
		MaxTurns: cfg.Game.MaxTurns,
		GameID:   uuid.NewString(),
		Logger:   logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create engine: %v\n", err)
		os.Exit(1)
	}

	match := selfplay.NewMatch(engine, ai.Settings{
		StuckThreshold:     cfg.AI.StuckThreshold,
		ProximityThreshold: cfg.AI.ProximityThreshold,
	}, logger)

	p := tea.NewProgram(ui.NewViewer(match, time.Duration(*tickMS)*time.Millisecond), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "viewer failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("seed %d: %s after turn %d\n", *seed, engine.GetResult(), engine.Turn()-1)
}
