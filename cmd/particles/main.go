// Package main is the interactive particle viewer.
//
// Usage:
//
//	go run ./cmd/particles [flags]
//
// Flags:
//
//	--config <path>     TOML application config (default: built-in)
//	--effects <path>    YAML effect file (default: embedded demo effects)
//	--effect <name>     Effect selected at startup
//	--filter <keyword>  Initial name filter
//	--seed <n>          Random seed, 0 seeds from the clock
//	--verbose           Debug logging
//
// Controls:
//
//	Left click        - Spawn the selected effect at the cursor
//	Right click       - Hit-test particles under the cursor
//	Left/Right Arrow  - Previous/next effect
//	Page Up/Down      - Jump 10 effects
//	Space             - Spawn at screen center
//	P                 - Toggle pause
//	F or /            - Search mode (Enter/Escape to leave)
//	R                 - Clear all effects
//	T / D             - Toggle trails / debug boxes
//	- / =             - Halve / double simulation speed
//	Q/Escape          - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/decker502/vfx/assets"
	"github.com/decker502/vfx/internal/particle"
	"github.com/decker502/vfx/pkg/app"
	"github.com/decker502/vfx/pkg/config"
	"github.com/decker502/vfx/pkg/logger"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

var (
	configFlag  = flag.String("config", "", "TOML application config")
	effectsFlag = flag.String("effects", "", "YAML effect file (default: embedded demo)")
	effectFlag  = flag.String("effect", "", "Effect selected at startup")
	filterFlag  = flag.String("filter", "", "Initial filter by name keyword")
	seedFlag    = flag.Int64("seed", 0, "Random seed (0 = from clock)")
	verboseFlag = flag.Bool("verbose", false, "Enable debug logging")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "particles:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadOrDefault(*configFlag)
	if err != nil {
		return err
	}
	if *verboseFlag {
		cfg.Logging.Level = "debug"
	}
	if *effectsFlag != "" {
		cfg.Simulation.EffectFile = *effectsFlag
	}
	if *seedFlag != 0 {
		cfg.Simulation.Seed = *seedFlag
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	file, err := loadEffects(cfg.Simulation.EffectFile)
	if err != nil {
		return err
	}

	settings := app.OpenSettingsManager("vfx_particles", log)
	if *filterFlag != "" {
		settings.Settings().Filter = *filterFlag
	}

	viewer, err := app.NewViewer(file, cfg.Viewer, settings, cfg.Simulation.Seed, log)
	if err != nil {
		return err
	}
	// the flag wins over the remembered selection, the config default loses to it
	start := *effectFlag
	if start == "" && settings.Settings().LastEffect == "" {
		start = cfg.Simulation.Effect
	}
	if start != "" && !viewer.Select(start) {
		log.Warn("start effect not found", zap.String("effect", start))
	}

	log.Info("particle viewer started",
		zap.Strings("effects", file.Names()),
		zap.String("selected", viewer.Current()),
		zap.Bool("persistentSettings", settings.Persistent()))

	// Show something on the first frame.
	if viewer.Current() != "" {
		_, _ = viewer.Spawn(float32(cfg.Viewer.Width)/2, float32(cfg.Viewer.Height)/2)
	}

	ebiten.SetWindowSize(cfg.Viewer.Width, cfg.Viewer.Height)
	ebiten.SetWindowTitle(cfg.Viewer.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(int(1 / cfg.Simulation.TickRate.Seconds()))

	game := app.NewApp(viewer, cfg.Viewer, cfg.Simulation.TickRate, log)
	runErr := ebiten.RunGame(game)

	if err := settings.Save(); err != nil {
		log.Warn("failed to save viewer settings", zap.Error(err))
	}
	if runErr != nil && !errors.Is(runErr, app.ErrQuit) {
		return runErr
	}
	log.Info("particle viewer closed")
	return nil
}

func loadEffects(path string) (*particle.EffectFile, error) {
	if path == "" {
		return particle.ParseEffectFS(assets.Effects, assets.DefaultEffectFile)
	}
	return particle.ParseEffectFile(path)
}
