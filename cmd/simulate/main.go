// Package main runs an effect headless and prints per-frame pool statistics.
//
// Usage:
//
//	go run ./cmd/simulate [--effect Sparks] [--frames 600] [--seed 1] [--every 60]
//
// Each sampled frame prints time, loop time, pool size and the state flags
// of the particle system as tab-separated columns.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"text/tabwriter"

	"github.com/decker502/vfx/assets"
	"github.com/decker502/vfx/internal/particle"
	"github.com/decker502/vfx/pkg/config"
	"github.com/decker502/vfx/pkg/entities"
	"github.com/decker502/vfx/pkg/logger"
	"github.com/decker502/vfx/pkg/render"
	"github.com/decker502/vfx/pkg/vfx"
	"go.uber.org/zap"
)

var (
	configFlag  = flag.String("config", "", "TOML application config")
	effectsFlag = flag.String("effects", "", "YAML effect file (default: embedded demo)")
	effectFlag  = flag.String("effect", "", "Effect to run (default from config)")
	framesFlag  = flag.Int("frames", 0, "Frames to simulate (default from config)")
	seedFlag    = flag.Int64("seed", 0, "Random seed (0 = from config)")
	everyFlag   = flag.Int("every", 30, "Print every N frames")
	listFlag    = flag.Bool("list", false, "List effect names and exit")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "simulate:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadOrDefault(*configFlag)
	if err != nil {
		return err
	}
	if *effectsFlag != "" {
		cfg.Simulation.EffectFile = *effectsFlag
	}
	if *effectFlag != "" {
		cfg.Simulation.Effect = *effectFlag
	}
	if *framesFlag > 0 {
		cfg.Simulation.Frames = *framesFlag
	}
	if *seedFlag != 0 {
		cfg.Simulation.Seed = *seedFlag
	}
	every := max(*everyFlag, 1)

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	var file *particle.EffectFile
	if cfg.Simulation.EffectFile == "" {
		file, err = particle.ParseEffectFS(assets.Effects, assets.DefaultEffectFile)
	} else {
		file, err = particle.ParseEffectFile(cfg.Simulation.EffectFile)
	}
	if err != nil {
		return err
	}

	if *listFlag {
		for _, n := range file.Names() {
			fmt.Println(n)
		}
		return nil
	}

	effect, ok := file.Find(cfg.Simulation.Effect)
	if !ok {
		return fmt.Errorf("%w: %q", vfx.ErrNoEffect, cfg.Simulation.Effect)
	}
	behavior, err := vfx.ParseEndBehavior(effect.EndBehavior)
	if err != nil {
		return err
	}

	item := &vfx.StaticItem{Length: effect.Duration, Behavior: behavior}
	trailPoints := 0
	if effect.Trails != nil {
		trailPoints = effect.Trails.MaxPoints
		if trailPoints <= 0 {
			trailPoints = render.DefaultTrailPoints
		}
	}
	buf := render.NewSlotBuffer(effect.MaxCount, trailPoints, log)

	var rng *rand.Rand
	if cfg.Simulation.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Simulation.Seed))
	}
	ps, err := entities.NewParticleSystem(effect, item, buf, rng, log)
	if err != nil {
		return err
	}
	defer ps.Dispose()

	log.Info("simulating",
		zap.String("effect", effect.Name),
		zap.Int("frames", cfg.Simulation.Frames),
		zap.Duration("tick", cfg.Simulation.TickRate))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "frame\ttime\tloop\tparticles\tslots\tloops\tstate")

	ps.Start()
	for frame := 1; frame <= cfg.Simulation.Frames; frame++ {
		ps.Update(cfg.Simulation.TickRate)
		if frame%every == 0 || ps.Destroyed() {
			fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%d\t%d\t%d\t%s\n",
				frame, ps.Time(), ps.TimePassed(), ps.ParticleCount(), buf.Active(), buf.Loops(), state(ps))
		}
		if ps.Destroyed() {
			break
		}
	}
	return w.Flush()
}

func state(ps *vfx.ParticleSystem) string {
	switch {
	case ps.Destroyed():
		return "destroyed"
	case ps.Frozen():
		return "frozen"
	case ps.Ended():
		return "ended"
	default:
		return "emitting"
	}
}
