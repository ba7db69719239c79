// Package burst schedules discrete, cyclic and probability-gated spawn events.
//
// A Burst pairs an immutable Config with a mutable cursor. The cursor is reset
// whenever the owning particle system (re)starts or loops, and Clone gives every
// system instance its own cursor over the same authored config.
package burst

import (
	"math"
	"math/rand"

	"github.com/decker502/vfx/internal/particle"
)

// Result classifies a GetGeneratorOptions call.
type Result int

const (
	// Pending means the next tick is not due yet.
	Pending Result = iota
	// Skipped means a tick was due and consumed but the probability roll failed.
	Skipped
	// Fired means a tick was due and Options describes the spawn.
	Fired
)

func (r Result) String() string {
	switch r {
	case Pending:
		return "pending"
	case Skipped:
		return "skipped"
	case Fired:
		return "fired"
	default:
		return "unknown"
	}
}

// Config is the authored intent of a burst.
type Config struct {
	Time        float64              // Start offset in seconds from the loop start
	Interval    float64              // Seconds between ticks
	Count       particle.ValueGetter // Particles per tick, sampled by lifetime fraction
	Cycles      int                  // Number of ticks
	Probability float64              // Chance in [0, 1] that a due tick spawns
	Once        bool                 // Remove the burst from its system after the first spawn
}

// Options is a spawn directive handed to the shape generator.
type Options struct {
	Index      int     // Tick number, 1-based
	Total      float64 // Ticks per second (1 / Interval)
	Count      float64 // Particles to spawn
	CycleIndex int     // 0-based cycle, used to look up per-cycle offsets
}

// Burst is a per-instance scheduler. It is not safe for concurrent use.
type Burst struct {
	cfg Config

	index          int
	internalCycles int
	now            float64

	// Disabled bursts always report Pending.
	Disabled bool

	rng *rand.Rand
}

// New normalizes cfg and returns a burst with a fresh cursor.
func New(cfg Config) *Burst {
	if cfg.Interval <= 0 || math.IsNaN(cfg.Interval) {
		cfg.Interval = 1
	}
	if cfg.Cycles < 0 {
		cfg.Cycles = 0
	}
	if math.IsNaN(cfg.Probability) {
		cfg.Probability = 1
	}
	cfg.Probability = math.Max(0, math.Min(1, cfg.Probability))
	if cfg.Count == nil {
		cfg.Count = particle.Constant(0)
	}

	b := &Burst{cfg: cfg}
	b.Reset()
	return b
}

// Config returns the normalized configuration.
func (b *Burst) Config() Config {
	return b.cfg
}

// SetRand replaces the source used for probability rolls.
// A nil source falls back to the math/rand package functions.
func (b *Burst) SetRand(r *rand.Rand) {
	b.rng = r
}

// Reset rewinds the cursor to the first tick.
func (b *Burst) Reset() {
	b.index = 0
	b.internalCycles = b.cfg.Cycles
	b.now = 0
}

// Clone returns a burst over the same config with an independent cursor.
func (b *Burst) Clone() *Burst {
	c := &Burst{cfg: b.cfg, Disabled: b.Disabled, rng: b.rng}
	c.Reset()
	return c
}

// Index returns the number of ticks consumed since the last Reset.
func (b *Burst) Index() int {
	return b.index
}

// InternalCycles returns the remaining tick budget.
func (b *Burst) InternalCycles() int {
	return b.internalCycles
}

// GetGeneratorOptions advances the cursor for the given loop-relative time.
//
// A tick is due once timePassed - Time exceeds Interval * Index. A due tick is
// consumed whether or not the probability roll succeeds.
func (b *Burst) GetGeneratorOptions(timePassed, lifetime float64) (Options, Result) {
	if b.Disabled {
		return Options{}, Pending
	}

	elapsed := timePassed - b.cfg.Time - b.now
	if elapsed > b.cfg.Interval*float64(b.index) && b.internalCycles > 0 {
		b.internalCycles--
		b.index++
		if b.roll() < b.cfg.Probability {
			return Options{
				Index:      b.index,
				Total:      1 / b.cfg.Interval,
				Count:      b.cfg.Count.GetValue(lifetime),
				CycleIndex: b.cfg.Cycles - b.internalCycles - 1,
			}, Fired
		}
		return Options{}, Skipped
	}
	return Options{}, Pending
}

func (b *Burst) roll() float64 {
	if b.rng != nil {
		return b.rng.Float64()
	}
	return rand.Float64()
}
