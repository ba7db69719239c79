package vfx

import (
	"errors"
	"fmt"
	"time"

	"github.com/decker502/vfx/pkg/burst"
	"github.com/decker502/vfx/pkg/link"
	"github.com/decker502/vfx/pkg/shape"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// burstSlot keeps a burst next to its per-cycle offsets so removal keeps
// them paired.
type burstSlot struct {
	burst   *burst.Burst
	offsets []mgl32.Vec3
}

func (b burstSlot) offset(cycle int) mgl32.Vec3 {
	if cycle >= 0 && cycle < len(b.offsets) {
		return b.offsets[cycle]
	}
	return mgl32.Vec3{}
}

// ParticleSystem owns one emitter: its pool, bursts and clock.
//
// States: idle until Start, emitting until the item duration elapses, then
// ended (and frozen or eventually destroyed) unless the end behavior is
// Restart, which rewinds the clock and keeps emitting.
type ParticleSystem struct {
	item     Item
	renderer Renderer
	shape    shape.Generator
	opts     Options
	log      *zap.Logger

	pool      *link.Link[Entry]
	freeSlots []int
	nextSlot  int
	bursts    []burstSlot

	// Clock (seconds). lastUpdate is the current time; particle delays and
	// expiries are on the same clock.
	lastUpdate    float64
	loopStartTime float64
	lastEmitTime  float64 // Relative to loopStartTime

	started         bool
	ended           bool
	frozen          bool
	destroyed       bool
	disposed        bool
	emissionStopped bool
	trailUpdated    bool

	parent *Transform
	onEnd  func(*ParticleSystem)
}

// New creates an idle particle system. renderer may be nil; log may be nil.
// Bursts in opts are cloned so the caller's cursors are never advanced.
func New(item Item, renderer Renderer, gen shape.Generator, opts Options, log *zap.Logger) (*ParticleSystem, error) {
	if item == nil {
		return nil, errors.New("particle system needs an item")
	}
	if gen == nil {
		return nil, errors.New("particle system needs a shape generator")
	}
	if opts.MaxCount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxCount, opts.MaxCount)
	}
	if renderer == nil {
		renderer = NopRenderer{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	opts = opts.withDefaults()
	ps := &ParticleSystem{
		item:     item,
		renderer: renderer,
		shape:    gen,
		opts:     opts,
		log:      log,
		pool:     link.NewWithCapacity(compareEntries, opts.MaxCount),
	}
	for i, b := range opts.Emission.Bursts {
		if b == nil {
			continue
		}
		ps.bursts = append(ps.bursts, burstSlot{
			burst:   b.Clone(),
			offsets: opts.Emission.BurstOffsets[i],
		})
	}
	return ps, nil
}

// Start begins emission. Starting an ended system resets it first.
func (ps *ParticleSystem) Start() {
	if ps.disposed {
		return
	}
	if !ps.started || ps.ended {
		ps.Reset()
		ps.started = true
		ps.log.Debug("particle system started",
			zap.Int("maxCount", ps.opts.MaxCount),
			zap.Float64("duration", ps.item.Duration()),
			zap.Stringer("endBehavior", ps.item.EndBehavior()))
	}
}

// Stop forces the system into the ended state. Live particles keep playing.
func (ps *ParticleSystem) Stop() {
	ps.ended = true
}

// Reset clears the pool, the clock and every burst cursor.
func (ps *ParticleSystem) Reset() {
	ps.pool.Clear()
	ps.freeSlots = ps.freeSlots[:0]
	ps.nextSlot = 0
	ps.renderer.Reset()

	ps.lastUpdate = 0
	ps.loopStartTime = 0
	ps.lastEmitTime = 0

	ps.started = false
	ps.ended = false
	ps.frozen = false
	ps.destroyed = false
	ps.emissionStopped = false

	for _, b := range ps.bursts {
		b.burst.Reset()
	}
}

// StopEmission pauses spawning. Live particles keep playing.
func (ps *ParticleSystem) StopEmission() {
	ps.emissionStopped = true
}

// ResumeEmission resumes spawning without catching up on the paused time.
func (ps *ParticleSystem) ResumeEmission() {
	if ps.emissionStopped {
		ps.emissionStopped = false
		ps.lastEmitTime = ps.TimePassed()
	}
}

// Update advances the clock by dt and runs one simulation step.
func (ps *ParticleSystem) Update(dt time.Duration) {
	if !ps.started || ps.frozen || ps.destroyed || ps.disposed {
		return
	}

	delta := dt.Seconds()
	now := ps.lastUpdate + delta
	ps.lastUpdate = now
	ps.renderer.UpdateTime(now, delta)
	ps.trailUpdated = false

	duration := ps.item.Duration()
	timePassed := now - ps.loopStartTime
	lifetime := ps.lifetimeAt(timePassed)

	switch {
	case !ps.ended && timePassed < duration:
		ps.emit(now, timePassed, lifetime)
	case !ps.ended && ps.item.EndBehavior() == Restart:
		ps.updateTrails(lifetime)
		ps.loop(now, duration)
	case !ps.ended:
		ps.end()
	case ps.item.EndBehavior() == Destroy:
		last := ps.pool.Last()
		if last == link.Nil || ps.pool.Content(last).Expiry < now {
			ps.destroyed = true
			ps.log.Debug("particle system destroyed")
		}
	}

	ps.updateTrails(lifetime)
}

// loop rewinds the clock by duration. Every stored time shifts by the same
// amount, so remaining particle life and pool order are unchanged.
func (ps *ParticleSystem) loop(now, duration float64) {
	ps.loopStartTime = now - duration
	ps.lastEmitTime -= duration
	ps.lastUpdate -= duration

	for _, b := range ps.bursts {
		b.burst.Reset()
	}
	ps.pool.ForEach(func(e *Entry, _ int) {
		e.Expiry -= duration
		e.Delay -= duration
		e.Point.Delay -= duration
	})
	ps.renderer.MinusTimeForLoop(duration)

	ps.log.Debug("particle system looped",
		zap.Float64("loopStartTime", ps.loopStartTime),
		zap.Int("particles", ps.pool.Len()))
}

func (ps *ParticleSystem) end() {
	ps.ended = true
	if ps.item.EndBehavior() == Freeze {
		ps.frozen = true
	}
	ps.log.Debug("particle system ended",
		zap.Stringer("endBehavior", ps.item.EndBehavior()),
		zap.Int("particles", ps.pool.Len()))
	if ps.onEnd != nil {
		ps.onEnd(ps)
	}
}

// lifetimeAt returns the emitter lifetime fraction for a loop-relative time.
func (ps *ParticleSystem) lifetimeAt(timePassed float64) float64 {
	d := ps.item.Duration()
	if d <= 0 {
		return 0
	}
	return timePassed / d
}

// allocSlot returns a free slot. The caller has checked capacity.
func (ps *ParticleSystem) allocSlot() int {
	if n := len(ps.freeSlots); n > 0 {
		slot := ps.freeSlots[n-1]
		ps.freeSlots = ps.freeSlots[:n-1]
		return slot
	}
	slot := ps.nextSlot
	ps.nextSlot++
	return slot
}

// addParticle inserts p, evicting the first-expiring particle when full.
func (ps *ParticleSystem) addParticle(p *Point) {
	maxCount := ps.opts.MaxCount
	if maxCount <= 0 {
		return
	}

	var slot int
	if ps.pool.Len() >= maxCount {
		first := ps.pool.First()
		slot = ps.pool.Content(first).Slot
		ps.pool.RemoveNode(first)
	} else {
		slot = ps.allocSlot()
	}

	ps.pool.PushNode(Entry{
		Expiry: p.Expiry(),
		Slot:   slot,
		Delay:  p.Delay,
		Point:  p,
	})
	ps.renderer.SetParticlePoint(slot, p)
	ps.clearPointTrail(slot)

	if tr := ps.opts.Trails; tr != nil && tr.ParentAffectsPosition && ps.parent != nil {
		ps.renderer.SetTrailStartPosition(slot, ps.parent.Position)
	}
}

// AddBurst appends a clone of b and returns its index.
func (ps *ParticleSystem) AddBurst(b *burst.Burst, offsets []mgl32.Vec3) int {
	ps.bursts = append(ps.bursts, burstSlot{burst: b.Clone(), offsets: offsets})
	return len(ps.bursts) - 1
}

// RemoveBurst removes the burst at index. Later bursts shift down.
func (ps *ParticleSystem) RemoveBurst(index int) bool {
	if index < 0 || index >= len(ps.bursts) {
		ps.log.Error("burst index out of range", zap.Int("index", index), zap.Int("bursts", len(ps.bursts)))
		return false
	}
	ps.bursts = append(ps.bursts[:index], ps.bursts[index+1:]...)
	return true
}

// Bursts returns the number of scheduled bursts.
func (ps *ParticleSystem) Bursts() int {
	return len(ps.bursts)
}

// SetParentTransform sets the transform trails compensate for when
// ParentAffectsPosition is enabled. nil clears it.
func (ps *ParticleSystem) SetParentTransform(t *Transform) {
	ps.parent = t
}

// OnEnd registers fn to run when the duration elapses without restart.
func (ps *ParticleSystem) OnEnd(fn func(*ParticleSystem)) {
	ps.onEnd = fn
}

// Dispose releases the renderer data and the resources listed in
// Options.Resources.
func (ps *ParticleSystem) Dispose() {
	if ps.disposed {
		return
	}
	ps.disposed = true
	ps.pool.Clear()
	ps.renderer.Reset()
	for _, r := range ps.opts.Resources {
		if r != nil {
			r.Close()
		}
	}
}

// ParticleCount returns the pool length, including expired particles not yet evicted.
func (ps *ParticleSystem) ParticleCount() int { return ps.pool.Len() }

// MaxCount returns the pool capacity.
func (ps *ParticleSystem) MaxCount() int { return ps.opts.MaxCount }

// Started reports whether Start has been called since the last Reset.
func (ps *ParticleSystem) Started() bool { return ps.started }

// Ended reports whether emission has ended.
func (ps *ParticleSystem) Ended() bool { return ps.ended }

// Frozen reports whether the clock has stopped.
func (ps *ParticleSystem) Frozen() bool { return ps.frozen }

// Destroyed reports that the system finished and its owner should tear it down.
func (ps *ParticleSystem) Destroyed() bool { return ps.destroyed }

// Disposed reports whether Dispose has been called.
func (ps *ParticleSystem) Disposed() bool { return ps.disposed }

// EmissionStopped reports whether spawning is paused.
func (ps *ParticleSystem) EmissionStopped() bool { return ps.emissionStopped }

// Time returns the current clock.
func (ps *ParticleSystem) Time() float64 { return ps.lastUpdate }

// LoopStartTime returns the clock time the current loop started.
func (ps *ParticleSystem) LoopStartTime() float64 { return ps.loopStartTime }

// TimePassed returns the time elapsed in the current loop.
func (ps *ParticleSystem) TimePassed() float64 { return ps.lastUpdate - ps.loopStartTime }

// Lifetime returns the emitter lifetime fraction of the current loop.
func (ps *ParticleSystem) Lifetime() float64 { return ps.lifetimeAt(ps.TimePassed()) }

// Options returns the defaulted options.
func (ps *ParticleSystem) Options() Options { return ps.opts }

// Item returns the owning item.
func (ps *ParticleSystem) Item() Item { return ps.item }
