// Package render holds CPU-side particle render buffers.
package render

import (
	"github.com/decker502/vfx/pkg/vfx"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// DefaultTrailPoints is the trail history length used when none is given.
const DefaultTrailPoints = 16

// TrailSample is one stored trail point.
type TrailSample struct {
	Position mgl32.Vec3
	vfx.TrailPoint
}

type slot struct {
	active bool
	point  *vfx.Point

	trail      []TrailSample
	start      mgl32.Vec3
	startValid bool
}

// SlotBuffer is a vfx.Renderer that keeps per-slot particle data and trail
// history in memory for a CPU renderer (the ebiten viewer) or for tests.
//
// Slot lookups outside [0, capacity) log an error and are ignored.
type SlotBuffer struct {
	slots       []slot
	trails      bool
	trailPoints int
	now         float64
	loops       int
	log         *zap.Logger
}

// NewSlotBuffer creates a buffer for capacity slots. trailPoints > 0 enables
// trail storage with that many samples per slot; log may be nil.
func NewSlotBuffer(capacity, trailPoints int, log *zap.Logger) *SlotBuffer {
	if capacity < 0 {
		capacity = 0
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SlotBuffer{
		slots:       make([]slot, capacity),
		trails:      trailPoints > 0,
		trailPoints: trailPoints,
		log:         log,
	}
}

var _ vfx.Renderer = (*SlotBuffer)(nil)

func (b *SlotBuffer) at(i int, op string) *slot {
	if i < 0 || i >= len(b.slots) {
		b.log.Error("particle slot out of range",
			zap.String("op", op),
			zap.Int("slot", i),
			zap.Int("capacity", len(b.slots)))
		return nil
	}
	return &b.slots[i]
}

// SetParticlePoint implements vfx.Renderer.
func (b *SlotBuffer) SetParticlePoint(i int, p *vfx.Point) {
	if s := b.at(i, "set"); s != nil {
		s.active = true
		s.point = p
	}
}

// RemoveParticlePoint implements vfx.Renderer.
func (b *SlotBuffer) RemoveParticlePoint(i int) {
	if s := b.at(i, "remove"); s != nil {
		s.active = false
		s.point = nil
	}
}

// ClearTrail implements vfx.Renderer.
func (b *SlotBuffer) ClearTrail(i int) {
	if s := b.at(i, "clearTrail"); s != nil {
		s.trail = s.trail[:0]
		s.startValid = false
	}
}

// AddTrailPoint implements vfx.Renderer. The oldest sample is dropped once
// the slot holds trailPoints samples.
func (b *SlotBuffer) AddTrailPoint(i int, pos mgl32.Vec3, tp vfx.TrailPoint) {
	if !b.trails {
		return
	}
	s := b.at(i, "addTrail")
	if s == nil {
		return
	}
	if len(s.trail) >= b.trailPoints {
		copy(s.trail, s.trail[1:])
		s.trail = s.trail[:len(s.trail)-1]
	}
	s.trail = append(s.trail, TrailSample{Position: pos, TrailPoint: tp})
}

// TrailStartPosition implements vfx.Renderer.
func (b *SlotBuffer) TrailStartPosition(i int) (mgl32.Vec3, bool) {
	s := b.at(i, "trailStart")
	if s == nil || !s.startValid {
		return mgl32.Vec3{}, false
	}
	return s.start, true
}

// SetTrailStartPosition implements vfx.Renderer.
func (b *SlotBuffer) SetTrailStartPosition(i int, pos mgl32.Vec3) {
	if s := b.at(i, "setTrailStart"); s != nil {
		s.start = pos
		s.startValid = true
	}
}

// HasTrail implements vfx.Renderer.
func (b *SlotBuffer) HasTrail() bool {
	return b.trails
}

// UpdateTime implements vfx.Renderer.
func (b *SlotBuffer) UpdateTime(now, _ float64) {
	b.now = now
}

// Reset implements vfx.Renderer.
func (b *SlotBuffer) Reset() {
	for i := range b.slots {
		b.slots[i] = slot{trail: b.slots[i].trail[:0]}
	}
	b.now = 0
	b.loops = 0
}

// MinusTimeForLoop implements vfx.Renderer. Trail sample times move with the
// particle clock.
func (b *SlotBuffer) MinusTimeForLoop(duration float64) {
	b.now -= duration
	b.loops++
	for i := range b.slots {
		for j := range b.slots[i].trail {
			b.slots[i].trail[j].Time -= duration
		}
	}
}

// ParticlePointColor implements vfx.Renderer.
func (b *SlotBuffer) ParticlePointColor(i int) (mgl32.Vec4, bool) {
	s := b.at(i, "color")
	if s == nil || !s.active || s.point == nil {
		return mgl32.Vec4{}, false
	}
	return s.point.Color, true
}

// Point returns the particle stored in slot i.
func (b *SlotBuffer) Point(i int) (*vfx.Point, bool) {
	s := b.at(i, "point")
	if s == nil || !s.active {
		return nil, false
	}
	return s.point, true
}

// Trail returns the samples of slot i that are still within their lifetime,
// oldest first. The slice is freshly allocated.
func (b *SlotBuffer) Trail(i int) []TrailSample {
	s := b.at(i, "trail")
	if s == nil {
		return nil
	}
	out := make([]TrailSample, 0, len(s.trail))
	for _, ts := range s.trail {
		if b.now-ts.Time <= ts.Lifetime {
			out = append(out, ts)
		}
	}
	return out
}

// Capacity returns the number of slots.
func (b *SlotBuffer) Capacity() int {
	return len(b.slots)
}

// Active returns the number of slots holding a particle.
func (b *SlotBuffer) Active() int {
	n := 0
	for i := range b.slots {
		if b.slots[i].active {
			n++
		}
	}
	return n
}

// Now returns the last clock value passed to UpdateTime.
func (b *SlotBuffer) Now() float64 {
	return b.now
}

// Loops returns how many loop rebases happened since the last Reset.
func (b *SlotBuffer) Loops() int {
	return b.loops
}
