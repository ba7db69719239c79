package vfx

import (
	"math"

	"github.com/decker502/vfx/internal/particle"
	"github.com/decker502/vfx/pkg/burst"
	"github.com/go-gl/mathgl/mgl32"
)

// Options configures a ParticleSystem. Nil curves take the defaults noted on
// each field.
type Options struct {
	MaxCount int // Pool capacity

	StartLifetime particle.ValueGetter // Seconds (default 1)
	StartSpeed    particle.ValueGetter // Units per second (default 0)
	StartDelay    particle.ValueGetter // Seconds (default 0)

	StartSize   particle.ValueGetter // Uniform size (default 1)
	SizeAspect  particle.ValueGetter // x / y (default 1)
	Start3DSize bool
	StartSizeX  particle.ValueGetter // default 1
	StartSizeY  particle.ValueGetter // default 1

	StartRotation   particle.ValueGetter // Degrees around Z (default 0)
	Start3DRotation bool
	StartRotationX  particle.ValueGetter
	StartRotationY  particle.ValueGetter
	StartRotationZ  particle.ValueGetter

	StartColor particle.ColorGetter // default white

	Gravity           mgl32.Vec3
	GravityModifier   particle.ValueGetter // Scales gravity by particle age (default 1)
	SpeedOverLifetime particle.ValueGetter // Multiplies start speed; nil keeps it constant
	LinearVelocity    *LinearVelocity

	// FollowParent keeps particles in item space: spawn state ignores the
	// item transform and positions are mapped to world space on query.
	FollowParent bool

	Emission     Emission
	Trails       *TrailOptions
	ForceTarget  *ForceTarget
	TextureSheet *TextureSheet

	// Resources are released by Dispose. Curves listed here belong to the
	// system; curves not listed may be shared and are left alone.
	Resources []Closer
}

// Closer is a resource a ParticleSystem releases on Dispose.
type Closer interface {
	Close()
}

// LinearVelocity adds per-axis motion over the particle lifetime.
type LinearVelocity struct {
	X, Y, Z particle.ValueGetter
	// AsMovement treats the curves as offsets rather than velocities.
	AsMovement bool
}

// Emission is the spawn schedule.
type Emission struct {
	RateOverTime particle.ValueGetter // Particles per second (default 0)
	Bursts       []*burst.Burst
	// BurstOffsets maps a burst's index in Bursts to per-cycle offsets.
	BurstOffsets map[int][]mgl32.Vec3
}

// TrailOptions enables per-particle trails.
type TrailOptions struct {
	Lifetime              particle.ValueGetter // Seconds, sampled by emitter lifetime (default 1)
	MaxPoints             int
	SizeAffectsWidth      bool
	SizeAffectsLifetime   bool
	ParentAffectsPosition bool
	InheritParticleColor  bool
}

// ForceTarget pulls particles toward Target as Curve goes from 0 to 1.
type ForceTarget struct {
	Target mgl32.Vec3
	Curve  particle.ValueGetter
}

// TextureSheet describes sprite-sheet animation.
type TextureSheet struct {
	Animate  bool
	Col, Row int
	Total    int // Frames in use, default Col*Row
	Delay    particle.ValueGetter
	Duration particle.ValueGetter
	Cycles   particle.ValueGetter
}

// Frame returns the sheet frame for a sprite at the given particle age.
func (ts *TextureSheet) Frame(s *Sprite, age float64) int {
	total := ts.Total
	if total <= 0 {
		total = ts.Col * ts.Row
	}
	if s == nil || total <= 1 || s.Duration <= 0 {
		return 0
	}
	t := age - s.Delay
	if t <= 0 {
		return 0
	}
	cycle := t / s.Duration
	if s.Cycles > 0 && cycle >= s.Cycles {
		return total - 1
	}
	frac := cycle - math.Floor(cycle)
	return int(frac * float64(total))
}

func orValue(v particle.ValueGetter, d float64) particle.ValueGetter {
	if v == nil {
		return particle.Constant(d)
	}
	return v
}

// withDefaults returns a copy of o with nil curves filled in.
func (o Options) withDefaults() Options {
	o.StartLifetime = orValue(o.StartLifetime, 1)
	o.StartSpeed = orValue(o.StartSpeed, 0)
	o.StartDelay = orValue(o.StartDelay, 0)
	o.StartSize = orValue(o.StartSize, 1)
	o.SizeAspect = orValue(o.SizeAspect, 1)
	o.StartSizeX = orValue(o.StartSizeX, 1)
	o.StartSizeY = orValue(o.StartSizeY, 1)
	o.StartRotation = orValue(o.StartRotation, 0)
	o.StartRotationX = orValue(o.StartRotationX, 0)
	o.StartRotationY = orValue(o.StartRotationY, 0)
	o.StartRotationZ = orValue(o.StartRotationZ, 0)
	o.GravityModifier = orValue(o.GravityModifier, 1)
	o.Emission.RateOverTime = orValue(o.Emission.RateOverTime, 0)
	if o.StartColor == nil {
		o.StartColor = particle.White
	}

	if lv := o.LinearVelocity; lv != nil {
		c := *lv
		c.X = orValue(c.X, 0)
		c.Y = orValue(c.Y, 0)
		c.Z = orValue(c.Z, 0)
		o.LinearVelocity = &c
	}
	if tr := o.Trails; tr != nil {
		c := *tr
		c.Lifetime = orValue(c.Lifetime, 1)
		o.Trails = &c
	}
	if ft := o.ForceTarget; ft != nil {
		c := *ft
		c.Curve = orValue(c.Curve, 0)
		o.ForceTarget = &c
	}
	if ts := o.TextureSheet; ts != nil {
		c := *ts
		c.Delay = orValue(c.Delay, 0)
		c.Duration = orValue(c.Duration, 1)
		c.Cycles = orValue(c.Cycles, 0)
		o.TextureSheet = &c
	}
	return o
}
