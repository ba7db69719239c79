package vfx

import (
	"math"

	"github.com/decker502/vfx/pkg/burst"
	"github.com/decker502/vfx/pkg/link"
	"github.com/decker502/vfx/pkg/shape"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// emit runs rate and burst spawning for one frame.
func (ps *ParticleSystem) emit(now, timePassed, lifetime float64) {
	maxCount := ps.opts.MaxCount

	if rate := ps.opts.Emission.RateOverTime.GetValue(lifetime); rate > 0 && !math.IsInf(rate, 0) {
		interval := 1 / rate
		pointCount := int(math.Floor((timePassed - ps.lastEmitTime) / interval))
		if pointCount > 0 {
			// spread sub-frame spawns over the interval
			timeDelta := interval / float64(pointCount)
			for i := 0; i < pointCount && i < maxCount; i++ {
				if ps.shouldSkipSpawn(now) {
					break
				}
				p := ps.initPoint(ps.shape.Generate(shape.Options{Index: i}), lifetime)
				p.Delay += now + float64(i)*timeDelta
				ps.addParticle(p)
				ps.lastEmitTime = timePassed
			}
		}
	}

	// bursts share one spawn budget per frame
	cursor := 0
	for j := len(ps.bursts) - 1; j >= 0 && cursor < maxCount; j-- {
		if ps.shouldSkipSpawn(now) {
			break
		}
		bs := ps.bursts[j]
		opts, res := bs.burst.GetGeneratorOptions(timePassed, lifetime)
		if res != burst.Fired {
			continue
		}

		offset := bs.offset(opts.CycleIndex)
		if bs.burst.Config().Once {
			ps.RemoveBurst(j)
		}

		// a fractional count spawns its partial particle
		count := int(math.Ceil(opts.Count))
		ps.log.Debug("burst fired",
			zap.Int("burst", j),
			zap.Int("cycle", opts.CycleIndex),
			zap.Int("count", count))
		for i := 0; i < count && cursor < maxCount; i++ {
			if ps.shouldSkipSpawn(now) {
				break
			}
			p := ps.initPoint(ps.shape.Generate(shape.Options{
				Total:      opts.Total,
				Index:      opts.Index,
				BurstIndex: i,
				BurstCount: count,
			}), lifetime)
			p.Delay += now
			p.Transform.Translate(offset)
			cursor++
			ps.addParticle(p)
		}
	}
}

// shouldSkipSpawn stops spawning while paused, or when the pool is full and
// its first-expiring particle is still alive.
func (ps *ParticleSystem) shouldSkipSpawn(now float64) bool {
	if ps.emissionStopped {
		return true
	}
	if ps.pool.Len() < ps.opts.MaxCount {
		return false
	}
	first := ps.pool.First()
	return first != link.Nil && ps.pool.Content(first).Expiry > now
}

// initPoint builds the spawn state from a generated shape. Delay is relative
// and the caller adds the spawn time.
func (ps *ParticleSystem) initPoint(data shape.Shape, lifetime float64) *Point {
	o := &ps.opts

	world := ps.item.Transform()
	m := mgl32.Ident4()
	if !o.FollowParent {
		m = world.Matrix()
	}

	pos := m.Mul4x1(data.Position.Vec4(1)).Vec3()
	dir := m.Mul4x1(data.Direction.Vec4(0)).Vec3()
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	speed := float32(o.StartSpeed.GetValue(lifetime))

	p := &Point{
		Transform: NewTransform(pos),
		Vel:       dir.Mul(speed),
		Color:     o.StartColor.GetValue(lifetime),
		Lifetime:  o.StartLifetime.GetValue(lifetime),
		Delay:     o.StartDelay.GetValue(lifetime),
		Gravity:   o.Gravity,
	}

	if ps.shape.AlignSpeedDirection() {
		up, ok := ps.shape.UpDirection()
		if !ok {
			up = mgl32.Vec3{0, 0, 1}
		}
		up = m.Mul4x1(up.Vec4(0)).Vec3()
		p.DirY = dir
		p.DirX = basisX(dir, up)
	}

	if o.Start3DRotation {
		p.Transform.Rotation = mgl32.Vec3{
			float32(o.StartRotationX.GetValue(lifetime)),
			float32(o.StartRotationY.GetValue(lifetime)),
			float32(o.StartRotationZ.GetValue(lifetime)),
		}
	} else {
		p.Transform.Rotation = mgl32.Vec3{0, 0, float32(o.StartRotation.GetValue(lifetime))}
	}

	if o.Start3DSize {
		p.Size = mgl32.Vec2{
			float32(o.StartSizeX.GetValue(lifetime)),
			float32(o.StartSizeY.GetValue(lifetime)),
		}
	} else {
		n := o.StartSize.GetValue(lifetime)
		aspect := o.SizeAspect.GetValue(lifetime)
		var y float64
		if aspect != 0 {
			y = n / aspect
		}
		p.Size = mgl32.Vec2{float32(n), float32(y)}
	}
	if !o.FollowParent {
		s := world.EffectiveScale()
		p.Size = mgl32.Vec2{p.Size.X() * s.X(), p.Size.Y() * s.Y()}
	}

	if ts := o.TextureSheet; ts != nil && ts.Animate {
		p.Sprite = &Sprite{
			Delay:    ts.Delay.GetValue(lifetime),
			Duration: ts.Duration.GetValue(lifetime),
			Cycles:   ts.Cycles.GetValue(lifetime),
		}
	}
	return p
}

// basisX returns the side vector of a speed-aligned particle. A direction
// parallel to up has no defined side and snaps to +X.
func basisX(dirY, up mgl32.Vec3) mgl32.Vec3 {
	x := dirY.Cross(up)
	if x.Len() < 1e-6 {
		return mgl32.Vec3{1, 0, 0}
	}
	return x.Normalize()
}
