package vfx

import (
	"github.com/decker502/vfx/pkg/link"
	"github.com/go-gl/mathgl/mgl32"
)

// PointPosition evaluates a particle's position at the current clock.
//
// With age t = now - delay and lifetime L:
//
//	pos = base + vel*∫speed(0..t) + linear(t) + ½·g·t²·gravityModifier(t/L)
//
// and, with a force target, pos is blended toward the target by curve(t/L).
// The result is in item space when FollowParent is set; see WorldPosition.
func (ps *ParticleSystem) PointPosition(p *Point) mgl32.Vec3 {
	o := &ps.opts
	t := ps.lastUpdate - p.Delay
	lt := p.Lifetime

	pos := p.Transform.Position

	speedIntegral := t
	if o.SpeedOverLifetime != nil {
		speedIntegral = o.SpeedOverLifetime.GetIntegrateValue(0, t, lt)
	}
	pos = pos.Add(p.Vel.Mul(float32(speedIntegral)))

	if lv := o.LinearVelocity; lv != nil {
		var d mgl32.Vec3
		if lv.AsMovement {
			u := ageFraction(t, lt)
			d = mgl32.Vec3{
				float32(lv.X.GetValue(u)),
				float32(lv.Y.GetValue(u)),
				float32(lv.Z.GetValue(u)),
			}
		} else {
			d = mgl32.Vec3{
				float32(lv.X.GetIntegrateValue(0, t, lt)),
				float32(lv.Y.GetIntegrateValue(0, t, lt)),
				float32(lv.Z.GetIntegrateValue(0, t, lt)),
			}
		}
		pos = pos.Add(d)
	}

	if p.Gravity != (mgl32.Vec3{}) {
		mod := o.GravityModifier.GetValue(ageFraction(t, lt))
		pos = pos.Add(p.Gravity.Mul(float32(0.5 * t * t * mod)))
	}

	if ft := o.ForceTarget; ft != nil {
		life := float32(ft.Curve.GetValue(ageFraction(t, lt)))
		pos = pos.Mul(1 - life).Add(ft.Target.Mul(life))
	}
	return pos
}

// WorldPosition is PointPosition mapped to world space.
func (ps *ParticleSystem) WorldPosition(p *Point) mgl32.Vec3 {
	pos := ps.PointPosition(p)
	if ps.opts.FollowParent {
		m := ps.item.Transform().Matrix()
		pos = m.Mul4x1(pos.Vec4(1)).Vec3()
	}
	return pos
}

func ageFraction(t, lifetime float64) float64 {
	if lifetime <= 0 {
		return 0
	}
	return t / lifetime
}

// visible reports whether an entry has spawned and not yet expired.
func (ps *ParticleSystem) visible(e *Entry) bool {
	return e.Delay <= ps.lastUpdate && e.Expiry >= ps.lastUpdate
}

// ForEachParticle calls fn for every visible particle in expiry order with
// its world position.
func (ps *ParticleSystem) ForEachParticle(fn func(e *Entry, pos mgl32.Vec3)) {
	ps.pool.ForEach(func(e *Entry, _ int) {
		if ps.visible(e) {
			fn(e, ps.WorldPosition(e.Point))
		}
	})
}

// ParticleBoxes returns the world-space extent of every visible particle.
func (ps *ParticleSystem) ParticleBoxes() []Box {
	boxes := make([]Box, 0, ps.pool.Len())
	ps.ForEachParticle(func(e *Entry, pos mgl32.Vec3) {
		boxes = append(boxes, Box{Slot: e.Slot, Center: pos, Size: e.Point.Size})
	})
	return boxes
}

// Entries returns a copy of the pool in expiry order.
func (ps *ParticleSystem) Entries() []Entry {
	out := make([]Entry, 0, ps.pool.Len())
	for id := ps.pool.First(); id != link.Nil; id = ps.pool.Next(id) {
		out = append(out, *ps.pool.Content(id))
	}
	return out
}
