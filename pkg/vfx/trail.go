package vfx

import (
	"github.com/go-gl/mathgl/mgl32"
)

// updateTrails samples or clears every trail once per frame.
func (ps *ParticleSystem) updateTrails(lifetime float64) {
	tr := ps.opts.Trails
	if tr == nil || ps.trailUpdated || !ps.renderer.HasTrail() {
		return
	}
	ps.trailUpdated = true

	now := ps.lastUpdate
	ps.pool.ForEach(func(e *Entry, _ int) {
		switch {
		case e.Expiry < now:
			ps.clearPointTrail(e.Slot)
		case now > e.Delay:
			ps.updatePointTrail(e, lifetime, tr)
		}
	})
}

func (ps *ParticleSystem) updatePointTrail(e *Entry, lifetime float64, tr *TrailOptions) {
	p := e.Point
	pos := ps.PointPosition(p)

	color := mgl32.Vec4{1, 1, 1, 1}
	if tr.InheritParticleColor {
		if c, ok := ps.renderer.ParticlePointColor(e.Slot); ok {
			color = c
		}
	}

	width := float32(1)
	if tr.SizeAffectsWidth {
		width *= p.Size.X()
	}
	life := tr.Lifetime.GetValue(lifetime)
	if tr.SizeAffectsLifetime {
		life *= float64(p.Size.X())
	}

	if tr.ParentAffectsPosition && ps.parent != nil {
		if start, ok := ps.renderer.TrailStartPosition(e.Slot); ok {
			pos = pos.Add(ps.parent.Position).Sub(start)
		}
	}

	ps.renderer.AddTrailPoint(e.Slot, pos, TrailPoint{
		Color:    color,
		Size:     width,
		Lifetime: life,
		Time:     ps.lastUpdate,
	})
}

func (ps *ParticleSystem) clearPointTrail(slot int) {
	if ps.opts.Trails != nil && ps.renderer.HasTrail() {
		ps.renderer.ClearTrail(slot)
	}
}
