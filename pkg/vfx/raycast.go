package vfx

import (
	"math"

	"github.com/decker502/vfx/pkg/link"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// RaycastOptions configures a hit-test against live particles.
type RaycastOptions struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
	Radius    float32 // Hit sphere radius around each particle

	Multiple       bool // Return every hit instead of the first
	RemoveParticle bool // Retire hit particles and release their slots
}

// Raycast returns the world positions of particles hit by the ray.
//
// The pool is walked from the latest expiry backward and the walk stops at
// the first expired entry, since every entry before it has expired too.
func (ps *ParticleSystem) Raycast(opts RaycastOptions) []mgl32.Vec3 {
	if opts.Direction.Len() == 0 {
		ps.log.Error("raycast with zero direction")
		return nil
	}
	dir := opts.Direction.Normalize()
	now := ps.lastUpdate

	var hits []mgl32.Vec3
	for id := ps.pool.Last(); id != link.Nil; {
		e := ps.pool.Content(id)
		prev := ps.pool.Prev(id)
		if e.Expiry < now {
			break
		}
		if e.Delay <= now {
			pos := ps.WorldPosition(e.Point)
			if raySphere(opts.Origin, dir, pos, opts.Radius) {
				hits = append(hits, pos)
				if opts.RemoveParticle {
					ps.removeParticle(id)
				}
				if !opts.Multiple {
					break
				}
			}
		}
		id = prev
	}
	return hits
}

func (ps *ParticleSystem) removeParticle(id link.NodeID) {
	slot := ps.pool.Content(id).Slot
	ps.pool.RemoveNode(id)
	ps.renderer.RemoveParticlePoint(slot)
	ps.clearPointTrail(slot)
	ps.freeSlots = append(ps.freeSlots, slot)
	ps.log.Debug("particle removed by raycast", zap.Int("slot", slot))
}

// raySphere reports whether the ray origin + s*dir (s ≥ 0, dir unit length)
// passes within radius of center.
func raySphere(origin, dir, center mgl32.Vec3, radius float32) bool {
	oc := origin.Sub(center)
	b := float64(oc.Dot(dir))
	c := float64(oc.Dot(oc)) - float64(radius)*float64(radius)
	disc := b*b - c
	if disc < 0 {
		return false
	}
	// far intersection must lie in front of the origin
	return -b+math.Sqrt(disc) >= 0
}
