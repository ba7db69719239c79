package systems

import (
	"time"

	"github.com/decker502/vfx/pkg/components"
	"github.com/decker502/vfx/pkg/ecs"
	"github.com/decker502/vfx/pkg/vfx"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// EffectSystem ticks every effect entity.
//
// Each frame it:
//  1. copies the entity transform into the effect item
//  2. advances the particle system clock
//  3. disposes destroyed systems and marks their entities for removal
//
// Removal itself is left to the owner's EntityManager.RemoveMarkedEntities.
type EffectSystem struct {
	EntityManager *ecs.EntityManager
	log           *zap.Logger
}

// NewEffectSystem creates an EffectSystem. log may be nil.
func NewEffectSystem(em *ecs.EntityManager, log *zap.Logger) *EffectSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &EffectSystem{EntityManager: em, log: log}
}

// Update advances every effect by dt.
func (s *EffectSystem) Update(dt time.Duration) {
	for _, id := range ecs.GetEntitiesWith1[*components.EffectComponent](s.EntityManager) {
		if s.EntityManager.IsMarkedForDestroy(id) {
			continue
		}
		ec, _ := ecs.GetComponent[*components.EffectComponent](s.EntityManager, id)
		if ec.System == nil {
			continue
		}

		if tc, ok := ecs.GetComponent[*components.TransformComponent](s.EntityManager, id); ok && ec.Item != nil {
			syncTransform(&ec.Item.World, tc)
			ec.System.SetParentTransform(&ec.Item.World)
		}

		if ec.AutoStart && !ec.System.Started() {
			ec.System.Start()
		}
		ec.System.Update(dt)

		if ec.System.Destroyed() {
			s.log.Debug("effect finished",
				zap.Uint64("entity", uint64(id)),
				zap.String("effect", ec.Name))
			ec.System.Dispose()
			s.EntityManager.DestroyEntity(id)
		}
	}
}

func syncTransform(dst *vfx.Transform, tc *components.TransformComponent) {
	dst.Position = tc.Position
	dst.Rotation = tc.Rotation
	dst.Scale = tc.Scale
}

// EffectHit is one particle hit by EffectSystem.Raycast.
type EffectHit struct {
	Entity   ecs.EntityID
	Effect   string
	Position mgl32.Vec3
}

// Raycast tests the ray against every live effect. Entities are visited in
// ID order; without opts.Multiple the first hit ends the search.
func (s *EffectSystem) Raycast(opts vfx.RaycastOptions) []EffectHit {
	var hits []EffectHit
	for _, id := range ecs.GetEntitiesWith1[*components.EffectComponent](s.EntityManager) {
		ec, _ := ecs.GetComponent[*components.EffectComponent](s.EntityManager, id)
		if ec.System == nil || ec.System.Disposed() {
			continue
		}
		for _, pos := range ec.System.Raycast(opts) {
			hits = append(hits, EffectHit{Entity: id, Effect: ec.Name, Position: pos})
		}
		if len(hits) > 0 && !opts.Multiple {
			break
		}
	}
	return hits
}

// ParticleCount returns the pool size summed over all effects.
func (s *EffectSystem) ParticleCount() int {
	n := 0
	for _, id := range ecs.GetEntitiesWith1[*components.EffectComponent](s.EntityManager) {
		if ec, _ := ecs.GetComponent[*components.EffectComponent](s.EntityManager, id); ec.System != nil {
			n += ec.System.ParticleCount()
		}
	}
	return n
}
