// Package components holds the data components attached to effect entities.
package components

import (
	"github.com/decker502/vfx/pkg/render"
	"github.com/decker502/vfx/pkg/vfx"
)

// EffectComponent attaches a running particle system to an entity.
//
// Item is the host object the system reads its duration, end behavior and
// world transform from. EffectSystem keeps Item.World in sync with the
// entity's TransformComponent.
//
// This is a pure data component.
type EffectComponent struct {
	Name string // Authored effect name

	System *vfx.ParticleSystem
	Item   *vfx.StaticItem
	Buffer *render.SlotBuffer // Renderer the system writes into; nil when headless

	// AutoStart starts the system on the first EffectSystem tick.
	AutoStart bool
}
