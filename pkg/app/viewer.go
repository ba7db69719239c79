package app

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/decker502/vfx/internal/particle"
	"github.com/decker502/vfx/pkg/components"
	"github.com/decker502/vfx/pkg/config"
	"github.com/decker502/vfx/pkg/ecs"
	"github.com/decker502/vfx/pkg/entities"
	"github.com/decker502/vfx/pkg/systems"
	"github.com/decker502/vfx/pkg/vfx"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// rayDepth is how far in front of the screen plane click rays start.
const rayDepth = 1000

// Viewer is the input-independent state of the particle viewer: the effect
// list, the spawned effects and the simulation clock. App maps ebiten input
// onto it.
type Viewer struct {
	em      *ecs.EntityManager
	effects *systems.EffectSystem

	file     *particle.EffectFile
	names    []string // All effect names in file order
	filtered []string // Names matching query
	current  int
	query    string

	paused   bool
	cfg      config.ViewerConfig
	settings *SettingsManager
	rng      *rand.Rand
	log      *zap.Logger

	status string
}

// NewViewer creates a viewer over file. settings and log may be nil; seed 0
// seeds from the clock.
func NewViewer(file *particle.EffectFile, cfg config.ViewerConfig, settings *SettingsManager, seed int64, log *zap.Logger) (*Viewer, error) {
	if file == nil || len(file.Effects) == 0 {
		return nil, fmt.Errorf("%w: effect file is empty", vfx.ErrNoEffect)
	}
	if log == nil {
		log = zap.NewNop()
	}
	if settings == nil {
		settings = NewSettingsManager(nil, log)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	em := ecs.NewEntityManager()
	v := &Viewer{
		em:       em,
		effects:  systems.NewEffectSystem(em, log),
		file:     file,
		names:    file.Names(),
		cfg:      cfg,
		settings: settings,
		rng:      rand.New(rand.NewSource(seed)),
		log:      log,
	}
	v.SetFilter(settings.Settings().Filter)
	if last := settings.Settings().LastEffect; last == "" || !v.Select(last) {
		v.selected()
	}
	return v, nil
}

// Current returns the selected effect name, or "" when the filter matches
// nothing.
func (v *Viewer) Current() string {
	if len(v.filtered) == 0 {
		return ""
	}
	return v.filtered[v.current]
}

// Names returns the effects matching the filter.
func (v *Viewer) Names() []string {
	return v.filtered
}

// Select selects name if it passes the filter.
func (v *Viewer) Select(name string) bool {
	for i, n := range v.filtered {
		if n == name {
			v.current = i
			v.selected()
			return true
		}
	}
	return false
}

// Next moves the selection by delta, wrapping around.
func (v *Viewer) Next(delta int) {
	n := len(v.filtered)
	if n == 0 {
		return
	}
	v.current = ((v.current+delta)%n + n) % n
	v.selected()
}

func (v *Viewer) selected() {
	name := v.Current()
	v.settings.Settings().LastEffect = name
	if name == "" {
		v.status = "No effects match the filter"
		return
	}
	v.status = fmt.Sprintf("Selected: %s", name)
	v.log.Debug("effect selected", zap.String("effect", name), zap.Int("index", v.current))
}

// SetFilter keeps only effects whose name contains query, ignoring case.
// An empty query shows every effect.
func (v *Viewer) SetFilter(query string) {
	prev := v.Current()
	v.query = query
	v.settings.Settings().Filter = query
	v.filtered = filterEffects(v.names, query)
	v.current = 0
	if prev != "" {
		for i, n := range v.filtered {
			if n == prev {
				v.current = i
			}
		}
	}
}

// Filter returns the current name filter.
func (v *Viewer) Filter() string {
	return v.query
}

func filterEffects(names []string, query string) []string {
	if query == "" {
		return names
	}
	q := strings.ToLower(query)
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), q) {
			out = append(out, n)
		}
	}
	return out
}

// Spawn starts the selected effect at screen position (x, y).
func (v *Viewer) Spawn(x, y float32) (ecs.EntityID, error) {
	name := v.Current()
	id, err := entities.CreateEffect(v.em, v.file, name, mgl32.Vec3{x, y, 0}, entities.EffectOptions{
		Rand:      rand.New(rand.NewSource(v.rng.Int63())),
		Log:       v.log,
		AutoStart: true,
	})
	if err != nil {
		v.status = fmt.Sprintf("Error: %v", err)
		return 0, err
	}
	v.status = fmt.Sprintf("Spawned: %s at (%.0f, %.0f)", name, x, y)
	v.log.Debug("effect spawned", zap.String("effect", name), zap.Float32("x", x), zap.Float32("y", y))
	return id, nil
}

// Click hit-tests the particles under screen position (x, y) with a ray
// into the screen.
func (v *Viewer) Click(x, y float32) []systems.EffectHit {
	hits := v.effects.Raycast(vfx.RaycastOptions{
		Origin:         mgl32.Vec3{x, y, -rayDepth},
		Direction:      mgl32.Vec3{0, 0, 1},
		Radius:         float32(v.cfg.RayRadius),
		RemoveParticle: v.cfg.RemoveOnHit,
	})
	if len(hits) == 0 {
		v.status = fmt.Sprintf("No particle at (%.0f, %.0f)", x, y)
		return nil
	}
	h := hits[0]
	v.status = fmt.Sprintf("Hit %s particle at (%.0f, %.0f)", h.Effect, h.Position.X(), h.Position.Y())
	return hits
}

// Clear tears down every spawned effect.
func (v *Viewer) Clear() int {
	ids := ecs.GetEntitiesWith1[*components.EffectComponent](v.em)
	for _, id := range ids {
		if ec, ok := ecs.GetComponent[*components.EffectComponent](v.em, id); ok && ec.System != nil {
			ec.System.Dispose()
		}
		v.em.DestroyEntity(id)
	}
	v.em.RemoveMarkedEntities()
	v.status = fmt.Sprintf("Cleared %d effects", len(ids))
	return len(ids)
}

// TogglePause pauses or resumes the simulation clock.
func (v *Viewer) TogglePause() bool {
	v.paused = !v.paused
	if v.paused {
		v.status = "Paused"
	} else {
		v.status = "Resumed"
	}
	return v.paused
}

// Paused reports whether the clock is stopped.
func (v *Viewer) Paused() bool {
	return v.paused
}

// Step advances the simulation by dt scaled by the time-scale setting.
func (v *Viewer) Step(dt time.Duration) {
	if v.paused {
		return
	}
	scaled := time.Duration(float64(dt) * v.settings.Settings().TimeScale)
	v.effects.Update(scaled)
	v.em.RemoveMarkedEntities()
}

// Effects calls fn for every live effect in entity order.
func (v *Viewer) Effects(fn func(ec *components.EffectComponent)) {
	for _, id := range ecs.GetEntitiesWith1[*components.EffectComponent](v.em) {
		if ec, ok := ecs.GetComponent[*components.EffectComponent](v.em, id); ok {
			fn(ec)
		}
	}
}

// Stats returns the number of live effects and particles.
func (v *Viewer) Stats() (effects, particles int) {
	return len(ecs.GetEntitiesWith1[*components.EffectComponent](v.em)), v.effects.ParticleCount()
}

// Status returns the last status line.
func (v *Viewer) Status() string {
	return v.status
}

// Settings returns the preference manager.
func (v *Viewer) Settings() *SettingsManager {
	return v.settings
}
