// Package entities builds effect entities from authored effect configs.
package entities

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/decker502/vfx/internal/particle"
	"github.com/decker502/vfx/pkg/burst"
	"github.com/decker502/vfx/pkg/components"
	"github.com/decker502/vfx/pkg/ecs"
	"github.com/decker502/vfx/pkg/render"
	"github.com/decker502/vfx/pkg/shape"
	"github.com/decker502/vfx/pkg/vfx"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// EffectOptions tunes how an effect entity is built.
type EffectOptions struct {
	// Rand drives every random draw of the effect. nil uses a fresh
	// time-seeded source per effect.
	Rand *rand.Rand
	Log  *zap.Logger

	// Headless skips the slot buffer; the system then renders nowhere.
	Headless  bool
	AutoStart bool
}

// CreateEffect creates an effect entity at pos from the effect named name.
//
// Parameters:
//   - em: entity manager that receives the entity
//   - file: parsed effect file
//   - name: effect name inside file
//   - pos: world position of the effect
//
// Returns the entity ID, or an error wrapping vfx.ErrNoEffect when file has
// no such effect.
//
// Example:
//
//	id, err := entities.CreateEffect(em, file, "Sparks", mgl32.Vec3{400, 300, 0}, entities.EffectOptions{AutoStart: true})
func CreateEffect(em *ecs.EntityManager, file *particle.EffectFile, name string, pos mgl32.Vec3, opts EffectOptions) (ecs.EntityID, error) {
	if em == nil {
		return 0, errors.New("entity manager cannot be nil")
	}
	if file == nil {
		return 0, fmt.Errorf("%w: %q (no effect file)", vfx.ErrNoEffect, name)
	}
	cfg, ok := file.Find(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", vfx.ErrNoEffect, name)
	}

	behavior, err := vfx.ParseEndBehavior(cfg.EndBehavior)
	if err != nil {
		return 0, fmt.Errorf("effect %q: %w", name, err)
	}
	item := &vfx.StaticItem{
		Length:   cfg.Duration,
		Behavior: behavior,
		World:    vfx.NewTransform(pos),
	}

	var buf *render.SlotBuffer
	var renderer vfx.Renderer
	if !opts.Headless {
		trailPoints := 0
		if cfg.Trails != nil {
			trailPoints = cfg.Trails.MaxPoints
			if trailPoints <= 0 {
				trailPoints = render.DefaultTrailPoints
			}
		}
		buf = render.NewSlotBuffer(cfg.MaxCount, trailPoints, opts.Log)
		renderer = buf
	}

	ps, err := NewParticleSystem(cfg, item, renderer, opts.Rand, opts.Log)
	if err != nil {
		return 0, err
	}

	id := em.CreateEntity()
	em.AddComponent(id, &components.TransformComponent{Position: pos})
	em.AddComponent(id, &components.EffectComponent{
		Name:      cfg.Name,
		System:    ps,
		Item:      item,
		Buffer:    buf,
		AutoStart: opts.AutoStart,
	})
	return id, nil
}

// NewParticleSystem converts an authored effect into an idle particle system.
// renderer, rng and log may be nil.
func NewParticleSystem(cfg *particle.EffectConfig, item vfx.Item, renderer vfx.Renderer, rng *rand.Rand, log *zap.Logger) (*vfx.ParticleSystem, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if log == nil {
		log = zap.NewNop()
	}
	b := &optionsBuilder{rng: rng}
	opts := b.build(cfg)
	if b.err != nil {
		b.close()
		return nil, fmt.Errorf("effect %q: %w", cfg.Name, b.err)
	}
	// the system owns the script VMs compiled for it
	for _, sc := range b.scripts {
		opts.Resources = append(opts.Resources, sc)
	}

	gen, err := shape.NewFromConfig(cfg.Shape, rng)
	if err != nil {
		b.close()
		return nil, fmt.Errorf("effect %q: %w", cfg.Name, err)
	}

	ps, err := vfx.New(item, renderer, gen, opts, log.With(zap.String("effect", cfg.Name)))
	if err != nil {
		b.close()
		return nil, fmt.Errorf("effect %q: %w", cfg.Name, err)
	}
	return ps, nil
}

// optionsBuilder parses curve fields, keeping the first error.
type optionsBuilder struct {
	rng     *rand.Rand
	err     error
	scripts []*particle.ScriptCurve
}

func (b *optionsBuilder) curve(field, s string) particle.ValueGetter {
	if b.err != nil {
		return nil
	}
	c, err := particle.ParseCurve(s)
	if err != nil {
		b.err = fmt.Errorf("%s: %w", field, err)
		return nil
	}
	switch v := c.(type) {
	case *particle.RandomRange:
		v.Rand = b.rng
	case *particle.ScriptCurve:
		b.scripts = append(b.scripts, v)
	case nil:
		return nil
	}
	return c
}

// close releases script VMs compiled before a failure.
func (b *optionsBuilder) close() {
	for _, s := range b.scripts {
		s.Close()
	}
}

func (b *optionsBuilder) build(cfg *particle.EffectConfig) vfx.Options {
	p := &cfg.Particle
	o := vfx.Options{
		MaxCount: cfg.MaxCount,

		StartLifetime: b.curve("startLifetime", p.StartLifetime),
		StartSpeed:    b.curve("startSpeed", p.StartSpeed),
		StartDelay:    b.curve("startDelay", p.StartDelay),

		StartSize:   b.curve("startSize", p.StartSize),
		SizeAspect:  b.curve("sizeAspect", p.SizeAspect),
		Start3DSize: p.Start3DSize,
		StartSizeX:  b.curve("startSizeX", p.StartSizeX),
		StartSizeY:  b.curve("startSizeY", p.StartSizeY),

		StartRotation:   b.curve("startRotation", p.StartRotation),
		Start3DRotation: p.Start3DRotation,
		StartRotationX:  b.curve("startRotationX", p.StartRotationX),
		StartRotationY:  b.curve("startRotationY", p.StartRotationY),
		StartRotationZ:  b.curve("startRotationZ", p.StartRotationZ),

		Gravity:           mgl32.Vec3(p.Gravity),
		GravityModifier:   b.curve("gravityModifier", p.GravityModifier),
		SpeedOverLifetime: b.curve("speedOverLifetime", p.SpeedOverLifetime),
		FollowParent:      p.FollowParent,
	}

	if b.err == nil {
		color, err := particle.ParseColor(p.StartColor)
		if err != nil {
			b.err = fmt.Errorf("startColor: %w", err)
		}
		o.StartColor = color
	}

	if lv := p.LinearVelocity; lv != nil {
		o.LinearVelocity = &vfx.LinearVelocity{
			X:          b.curve("linearVelocity.x", lv.X),
			Y:          b.curve("linearVelocity.y", lv.Y),
			Z:          b.curve("linearVelocity.z", lv.Z),
			AsMovement: lv.AsMovement,
		}
	}

	o.Emission = b.emission(&cfg.Emission)

	if tr := cfg.Trails; tr != nil {
		o.Trails = &vfx.TrailOptions{
			Lifetime:              b.curve("trails.lifetime", tr.Lifetime),
			MaxPoints:             tr.MaxPoints,
			SizeAffectsWidth:      tr.SizeAffectsWidth,
			SizeAffectsLifetime:   tr.SizeAffectsLifetime,
			ParentAffectsPosition: tr.ParentAffectsPosition,
			InheritParticleColor:  tr.InheritParticleColor,
		}
	}
	if ft := cfg.ForceTarget; ft != nil {
		o.ForceTarget = &vfx.ForceTarget{
			Target: mgl32.Vec3(ft.Target),
			Curve:  b.curve("forceTarget.curve", ft.Curve),
		}
	}
	if ts := cfg.TextureSheet; ts != nil {
		o.TextureSheet = &vfx.TextureSheet{
			Animate:  ts.Animate,
			Col:      ts.Col,
			Row:      ts.Row,
			Total:    ts.Total,
			Delay:    b.curve("textureSheet.delay", ts.Delay),
			Duration: b.curve("textureSheet.duration", ts.Duration),
			Cycles:   b.curve("textureSheet.cycles", ts.Cycles),
		}
	}
	return o
}

func (b *optionsBuilder) emission(cfg *particle.EmissionConfig) vfx.Emission {
	em := vfx.Emission{
		RateOverTime: b.curve("emission.rateOverTime", cfg.RateOverTime),
	}
	for i, bc := range cfg.Bursts {
		probability := 1.0
		if bc.Probability != nil {
			probability = *bc.Probability
		}
		bs := burst.New(burst.Config{
			Time:        bc.Time,
			Interval:    bc.Interval,
			Count:       b.curve(fmt.Sprintf("emission.bursts[%d].count", i), bc.Count),
			Cycles:      bc.Cycles,
			Probability: probability,
			Once:        bc.Once,
		})
		bs.SetRand(b.rng)
		em.Bursts = append(em.Bursts, bs)

		if len(bc.Offsets) > 0 {
			if em.BurstOffsets == nil {
				em.BurstOffsets = make(map[int][]mgl32.Vec3)
			}
			offsets := make([]mgl32.Vec3, len(bc.Offsets))
			for j, off := range bc.Offsets {
				offsets[j] = mgl32.Vec3(off)
			}
			em.BurstOffsets[i] = offsets
		}
	}
	return em
}
