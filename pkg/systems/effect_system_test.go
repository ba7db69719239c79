package systems

import (
	"math/rand"
	"testing"
	"time"

	"github.com/decker502/vfx/internal/particle"
	"github.com/decker502/vfx/pkg/components"
	"github.com/decker502/vfx/pkg/ecs"
	"github.com/decker502/vfx/pkg/entities"
	"github.com/decker502/vfx/pkg/vfx"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testEffects = `
effects:
  - name: Puff
    duration: 0.5
    endBehavior: destroy
    maxCount: 10
    particle:
      startLifetime: "0.2"
    emission:
      bursts:
        - time: 0
          interval: 1
          count: "5"
          cycles: 1

  - name: Still
    duration: 5
    endBehavior: freeze
    maxCount: 10
    particle:
      startLifetime: "10"
    emission:
      bursts:
        - time: 0
          interval: 1
          count: "3"
          cycles: 1
`

func newTestEffect(t *testing.T, em *ecs.EntityManager, name string, pos mgl32.Vec3, autoStart bool) ecs.EntityID {
	t.Helper()
	file, err := particle.ParseEffect([]byte(testEffects))
	if err != nil {
		t.Fatalf("failed to parse test effects: %v", err)
	}
	id, err := entities.CreateEffect(em, file, name, pos, entities.EffectOptions{
		Rand:      rand.New(rand.NewSource(1)),
		AutoStart: autoStart,
	})
	if err != nil {
		t.Fatalf("CreateEffect(%s) failed: %v", name, err)
	}
	return id
}

func effectOf(t *testing.T, em *ecs.EntityManager, id ecs.EntityID) *components.EffectComponent {
	t.Helper()
	ec, ok := ecs.GetComponent[*components.EffectComponent](em, id)
	if !ok {
		t.Fatalf("entity %d has no effect", id)
	}
	return ec
}

func TestEffectSystem_AutoStart(t *testing.T) {
	em := ecs.NewEntityManager()
	idle := newTestEffect(t, em, "Still", mgl32.Vec3{}, false)
	running := newTestEffect(t, em, "Still", mgl32.Vec3{}, true)

	sys := NewEffectSystem(em, nil)
	sys.Update(10 * time.Millisecond)

	if effectOf(t, em, idle).System.Started() {
		t.Error("effect without AutoStart was started")
	}
	ec := effectOf(t, em, running)
	if !ec.System.Started() || ec.System.ParticleCount() != 3 {
		t.Errorf("started=%v particles=%d", ec.System.Started(), ec.System.ParticleCount())
	}
	if ec.Buffer.Active() != 3 {
		t.Errorf("slot buffer holds %d particles, want 3", ec.Buffer.Active())
	}
	if sys.ParticleCount() != 3 {
		t.Errorf("ParticleCount() = %d, want 3", sys.ParticleCount())
	}
}

func TestEffectSystem_DestroyTeardown(t *testing.T) {
	em := ecs.NewEntityManager()
	id := newTestEffect(t, em, "Puff", mgl32.Vec3{}, true)
	ec := effectOf(t, em, id)

	core, logs := observer.New(zap.DebugLevel)
	sys := NewEffectSystem(em, zap.New(core))

	for i := 0; i < 100 && !em.IsMarkedForDestroy(id); i++ {
		sys.Update(10 * time.Millisecond)
	}
	if !em.IsMarkedForDestroy(id) {
		t.Fatal("finished effect was not marked for removal")
	}
	if !ec.System.Destroyed() || !ec.System.Disposed() {
		t.Error("system should be destroyed and disposed")
	}
	if logs.FilterMessage("effect finished").Len() != 1 {
		t.Error("teardown was not logged once")
	}

	// Marked entities are skipped until the owner removes them.
	sys.Update(10 * time.Millisecond)
	if em.RemoveMarkedEntities() != 1 || em.Exists(id) {
		t.Error("entity should be removed")
	}
}

func TestEffectSystem_TransformSync(t *testing.T) {
	em := ecs.NewEntityManager()
	id := newTestEffect(t, em, "Still", mgl32.Vec3{}, true)
	tc, _ := ecs.GetComponent[*components.TransformComponent](em, id)
	tc.Position = mgl32.Vec3{50, 60, 0}
	tc.Scale = mgl32.Vec3{2, 2, 2}

	sys := NewEffectSystem(em, nil)
	sys.Update(10 * time.Millisecond)

	ec := effectOf(t, em, id)
	if ec.Item.World.Position != tc.Position || ec.Item.World.Scale != tc.Scale {
		t.Errorf("item transform = %+v, want %+v", ec.Item.World, tc)
	}
	// Spawned at the synced position.
	for _, box := range ec.System.ParticleBoxes() {
		if box.Center != tc.Position {
			t.Errorf("particle at %v, want %v", box.Center, tc.Position)
		}
	}
}

func TestEffectSystem_Raycast(t *testing.T) {
	em := ecs.NewEntityManager()
	left := newTestEffect(t, em, "Still", mgl32.Vec3{0, 0, 0}, true)
	right := newTestEffect(t, em, "Still", mgl32.Vec3{100, 0, 0}, true)

	sys := NewEffectSystem(em, nil)
	sys.Update(10 * time.Millisecond)

	ray := vfx.RaycastOptions{
		Origin:    mgl32.Vec3{100, 0, -10},
		Direction: mgl32.Vec3{0, 0, 1},
		Radius:    1,
	}
	hits := sys.Raycast(ray)
	if len(hits) != 1 || hits[0].Entity != right || hits[0].Effect != "Still" {
		t.Fatalf("single hit = %+v", hits)
	}

	ray.Multiple = true
	ray.RemoveParticle = true
	if hits := sys.Raycast(ray); len(hits) != 3 {
		t.Fatalf("multiple hits = %d, want 3", len(hits))
	}
	if n := effectOf(t, em, right).System.ParticleCount(); n != 0 {
		t.Errorf("hit particles not removed, %d left", n)
	}
	if n := effectOf(t, em, left).System.ParticleCount(); n != 3 {
		t.Errorf("other effect lost particles, %d left", n)
	}
	if hits := sys.Raycast(ray); len(hits) != 0 {
		t.Errorf("removed particles hit again: %+v", hits)
	}
}
