package ecs

import (
	"reflect"
	"slices"
	"testing"
)

type testPositionComponent struct {
	X, Y float64
}

type testVelocityComponent struct {
	VX, VY float64
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	if id1 != 1 || id2 != 2 {
		t.Errorf("ids = %d, %d, want 1, 2", id1, id2)
	}
	if !em.Exists(id1) || em.Exists(99) {
		t.Error("Exists mismatch")
	}
	if em.EntityCount() != 2 {
		t.Errorf("EntityCount() = %d, want 2", em.EntityCount())
	}
}

func TestAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testPositionComponent{X: 100, Y: 200})

	pos, ok := GetComponent[*testPositionComponent](em, id)
	if !ok {
		t.Fatal("component not found")
	}
	if pos.X != 100 || pos.Y != 200 {
		t.Errorf("component = %+v", pos)
	}

	// Value and pointer types are distinct keys.
	if _, ok := GetComponent[testPositionComponent](em, id); ok {
		t.Error("value type should not match a pointer component")
	}
	if _, ok := em.GetComponentByType(id, reflect.TypeOf(&testVelocityComponent{})); ok {
		t.Error("missing component found")
	}
}

func TestAddComponent_UnknownEntity(t *testing.T) {
	em := NewEntityManager()
	em.AddComponent(42, &testPositionComponent{})
	if HasComponentOf[*testPositionComponent](em, 42) {
		t.Error("component stored on unknown entity")
	}
}

func TestRemoveComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testPositionComponent{})
	em.AddComponent(id, &testVelocityComponent{})

	RemoveComponentOf[*testPositionComponent](em, id)
	if HasComponentOf[*testPositionComponent](em, id) {
		t.Error("component still present after removal")
	}
	if !HasComponentOf[*testVelocityComponent](em, id) {
		t.Error("unrelated component removed")
	}
}

func TestDestroyEntity(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testPositionComponent{})

	em.DestroyEntity(id)
	em.DestroyEntity(id)
	if !em.IsMarkedForDestroy(id) {
		t.Error("entity not marked")
	}
	if !HasComponentOf[*testPositionComponent](em, id) {
		t.Error("marked entity should keep its components until removal")
	}

	if n := em.RemoveMarkedEntities(); n != 1 {
		t.Errorf("RemoveMarkedEntities() = %d, want 1", n)
	}
	if em.Exists(id) || em.IsMarkedForDestroy(id) {
		t.Error("entity survived removal")
	}
}

func TestGetEntitiesWith(t *testing.T) {
	em := NewEntityManager()
	var both []EntityID
	for i := 0; i < 10; i++ {
		id := em.CreateEntity()
		em.AddComponent(id, &testPositionComponent{})
		if i%3 == 0 {
			em.AddComponent(id, &testVelocityComponent{})
			both = append(both, id)
		}
	}

	got := GetEntitiesWith2[*testPositionComponent, *testVelocityComponent](em)
	if !slices.Equal(got, both) {
		t.Errorf("GetEntitiesWith2 = %v, want %v", got, both)
	}
	if n := len(GetEntitiesWith1[*testPositionComponent](em)); n != 10 {
		t.Errorf("GetEntitiesWith1 returned %d entities, want 10", n)
	}
	if n := len(em.GetEntitiesWith()); n != 10 {
		t.Errorf("GetEntitiesWith() returned %d entities, want all 10", n)
	}
}
