// Package ecs is a small entity/component store for hosting effects.
package ecs

import (
	"reflect"
	"slices"
)

// EntityID identifies an entity. 0 is never issued.
type EntityID uint64

// EntityManager owns entities and their components.
type EntityManager struct {
	nextID     uint64
	components map[EntityID]map[reflect.Type]any
	// Entities marked by DestroyEntity, removed by RemoveMarkedEntities.
	entitiesToDestroy []EntityID
}

// NewEntityManager returns an empty manager.
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:     1,
		components: make(map[EntityID]map[reflect.Type]any),
	}
}

// CreateEntity issues a new entity ID.
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.components[id] = make(map[reflect.Type]any)
	return id
}

// DestroyEntity marks id for removal. The entity stays queryable until
// RemoveMarkedEntities runs.
func (em *EntityManager) DestroyEntity(id EntityID) {
	if slices.Contains(em.entitiesToDestroy, id) {
		return
	}
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
}

// IsMarkedForDestroy reports whether id is waiting for removal.
func (em *EntityManager) IsMarkedForDestroy(id EntityID) bool {
	return slices.Contains(em.entitiesToDestroy, id)
}

// Exists reports whether id is a live entity.
func (em *EntityManager) Exists(id EntityID) bool {
	_, ok := em.components[id]
	return ok
}

// AddComponent stores component under its dynamic type, replacing any
// component of the same type. Unknown entities are ignored.
func (em *EntityManager) AddComponent(id EntityID, component any) {
	if compMap, ok := em.components[id]; ok {
		compMap[reflect.TypeOf(component)] = component
	}
}

// RemoveComponent drops the component of the given type.
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if compMap, ok := em.components[id]; ok {
		delete(compMap, componentType)
	}
}

// GetComponentByType returns the component of the given type.
func (em *EntityManager) GetComponentByType(id EntityID, componentType reflect.Type) (any, bool) {
	compMap, ok := em.components[id]
	if !ok {
		return nil, false
	}
	comp, ok := compMap[componentType]
	return comp, ok
}

// HasComponent reports whether id has a component of the given type.
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	_, ok := em.GetComponentByType(id, componentType)
	return ok
}

// RemoveMarkedEntities deletes every entity marked by DestroyEntity and
// returns how many were removed.
func (em *EntityManager) RemoveMarkedEntities() int {
	n := 0
	for _, id := range em.entitiesToDestroy {
		if _, ok := em.components[id]; ok {
			delete(em.components, id)
			n++
		}
	}
	em.entitiesToDestroy = em.entitiesToDestroy[:0]
	return n
}

// EntityCount returns the number of live entities.
func (em *EntityManager) EntityCount() int {
	return len(em.components)
}

// GetEntitiesWith returns the entities holding every given component type,
// in ascending ID order.
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)
	for id, compMap := range em.components {
		hasAll := true
		for _, ct := range componentTypes {
			if _, found := compMap[ct]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}
	slices.Sort(result)
	return result
}

// ========== Generic helpers ==========

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// GetComponent returns the component of type T held by id.
//
//	tc, ok := ecs.GetComponent[*components.TransformComponent](em, id)
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	var zero T
	comp, ok := em.GetComponentByType(id, typeOf[T]())
	if !ok {
		return zero, false
	}
	v, ok := comp.(T)
	return v, ok
}

// HasComponentOf reports whether id holds a component of type T.
func HasComponentOf[T any](em *EntityManager, id EntityID) bool {
	return em.HasComponent(id, typeOf[T]())
}

// RemoveComponentOf drops the component of type T.
func RemoveComponentOf[T any](em *EntityManager, id EntityID) {
	em.RemoveComponent(id, typeOf[T]())
}

// GetEntitiesWith1 returns the entities holding a T1.
func GetEntitiesWith1[T1 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(typeOf[T1]())
}

// GetEntitiesWith2 returns the entities holding both a T1 and a T2.
func GetEntitiesWith2[T1, T2 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(typeOf[T1](), typeOf[T2]())
}
