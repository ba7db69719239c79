package ecs

import (
	"reflect"
	"testing"
)

type benchmarkComp1 struct {
	Value int
}

type benchmarkComp2 struct {
	X, Y float64
}

func setupBenchmarkEntities(count int) *EntityManager {
	em := NewEntityManager()
	for i := 0; i < count; i++ {
		id := em.CreateEntity()
		em.AddComponent(id, &benchmarkComp1{Value: i})
		if i%2 == 0 {
			em.AddComponent(id, &benchmarkComp2{X: float64(i)})
		}
	}
	return em
}

func BenchmarkGetEntitiesWith_Reflect(b *testing.B) {
	em := setupBenchmarkEntities(1000)
	t1 := reflect.TypeOf(&benchmarkComp1{})
	t2 := reflect.TypeOf(&benchmarkComp2{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = em.GetEntitiesWith(t1, t2)
	}
}

func BenchmarkGetEntitiesWith2(b *testing.B) {
	em := setupBenchmarkEntities(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = GetEntitiesWith2[*benchmarkComp1, *benchmarkComp2](em)
	}
}

func BenchmarkGetComponent(b *testing.B) {
	em := setupBenchmarkEntities(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = GetComponent[*benchmarkComp1](em, EntityID(i%1000+1))
	}
}
