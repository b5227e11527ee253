package ecs

import (
	"reflect"
	"slices"
	"testing"
)

// 测试组件类型定义
type testPositionComponent struct {
	X, Y, Z float64
}

type testTimerComponent struct {
	Elapsed float64
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	if id1 == id2 {
		t.Error("Entity IDs should be unique")
	}
	if id1 != 1 || id2 != 2 {
		t.Errorf("IDs should start from 1, got %d, %d", id1, id2)
	}
	if em.Count() != 2 {
		t.Errorf("Count = %d, want 2", em.Count())
	}
	if em.EntityExists(InvalidEntity) {
		t.Error("InvalidEntity should never exist")
	}
}

func TestAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testPositionComponent{X: 1, Y: 2, Z: 3})

	// 反射版本
	comp, found := em.GetComponent(id, reflect.TypeOf(&testPositionComponent{}))
	if !found {
		t.Fatal("Component should be found")
	}
	if p := comp.(*testPositionComponent); p.Z != 3 {
		t.Errorf("Component data mismatch: %+v", p)
	}

	// 泛型版本返回同一个指针
	pos, ok := GetComponent[*testPositionComponent](em, id)
	if !ok {
		t.Fatal("Generic GetComponent should find component")
	}
	pos.X = 42
	again, _ := GetComponent[*testPositionComponent](em, id)
	if again.X != 42 {
		t.Error("Generic GetComponent should return the stored pointer")
	}

	if _, ok := GetComponent[*testTimerComponent](em, id); ok {
		t.Error("Missing component should not be found")
	}
}

func TestAddComponentToMissingEntity(t *testing.T) {
	em := NewEntityManager()
	em.AddComponent(EntityID(99), &testPositionComponent{})
	if HasComponent[*testPositionComponent](em, 99) {
		t.Error("Adding component to unknown entity should be ignored")
	}
}

func TestRemoveComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testPositionComponent{})
	em.AddComponent(id, &testTimerComponent{})

	RemoveComponent[*testTimerComponent](em, id)
	if HasComponent[*testTimerComponent](em, id) {
		t.Error("Timer component should be removed")
	}
	if !HasComponent[*testPositionComponent](em, id) {
		t.Error("Position component should remain")
	}
}

func TestDestroyEntity(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testPositionComponent{})

	em.DestroyEntity(id)
	em.DestroyEntity(id) // 重复标记只删除一次

	if !em.EntityExists(id) {
		t.Error("Entity should still exist before cleanup")
	}
	if removed := em.RemoveMarkedEntities(); removed != 1 {
		t.Errorf("RemoveMarkedEntities = %d, want 1", removed)
	}
	if em.EntityExists(id) {
		t.Error("Entity should be removed after cleanup")
	}
	if removed := em.RemoveMarkedEntities(); removed != 0 {
		t.Errorf("Second cleanup removed %d, want 0", removed)
	}
}

func TestGetEntitiesWithSorted(t *testing.T) {
	em := NewEntityManager()

	var withBoth []EntityID
	for i := 0; i < 50; i++ {
		id := em.CreateEntity()
		em.AddComponent(id, &testPositionComponent{})
		if i%3 == 0 {
			em.AddComponent(id, &testTimerComponent{})
			withBoth = append(withBoth, id)
		}
	}

	got := GetEntitiesWith2[*testPositionComponent, *testTimerComponent](em)
	if !slices.Equal(got, withBoth) {
		t.Errorf("GetEntitiesWith2 = %v, want %v", got, withBoth)
	}
	if !slices.IsSorted(got) {
		t.Error("Query results should be sorted by ID")
	}

	if all := GetEntitiesWith1[*testPositionComponent](em); len(all) != 50 {
		t.Errorf("GetEntitiesWith1 returned %d entities, want 50", len(all))
	}
}

func BenchmarkGetEntitiesWith2(b *testing.B) {
	em := NewEntityManager()
	for i := 0; i < 1000; i++ {
		id := em.CreateEntity()
		em.AddComponent(id, &testPositionComponent{X: float64(i)})
		if i%2 == 0 {
			em.AddComponent(id, &testTimerComponent{})
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = GetEntitiesWith2[*testPositionComponent, *testTimerComponent](em)
	}
}
