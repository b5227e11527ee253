package ecs

import (
	"reflect"
	"slices"
)

// EntityID 是实体的唯一标识符
type EntityID uint64

// InvalidEntity 保留为无效 ID
const InvalidEntity EntityID = 0

// EntityManager 管理所有实体和组件
//
// 查询结果按 EntityID 升序返回：同一组实体每帧以相同顺序被推进，
// 保证多次运行的结果逐位一致。
type EntityManager struct {
	nextID uint64
	// 实体-组件映射: EntityID -> ComponentType -> Component实例
	components map[EntityID]map[reflect.Type]any
	// 待删除的实体ID列表
	entitiesToDestroy []EntityID
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:            1, // ID从1开始,0保留为无效ID
		components:        make(map[EntityID]map[reflect.Type]any),
		entitiesToDestroy: make([]EntityID, 0),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.components[id] = make(map[reflect.Type]any)
	return id
}

// DestroyEntity 标记实体待删除(不立即删除)
func (em *EntityManager) DestroyEntity(id EntityID) {
	if slices.Contains(em.entitiesToDestroy, id) {
		return
	}
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
}

// EntityExists 实体是否存在（已标记但尚未清理的实体仍视为存在）
func (em *EntityManager) EntityExists(id EntityID) bool {
	_, ok := em.components[id]
	return ok
}

// Count 当前实体数量
func (em *EntityManager) Count() int {
	return len(em.components)
}

// AddComponent 为实体添加组件，同类型组件会被替换
func (em *EntityManager) AddComponent(id EntityID, component any) {
	componentType := reflect.TypeOf(component)
	if compMap, exists := em.components[id]; exists {
		compMap[componentType] = component
	}
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if compMap, exists := em.components[id]; exists {
		delete(compMap, componentType)
	}
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (any, bool) {
	if compMap, exists := em.components[id]; exists {
		if comp, found := compMap[componentType]; found {
			return comp, true
		}
	}
	return nil, false
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	if compMap, exists := em.components[id]; exists {
		_, found := compMap[componentType]
		return found
	}
	return false
}

// RemoveMarkedEntities 清理所有标记删除的实体
// 返回实际删除的数量
func (em *EntityManager) RemoveMarkedEntities() int {
	removed := 0
	for _, id := range em.entitiesToDestroy {
		if _, ok := em.components[id]; ok {
			delete(em.components, id)
			removed++
		}
	}
	em.entitiesToDestroy = em.entitiesToDestroy[:0] // 清空切片
	return removed
}

// GetEntitiesWith 查询拥有指定组件类型组合的所有实体（按 ID 升序）
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

// ==================================================================
// 泛型 API
// ==================================================================

func typeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// GetComponent 泛型版本的组件查询
//
//	traj, ok := ecs.GetComponent[*components.TrajectoryComponent](em, id)
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	var zero T
	comp, ok := em.GetComponent(id, typeOf[T]())
	if !ok {
		return zero, false
	}
	typed, ok := comp.(T)
	return typed, ok
}

// HasComponent 泛型版本的组件检查
func HasComponent[T any](em *EntityManager, id EntityID) bool {
	return em.HasComponent(id, typeOf[T]())
}

// RemoveComponent 泛型版本的组件移除
func RemoveComponent[T any](em *EntityManager, id EntityID) {
	em.RemoveComponent(id, typeOf[T]())
}

// GetEntitiesWith1 查询拥有组件 T1 的实体
func GetEntitiesWith1[T1 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(typeOf[T1]())
}

// GetEntitiesWith2 查询同时拥有组件 T1、T2 的实体
func GetEntitiesWith2[T1, T2 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(typeOf[T1](), typeOf[T2]())
}

// GetEntitiesWith3 查询同时拥有组件 T1、T2、T3 的实体
func GetEntitiesWith3[T1, T2, T3 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(typeOf[T1](), typeOf[T2](), typeOf[T3]())
}
