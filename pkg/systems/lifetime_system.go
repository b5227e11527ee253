package systems

import (
	"github.com/gonewx/trajectory/pkg/components"
	"github.com/gonewx/trajectory/pkg/ecs"
)

// LifetimeSystem 管理已完成轨迹的停留时间
// 停留计时走满后实体被标记删除
type LifetimeSystem struct {
	entityManager *ecs.EntityManager
}

// NewLifetimeSystem 创建一个新的生命周期系统
func NewLifetimeSystem(em *ecs.EntityManager) *LifetimeSystem {
	return &LifetimeSystem{
		entityManager: em,
	}
}

// Update 推进所有 LingerComponent
func (s *LifetimeSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith1[*components.LingerComponent](s.entityManager)

	for _, id := range entities {
		linger, ok := ecs.GetComponent[*components.LingerComponent](s.entityManager, id)
		if !ok {
			continue
		}

		if linger.Timer.TickAndCheckComplete(deltaTime) {
			s.entityManager.DestroyEntity(id)
		}
	}
}
