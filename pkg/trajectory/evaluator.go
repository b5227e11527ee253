// Package trajectory 提供建立在播放核心之上的轨迹求值器
//
// 求值器把"坐标系 + 范围参数 + 归一化时间"解析为世界坐标：
//
//	pos := evaluator.Evaluate(basis, rng, normalizedTime)
//
// 播放核心（pkg/playback）不关心曲线形状，只负责产生归一化时间；
// 新的曲线通过实现 Evaluator 并调用 Register 接入。
package trajectory

import (
	"github.com/gonewx/trajectory/pkg/utils"
)

// Range 轨迹的尺寸参数，各求值器按需解释
type Range struct {
	Distance  float64    // 前向距离 / 半径
	Height    float64    // 最大高度（抛物线峰值、上方偏移）
	Width     float64    // 侧向幅度（弧形外凸、螺旋半径）
	Angle     float64    // 角度范围（弧度）：扫掠张角、螺旋总转角
	Target    utils.Vec3 // 目标点（世界坐标），仅追踪类轨迹使用
	HasTarget bool       // Target 是否有效
}

// Evaluator 轨迹求值器
type Evaluator interface {
	// Evaluate 返回归一化时间 t ∈ [0, 1] 时的世界坐标
	Evaluate(basis utils.CoordinateBasis, rng Range, t float64) utils.Vec3
}

// EvaluatorFunc 函数适配器
type EvaluatorFunc func(basis utils.CoordinateBasis, rng Range, t float64) utils.Vec3

// Evaluate 实现 Evaluator
func (f EvaluatorFunc) Evaluate(basis utils.CoordinateBasis, rng Range, t float64) utils.Vec3 {
	return f(basis, rng, t)
}

// Eased 在求值前对归一化时间施加缓动
type Eased struct {
	Inner Evaluator
	Ease  utils.EasingFunc
}

// WithEasing 包装求值器；ease 为 nil 时原样返回 inner
func WithEasing(inner Evaluator, ease utils.EasingFunc) Evaluator {
	if ease == nil {
		return inner
	}
	return Eased{Inner: inner, Ease: ease}
}

// Evaluate 实现 Evaluator
func (e Eased) Evaluate(basis utils.CoordinateBasis, rng Range, t float64) utils.Vec3 {
	return e.Inner.Evaluate(basis, rng, e.Ease(utils.Clamp01(t)))
}
