package utils

import (
	"math"
	"sort"
)

// Easing Functions (缓动函数)
//
// 缓动函数作用于归一化进度，控制轨迹在时间上的速度分布。
// 所有函数接受一个进度值 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
// 乒乓模式下进度先经过 ApplyPingPong 再进入缓动，因此去程与回程对称。
//
// 参考：https://easings.net/

// EasingFunc 缓动函数签名
type EasingFunc func(t float64) float64

// EaseLinear 线性缓动（无缓动）
func EaseLinear(t float64) float64 {
	return t
}

// EaseOutCubic 三次方缓出
// 特点：开始快，结束慢（推荐用于"飞向目标"轨迹）
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInCubic 三次方缓入
// 公式：f(t) = t³
func EaseInCubic(t float64) float64 {
	return t * t * t
}

// EaseInOutCubic 三次方缓入缓出
// 公式：
//
//	t < 0.5: f(t) = 4t³
//	t >= 0.5: f(t) = 1 - (-2t + 2)³ / 2
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseOutQuad 二次方缓出
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EaseInQuad 二次方缓入
func EaseInQuad(t float64) float64 {
	return t * t
}

// EaseInOutSine 正弦缓入缓出
// 公式：f(t) = (1 - cos(πt)) / 2
func EaseInOutSine(t float64) float64 {
	_, c := SinCos(math.Pi * t)
	return (1 - c) / 2
}

// EaseOutExpo 指数缓出
// 公式：f(t) = 1 - 2^(-10t)，t >= 1 时精确返回 1
func EaseOutExpo(t float64) float64 {
	if t >= 1.0 {
		return 1.0
	}
	return 1 - math.Pow(2, -10*t)
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// easingTable 配置文件中使用的缓动名称
var easingTable = map[string]EasingFunc{
	"linear":           EaseLinear,
	"ease_in_quad":     EaseInQuad,
	"ease_out_quad":    EaseOutQuad,
	"ease_in_cubic":    EaseInCubic,
	"ease_out_cubic":   EaseOutCubic,
	"ease_in_out":      EaseInOutCubic,
	"ease_in_out_sine": EaseInOutSine,
	"ease_out_expo":    EaseOutExpo,
}

// EasingByName 按名称查找缓动函数
//
// 参数：
//   - name: 缓动名称（空字符串等价于 "linear"）
//
// 返回：
//   - fn: 缓动函数
//   - found: 名称是否有效；无效时 fn 为 EaseLinear
func EasingByName(name string) (fn EasingFunc, found bool) {
	if name == "" {
		return EaseLinear, true
	}
	fn, found = easingTable[name]
	if !found {
		return EaseLinear, false
	}
	return fn, true
}

// EasingNames 返回所有已知缓动名称（按字母排序）
func EasingNames() []string {
	names := make([]string, 0, len(easingTable))
	for name := range easingTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
