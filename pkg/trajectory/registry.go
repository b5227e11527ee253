package trajectory

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownEvaluator 请求了未注册的求值器
var ErrUnknownEvaluator = errors.New("unknown trajectory evaluator")

var (
	registryMu sync.RWMutex
	registry   = map[string]Evaluator{
		NameLinear: Linear{},
		NameArc:    Arc{},
		NameSweep:  Sweep{},
		NameOrbit:  Orbit{},
		NameHoming: Homing{},
		NameHelix:  Helix{},
	}
)

// Register 注册（或覆盖）一个具名求值器
//
// 参数：
//   - name: 求值器名称，不能为空
//   - e: 求值器实例，不能为 nil
func Register(name string, e Evaluator) error {
	if name == "" {
		return fmt.Errorf("register evaluator: empty name")
	}
	if e == nil {
		return fmt.Errorf("register evaluator %q: nil evaluator", name)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = e
	return nil
}

// Lookup 按名称查找求值器
// 未找到时返回包装了 ErrUnknownEvaluator 的错误，可用 errors.Is 判断
func Lookup(name string) (Evaluator, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvaluator, name)
	}
	return e, nil
}

// Names 返回所有已注册名称（按字母排序）
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
