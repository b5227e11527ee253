// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包保存该文件系统，让 config 等包可以按 "data/..." 路径读取内置预设。
//
// 未初始化时（命令行工具、单元测试）ReadFile 直接读取磁盘。
package embedded

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	dataFS      fs.FS
	initialized bool
)

// Init 设置嵌入的数据文件系统
// 必须在 main() 开始时、任何配置加载之前调用
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// Reset 清除已设置的文件系统（测试用）
func Reset() {
	dataFS = nil
	initialized = false
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 标准化路径：正斜杠、去掉 "./" 前缀
func normalize(path string) string {
	path = filepath.ToSlash(path)
	return strings.TrimPrefix(path, "./")
}

// Exists 检查文件是否存在于嵌入文件系统中
func Exists(path string) bool {
	if !initialized {
		return false
	}
	_, err := fs.Stat(dataFS, normalize(path))
	return err == nil
}

// ReadFile 读取资源文件
//
// 读取顺序：
//  1. 已初始化且路径以 "data/" 开头、文件存在于嵌入文件系统 → 读取嵌入内容
//  2. 否则读取磁盘上的同名文件
//
// 返回的错误保留底层错误，可用 errors.Is(err, fs.ErrNotExist) 判断文件缺失
func ReadFile(path string) ([]byte, error) {
	p := normalize(path)

	if initialized && strings.HasPrefix(p, "data/") && Exists(p) {
		data, err := fs.ReadFile(dataFS, p)
		if err != nil {
			return nil, fmt.Errorf("read embedded %s: %w", p, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Glob 在嵌入文件系统中匹配文件；未初始化时匹配磁盘
func Glob(pattern string) ([]string, error) {
	if !initialized {
		return filepath.Glob(pattern)
	}
	return fs.Glob(dataFS, normalize(pattern))
}
