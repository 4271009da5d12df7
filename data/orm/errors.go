package orm

import "errors"

var (
	// ErrNotFound 表示记录未找到。
	ErrNotFound = errors.New("orm: record not found")
	// ErrUnsupported 表示当前适配器不支持请求的能力。
	ErrUnsupported = errors.New("orm: capability unsupported")
	// ErrInvalidCondition 表示条件树中存在无法解析的键或值。
	ErrInvalidCondition = errors.New("orm: invalid condition")
)
