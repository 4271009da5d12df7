package softdelete

import "context"

type includeDeletedKey struct{}

// WithDeleted 返回包含已删除记录的上下文，携带它的查询不会被追加排除条件
func WithDeleted(ctx context.Context) context.Context {
	return context.WithValue(ctx, includeDeletedKey{}, true)
}

// IncludesDeleted 上下文是否要求包含已删除记录
func IncludesDeleted(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, _ := ctx.Value(includeDeletedKey{}).(bool)
	return v
}
