package orm

// Condition 表示原始查询条件，Expr 使用占位符 ?，Args 对应参数列表。
type Condition struct {
	Expr string
	Args []any
}

// OrderBy 表示排序字段。
type OrderBy struct {
	Column string
	Desc   bool
}

// QueryOptions 描述查询/更新的通用选项。
type QueryOptions struct {
	// Conditions 结构化条件树，查询拦截器只检查并改写这一部分。
	Conditions Conditions
	// Where 原始条件片段，与 Conditions 以 AND 组合。
	Where    []Condition
	OrderBy  []OrderBy
	GroupBy  []string
	Limit    int
	Offset   int
	Select   []string
	Distinct bool
	// SkipCallbacks 为 true 时不触发查询拦截器。
	SkipCallbacks bool
	// UseCache 允许适配器复用请求级结果缓存（目前仅 Count）。
	UseCache  bool
	ForUpdate bool
	// Interceptors 本次查询附加的拦截器；带键的替换表上同键的注册项。
	Interceptors []IFindInterceptor
}

// QueryOption 用于配置 QueryOptions。
type QueryOption func(*QueryOptions)

// WithConditions 合并条件树，已存在的键不会被覆盖。
func WithConditions(c Conditions) QueryOption {
	return func(opts *QueryOptions) {
		if len(c) == 0 {
			return
		}
		opts.Conditions = opts.Conditions.Merge(c)
	}
}

// WithWhere 追加原始查询条件。
func WithWhere(expr string, args ...any) QueryOption {
	return func(opts *QueryOptions) {
		if expr == "" {
			return
		}
		opts.Where = append(opts.Where, Condition{Expr: expr, Args: args})
	}
}

// WithGroupBy 追加分组字段。
func WithGroupBy(columns ...string) QueryOption {
	return func(opts *QueryOptions) {
		if len(columns) == 0 {
			return
		}
		opts.GroupBy = append(opts.GroupBy, columns...)
	}
}

// WithOrderBy 追加排序。
func WithOrderBy(column string, desc bool) QueryOption {
	return func(opts *QueryOptions) {
		if column == "" {
			return
		}
		opts.OrderBy = append(opts.OrderBy, OrderBy{Column: column, Desc: desc})
	}
}

// WithLimit 设置查询条数上限。
func WithLimit(limit int) QueryOption {
	return func(opts *QueryOptions) {
		if limit > 0 {
			opts.Limit = limit
		}
	}
}

// WithOffset 设置查询偏移。
func WithOffset(offset int) QueryOption {
	return func(opts *QueryOptions) {
		if offset > 0 {
			opts.Offset = offset
		}
	}
}

// WithSelect 指定返回列。
func WithSelect(columns ...string) QueryOption {
	return func(opts *QueryOptions) {
		if len(columns) == 0 {
			return
		}
		opts.Select = append(opts.Select, columns...)
	}
}

// WithDistinct 对返回列去重。
func WithDistinct() QueryOption {
	return func(opts *QueryOptions) {
		opts.Distinct = true
	}
}

// WithoutCallbacks 跳过查询拦截器（存在性检查、计数缓存外键读取等内部查询使用）。
func WithoutCallbacks() QueryOption {
	return func(opts *QueryOptions) {
		opts.SkipCallbacks = true
	}
}

// WithInterceptor 为本次查询附加拦截器。
func WithInterceptor(i IFindInterceptor) QueryOption {
	return func(opts *QueryOptions) {
		if i != nil {
			opts.Interceptors = append(opts.Interceptors, i)
		}
	}
}

// WithCache 允许使用结果缓存。
func WithCache() QueryOption {
	return func(opts *QueryOptions) {
		opts.UseCache = true
	}
}

// WithForUpdate 标记需要行级锁。
func WithForUpdate() QueryOption {
	return func(opts *QueryOptions) {
		opts.ForUpdate = true
	}
}

// CollectQueryOptions 聚合 QueryOption，方便适配器读取。
func CollectQueryOptions(options ...QueryOption) QueryOptions {
	var opts QueryOptions
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	return opts
}
