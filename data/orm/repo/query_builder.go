package repo

import (
	"context"
	"slices"

	"softdel/data/orm"
)

// queryModel 查询构建所需的模型能力，*softdelete.Model 满足该接口
type queryModel interface {
	Meta() *orm.ModelMeta
	Alias() string
	First(ctx context.Context, dest any, opts ...orm.QueryOption) error
	Find(ctx context.Context, dest any, opts ...orm.QueryOption) error
	Count(ctx context.Context, opts ...orm.QueryOption) (int64, error)
	Create(ctx context.Context, entities ...any) error
	UpdateValues(ctx context.Context, values map[string]any, opts ...orm.QueryOption) error
}

// queryBuilder 不可变：每次追加都返回新实例，同一前缀可派生多条查询
type queryBuilder struct {
	ctx   context.Context
	model queryModel
	opts  []orm.QueryOption
}

func newQueryBuilder(model queryModel, ctx context.Context) *queryBuilder {
	return &queryBuilder{ctx: ctx, model: model}
}

func (q *queryBuilder) with(opt orm.QueryOption) *queryBuilder {
	return &queryBuilder{ctx: q.ctx, model: q.model, opts: append(slices.Clip(q.opts), opt)}
}

// Where 追加条件树；条件树会被软删除拦截器检查
func (q *queryBuilder) Where(c orm.Conditions) *queryBuilder {
	if len(c) == 0 {
		return q
	}
	return q.with(orm.WithConditions(c))
}

// WhereRaw 追加原始 SQL 片段，不参与删除标记检查
func (q *queryBuilder) WhereRaw(expr string, args ...any) *queryBuilder {
	return q.with(orm.WithWhere(expr, args...))
}

func (q *queryBuilder) Order(column string, desc bool) *queryBuilder {
	return q.with(orm.WithOrderBy(column, desc))
}

func (q *queryBuilder) Limit(limit int) *queryBuilder   { return q.with(orm.WithLimit(limit)) }
func (q *queryBuilder) Offset(offset int) *queryBuilder { return q.with(orm.WithOffset(offset)) }

func (q *queryBuilder) Select(columns ...string) *queryBuilder {
	return q.with(orm.WithSelect(columns...))
}

func (q *queryBuilder) First(dest any) error { return q.model.First(q.ctx, dest, q.opts...) }
func (q *queryBuilder) Find(dest any) error  { return q.model.Find(q.ctx, dest, q.opts...) }

func (q *queryBuilder) Count() (int64, error) { return q.model.Count(q.ctx, q.opts...) }

func (q *queryBuilder) Create(values ...any) error { return q.model.Create(q.ctx, values...) }

func (q *queryBuilder) UpdateValues(values map[string]any) error {
	return q.model.UpdateValues(q.ctx, values, q.opts...)
}
