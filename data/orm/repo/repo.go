package repo

import (
	"context"

	"softdel/data/orm"
	"softdel/softdelete"
)

// IValidatable 实体可选实现，写入前校验
type IValidatable interface {
	Validate() error
}

// Repo 基于软删除模型的通用仓储。
//
// 查询默认排除已删除记录；需要包含时传入 softdelete.WithDeleted(ctx)。
type Repo[T any] struct {
	orm   orm.IOrm
	model *softdelete.Model
}

// NewRepo 创建仓储实例，meta.Model 为空时使用 T 的零值
func NewRepo[T any](ctx context.Context, ormEngine orm.IOrm, meta *orm.ModelMeta, opts ...softdelete.Option) (*Repo[T], error) {
	if meta.Model == nil {
		meta.Model = new(T)
	}
	model, err := softdelete.New(ctx, ormEngine.Model(meta), opts...)
	if err != nil {
		return nil, err
	}
	return &Repo[T]{orm: ormEngine, model: model}, nil
}

func (r *Repo[T]) query(ctx context.Context) *queryBuilder {
	return newQueryBuilder(r.model, ctx)
}

// Model 暴露底层软删除模型
func (r *Repo[T]) Model() *softdelete.Model { return r.model }

// Orm 返回绑定的 ORM 引擎。
func (r *Repo[T]) Orm() orm.IOrm { return r.orm }

func (r *Repo[T]) pkKey() string {
	return r.model.Alias() + "." + r.model.PrimaryKey()
}
