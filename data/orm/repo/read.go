package repo

import (
	"context"
	ers "errors"

	"softdel/data/orm"
	"softdel/errors"
)

// Get 根据主键获取（未删除）
func (r *Repo[T]) Get(ctx context.Context, id any) (T, error) {
	var entity T
	err := r.query(ctx).
		Where(orm.Conditions{r.pkKey(): id}).
		First(&entity)
	var zero T
	if err != nil {
		if ers.Is(err, orm.ErrNotFound) {
			return zero, errors.NewError(errors.ErrCodeNotFound, "record not found")
		}
		return zero, errors.WrapError(err, errors.ErrCodeDatabase, "failed to query record")
	}
	return entity, nil
}

// List 偏移/限制列表
func (r *Repo[T]) List(ctx context.Context, offset, limit int) ([]T, error) {
	var entities []T
	q := r.query(ctx).Order(r.model.PrimaryKey(), false)
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entities); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to list records")
	}
	return entities, nil
}

// Count 统计总数
func (r *Repo[T]) Count(ctx context.Context) (int64, error) {
	count, err := r.query(ctx).Count()
	if err != nil {
		return 0, errors.WrapError(err, errors.ErrCodeDatabase, "failed to count records")
	}
	return count, nil
}

// Exists 记录存在且未删除
func (r *Repo[T]) Exists(ctx context.Context, id any) (bool, error) {
	count, err := r.query(ctx).
		Where(orm.Conditions{r.pkKey(): id}).
		Count()
	if err != nil {
		return false, errors.WrapError(err, errors.ErrCodeDatabase, "failed to check record existence")
	}
	return count > 0, nil
}

// Find 按过滤参数查询，过滤键见 withFilters
func (r *Repo[T]) Find(ctx context.Context, filters map[string]string) ([]T, error) {
	var entities []T
	if err := r.query(ctx).withFilters(filters).Find(&entities); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to find records")
	}
	return entities, nil
}

func (r *Repo[T]) CountWithFilters(ctx context.Context, filters map[string]string) (int64, error) {
	count, err := r.query(ctx).withFilters(filters).Count()
	if err != nil {
		return 0, errors.WrapError(err, errors.ErrCodeDatabase, "failed to count records")
	}
	return count, nil
}

func (r *Repo[T]) ListByIDs(ctx context.Context, ids []any) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	var entities []T
	if err := r.query(ctx).
		Where(orm.Conditions{r.pkKey(): ids}).
		Find(&entities); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to list records by IDs")
	}
	return entities, nil
}
