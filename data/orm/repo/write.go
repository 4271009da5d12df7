package repo

import (
	"context"

	"softdel/data/orm"
	"softdel/errors"
	"softdel/softdelete"
)

// Add 新增
func (r *Repo[T]) Add(ctx context.Context, entity T) error {
	return r.AddAll(ctx, []T{entity})
}

// AddAll 批量新增
func (r *Repo[T]) AddAll(ctx context.Context, entities []T) error {
	if len(entities) == 0 {
		return nil
	}
	items := make([]any, len(entities))
	for i := range entities {
		if v, ok := any(entities[i]).(IValidatable); ok {
			if err := v.Validate(); err != nil {
				return err
			}
		}
		items[i] = entities[i]
	}
	if err := r.query(ctx).Create(items...); err != nil {
		return errors.WrapError(err, errors.ErrCodeDatabase, "保存记录失败")
	}
	return nil
}

// Update 更新未删除记录的指定字段
func (r *Repo[T]) Update(ctx context.Context, id any, values map[string]any) error {
	ok, err := r.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewError(errors.ErrCodeNotFound, "record not found").WithContext("id", id)
	}
	if err := r.query(ctx).
		Where(orm.Conditions{r.model.PrimaryKey(): id}).
		UpdateValues(values); err != nil {
		return errors.WrapError(err, errors.ErrCodeDatabase, "更新记录失败")
	}
	return nil
}

// Delete 软删除；记录不存在或被监听器取消时返回 NotFound
func (r *Repo[T]) Delete(ctx context.Context, id any) error {
	ok, err := r.model.Delete(ctx, id, true)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewError(errors.ErrCodeNotFound, "record not deleted").WithContext("id", id)
	}
	return nil
}

// HardDelete 物理删除
func (r *Repo[T]) HardDelete(ctx context.Context, id any) error {
	ok, err := r.model.HardDelete(ctx, id, true)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewError(errors.ErrCodeNotFound, "record not deleted").WithContext("id", id)
	}
	return nil
}

// DeleteAll 批量软删除
func (r *Repo[T]) DeleteAll(ctx context.Context, ids []any, opts ...softdelete.DeleteAllOption) error {
	if len(ids) == 0 {
		return nil
	}
	ok, err := r.model.DeleteAll(ctx, orm.Conditions{r.pkKey(): ids}, opts...)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewError(errors.ErrCodeInternal, "batch delete stopped")
	}
	return nil
}
