package softdelete

import (
	"context"

	"github.com/samber/lo"

	"softdel/data/orm"
	"softdel/errors"
	"softdel/logging"
)

type deleteAllOptions struct {
	cascade   bool
	callbacks bool
}

// DeleteAllOption 配置 DeleteAll
type DeleteAllOption func(*deleteAllOptions)

// WithCascade 是否级联删除子记录，默认 true
func WithCascade(cascade bool) DeleteAllOption {
	return func(o *deleteAllOptions) { o.cascade = cascade }
}

// WithCallbacks 是否逐条走 Delete 并触发事件，默认 false
func WithCallbacks(callbacks bool) DeleteAllOption {
	return func(o *deleteAllOptions) { o.callbacks = callbacks }
}

// DeleteAll 标记删除所有匹配 conditions 的记录。
//
// 空条件直接返回 false；无匹配记录返回 true。匹配记录的主键先经查询
// （受排除条件约束）取出，再按选项分三种方式处理：
//   - 不级联且不触发回调：逐条写入删除标记；
//   - 触发回调：逐条调用 Delete，完成后恢复当前记录；
//   - 其余：逐条清理中间表（级联时删除子记录），再以一条 UPDATE 写入删除标记。
//
// 逐条处理在首个失败处停止。
func (m *Model) DeleteAll(ctx context.Context, conditions orm.Conditions, opts ...DeleteAllOption) (bool, error) {
	o := deleteAllOptions{cascade: true}
	for _, opt := range opts {
		opt(&o)
	}
	if len(conditions) == 0 {
		m.logger.Debug(ctx, "soft delete all skipped", logging.String("outcome", "empty_conditions"))
		return false, nil
	}

	ids, err := m.matchingIDs(ctx, conditions)
	if err != nil {
		return false, errors.WrapDatabaseError(ctx, err, "find records to delete")
	}
	if len(ids) == 0 {
		return true, nil
	}
	logger := m.logger.WithFields(logging.Int("count", len(ids)))

	switch {
	case !o.cascade && !o.callbacks:
		for _, id := range ids {
			m.id = id
			if err := m.markDeleted(ctx, id); err != nil {
				return false, err
			}
		}
		logger.Debug(ctx, "records soft deleted", logging.String("mode", "per_record"))
		return true, nil

	case o.callbacks:
		saved := m.id
		defer func() { m.id = saved }()
		for _, id := range ids {
			ok, err := m.Delete(ctx, id, o.cascade)
			if err != nil {
				return false, err
			}
			if !ok {
				logger.Debug(ctx, "soft delete all stopped", logging.Any("id", id))
				return false, nil
			}
		}
		logger.Debug(ctx, "records soft deleted", logging.String("mode", "callbacks"))
		return true, nil
	}

	for _, id := range ids {
		if err := m.DeleteLinks(ctx, id); err != nil {
			return false, errors.WrapDatabaseError(ctx, err, "delete join records")
		}
		if err := m.DeleteDependents(ctx, id, o.cascade); err != nil {
			return false, errors.WrapDatabaseError(ctx, err, "delete dependent records")
		}
	}

	err = m.UpdateValues(ctx, m.deletionFields(m.Quote),
		orm.WithConditions(orm.Conditions{m.Alias() + "." + m.PrimaryKey(): ids}),
	)
	if err != nil {
		return false, errors.WrapDatabaseError(ctx, err, "mark records deleted")
	}
	logger.Debug(ctx, "records soft deleted", logging.String("mode", "bulk"))
	return true, nil
}

// matchingIDs 取出匹配记录的去重主键，查询经过拦截器
func (m *Model) matchingIDs(ctx context.Context, conditions orm.Conditions) ([]any, error) {
	var rows []map[string]any
	err := m.Find(ctx, &rows,
		orm.WithSelect(m.Alias()+"."+m.PrimaryKey()),
		orm.WithDistinct(),
		orm.WithConditions(conditions),
	)
	if err != nil {
		return nil, err
	}
	pk := m.PrimaryKey()
	return lo.Map(rows, func(row map[string]any, _ int) any { return row[pk] }), nil
}
