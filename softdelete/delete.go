package softdelete

import (
	"context"
	stdErrors "errors"

	"softdel/data/orm"
	"softdel/data/orm/event"
	"softdel/errors"
	"softdel/logging"
)

// Delete 标记删除单条记录。
//
// id 为 nil 时使用 SetID 设置的当前记录。顺序与物理删除一致：
// before_delete（可取消）→ 存在性检查 → 级联子记录与中间表 → 读取外键
// → 写入删除标记 → 重算计数缓存 → after_delete → 清理结果缓存。
// 被取消、记录不存在时返回 false 且无错误；成功后清空当前记录。
func (m *Model) Delete(ctx context.Context, id any, cascade bool) (bool, error) {
	if id != nil {
		m.id = id
	}
	id = m.id
	if id == nil {
		return false, nil
	}
	logger := m.logger.WithFields(logging.Any("id", id))

	before := event.NewCancelable(orm.EventBeforeDelete, m.Alias(), map[string]any{"id": id, "cascade": cascade})
	if err := m.Events().Dispatch(ctx, before); err != nil {
		return false, errors.WrapError(err, errors.ErrCodeInternal, "before delete listener failed")
	}
	if before.Cancelled() {
		logger.Debug(ctx, "soft delete skipped", logging.String("outcome", "cancelled"))
		return false, nil
	}

	exists, err := m.Exists(ctx, id)
	if err != nil {
		return false, errors.WrapDatabaseError(ctx, err, "check record exists")
	}
	if !exists {
		logger.Debug(ctx, "soft delete skipped", logging.String("outcome", "not_found"))
		return false, nil
	}

	if err := m.DeleteDependents(ctx, id, cascade); err != nil {
		return false, errors.WrapDatabaseError(ctx, err, "delete dependent records")
	}
	if err := m.DeleteLinks(ctx, id); err != nil {
		return false, errors.WrapDatabaseError(ctx, err, "delete join records")
	}

	keys, err := m.foreignKeyValues(ctx, id)
	if err != nil {
		return false, errors.WrapDatabaseError(ctx, err, "read foreign keys")
	}

	if err := m.markDeleted(ctx, id); err != nil {
		return false, err
	}

	if len(keys) > 0 {
		if err := m.UpdateCounterCache(ctx, keys); err != nil {
			return false, errors.WrapDatabaseError(ctx, err, "update counter cache")
		}
	}

	after := event.New(orm.EventAfterDelete, m.Alias(), map[string]any{"id": id, "cascade": cascade, "hard": false})
	if err := m.Events().Dispatch(ctx, after); err != nil {
		return false, errors.WrapError(err, errors.ErrCodeInternal, "after delete listener failed")
	}
	if err := m.ClearCache(ctx); err != nil {
		logger.Warn(ctx, "clear result cache failed", logging.Error(err))
	}

	m.id = nil
	logger.Debug(ctx, "record soft deleted", logging.String("outcome", "deleted"))
	return true, nil
}

// DeleteByID 标记删除指定记录，父模型级联删除时经由此入口
func (m *Model) DeleteByID(ctx context.Context, id any, cascade bool) (bool, error) {
	return m.Delete(ctx, id, cascade)
}

// HardDelete 物理删除记录，走宿主的原生删除流程。
// id 为 nil 时使用当前记录。
func (m *Model) HardDelete(ctx context.Context, id any, cascade bool) (bool, error) {
	if id != nil {
		m.id = id
	}
	id = m.id
	if id == nil {
		return false, nil
	}
	ok, err := m.IModel.DeleteByID(ctx, id, cascade)
	if err != nil {
		return false, errors.WrapDatabaseError(ctx, err, "hard delete")
	}
	if ok {
		m.id = nil
	}
	return ok, nil
}

// markDeleted 只写入删除标记与附加字段，不做校验
func (m *Model) markDeleted(ctx context.Context, id any) error {
	err := m.UpdateValues(ctx, m.deletionFields(nil),
		orm.WithConditions(orm.Conditions{m.PrimaryKey(): id}),
	)
	return errors.WrapDatabaseError(ctx, err, "mark record deleted")
}

// foreignKeyValues 存在计数缓存时读取本表全部外键，不经过查询拦截器
func (m *Model) foreignKeyValues(ctx context.Context, id any) (map[string]any, error) {
	meta := m.Meta()
	if meta == nil || len(meta.CounterCaches()) == 0 {
		return nil, nil
	}
	row := make(map[string]any)
	err := m.First(ctx, &row,
		orm.WithSelect(meta.ForeignKeys()...),
		orm.WithConditions(orm.Conditions{m.Alias() + "." + m.PrimaryKey(): id}),
		orm.WithoutCallbacks(),
	)
	if stdErrors.Is(err, orm.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}
