package basic

import (
	"context"
	"errors"
	"fmt"

	"softdel/data/orm"
	"softdel/data/orm/event"
	"softdel/logging"
)

// DeleteByID 原生物理删除流程。
//
// 顺序：before_delete（可取消）→ 存在性检查 → 级联子记录与中间表
// → 读取计数缓存外键 → DELETE → 重算计数 → after_delete → 清理缓存。
// 被取消或记录不存在时返回 false 且无错误。
func (m *model) DeleteByID(ctx context.Context, id any, cascade bool) (bool, error) {
	if id == nil {
		return false, nil
	}
	logger := m.orm.logger.WithFields(logging.String("table", m.table), logging.Any("id", id))

	before := event.NewCancelable(orm.EventBeforeDelete, m.alias, map[string]any{"id": id, "cascade": cascade})
	if err := m.Events().Dispatch(ctx, before); err != nil {
		return false, err
	}
	if before.Cancelled() {
		logger.Debug(ctx, "delete cancelled by listener")
		return false, nil
	}

	exists, err := m.Exists(ctx, id)
	if err != nil {
		return false, err
	}
	if !exists {
		logger.Debug(ctx, "delete target not found")
		return false, nil
	}

	if err := m.DeleteDependents(ctx, id, cascade); err != nil {
		return false, err
	}
	if err := m.DeleteLinks(ctx, id); err != nil {
		return false, err
	}

	keys, err := m.foreignKeyValues(ctx, id)
	if err != nil {
		return false, err
	}

	where, args := m.pkCondition(id, false)
	if _, err := m.orm.sql.DeleteFrom(m.table).Where(where, args...).Exec(ctx); err != nil {
		return false, fmt.Errorf("basic.Model.DeleteByID: %w", err)
	}

	if len(keys) > 0 {
		if err := m.UpdateCounterCache(ctx, keys); err != nil {
			return false, err
		}
	}

	after := event.New(orm.EventAfterDelete, m.alias, map[string]any{"id": id, "cascade": cascade, "hard": true})
	if err := m.Events().Dispatch(ctx, after); err != nil {
		return false, err
	}
	if err := m.ClearCache(ctx); err != nil {
		logger.Warn(ctx, "clear result cache failed", logging.Error(err))
	}
	logger.Debug(ctx, "record deleted")
	return true, nil
}

// foreignKeyValues 读取计数缓存所需的 belongs_to 外键值，不经过查询拦截器
func (m *model) foreignKeyValues(ctx context.Context, id any) (map[string]any, error) {
	var fks []string
	for _, a := range m.meta.CounterCaches() {
		fks = append(fks, a.ForeignKey)
	}
	if len(fks) == 0 {
		return nil, nil
	}

	row := make(map[string]any)
	err := m.First(ctx, &row,
		orm.WithSelect(fks...),
		orm.WithConditions(orm.Conditions{m.alias + "." + m.pk: id}),
		orm.WithoutCallbacks(),
	)
	if errors.Is(err, orm.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}
