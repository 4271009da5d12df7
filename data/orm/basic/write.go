package basic

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"softdel/data/orm"
)

// Create 插入记录（支持批量）。
func (m *model) Create(ctx context.Context, entities ...any) error {
	if len(entities) == 0 {
		return nil
	}

	// 以第一个实体的类型构建字段映射
	first := entities[0]
	sm := m.orm.structMetaForValue(first)
	if sm == nil {
		return fmt.Errorf("basic.Model.Create: unsupported entity type %T", first)
	}

	cols, insertFields := sm.insertableColumns()
	if len(cols) == 0 {
		return fmt.Errorf("basic.Model.Create: no insertable columns for %T", first)
	}

	builder := m.orm.sql.InsertInto(m.table).Columns(cols...)

	for _, e := range entities {
		val := reflect.ValueOf(e)
		if val.Kind() == reflect.Ptr {
			val = val.Elem()
		}
		if !val.IsValid() || val.Kind() != reflect.Struct || val.Type() != sm.typ {
			return fmt.Errorf("basic.Model.Create: entity must be %s or *%s, got %T", sm.typ, sm.typ, e)
		}

		rowVals := make([]any, len(insertFields))
		for i, fi := range insertFields {
			fv := fieldByIndexSafe(val, fi.Index)
			if !fv.IsValid() {
				rowVals[i] = nil
				continue
			}
			rowVals[i] = fv.Interface()
		}
		builder = builder.Values(rowVals...)
	}

	if _, err := builder.Exec(ctx); err != nil {
		return err
	}
	m.invalidate(ctx)
	return nil
}

// UpdateValues 根据 values 与 QueryOptions 进行更新。
//
// 更新语句不带别名，条件与列名中的本表限定前缀会被去掉；
// orm.Expr 类型的值作为原始表达式写入。
func (m *model) UpdateValues(ctx context.Context, values map[string]any, opts ...orm.QueryOption) error {
	if len(values) == 0 {
		return nil
	}

	qo := orm.CollectQueryOptions(opts...)
	builder := m.orm.sql.Update(m.table)

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		col := m.columnName(k)
		if expr, ok := values[k].(orm.Expr); ok {
			builder = builder.SetRaw(col, string(expr))
			continue
		}
		builder = builder.Set(col, values[k])
	}

	where, args, err := orm.CompileConditions(qo.Conditions, m.quoteWriteIdent)
	if err != nil {
		return err
	}
	builder = builder.Where(where, args...)
	for _, w := range qo.Where {
		builder = builder.Where(w.Expr, w.Args...)
	}

	if _, err := builder.Exec(ctx); err != nil {
		return err
	}
	m.invalidate(ctx)
	return nil
}

// Delete 根据 QueryOptions 删除记录。
func (m *model) Delete(ctx context.Context, opts ...orm.QueryOption) error {
	qo := orm.CollectQueryOptions(opts...)
	if len(qo.Where) == 0 && len(qo.Conditions) == 0 {
		return fmt.Errorf("basic.Orm: delete without where is not allowed")
	}

	builder := m.orm.sql.DeleteFrom(m.table)
	where, args, err := orm.CompileConditions(qo.Conditions, m.quoteWriteIdent)
	if err != nil {
		return err
	}
	builder = builder.Where(where, args...)
	for _, w := range qo.Where {
		builder = builder.Where(w.Expr, w.Args...)
	}
	if qo.Limit > 0 {
		builder = builder.Limit(qo.Limit)
	}
	if _, err := builder.Exec(ctx); err != nil {
		return err
	}
	m.invalidate(ctx)
	return nil
}
