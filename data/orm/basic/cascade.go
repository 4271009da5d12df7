package basic

import (
	"context"
	"fmt"

	"softdel/data/orm"
)

// DeleteDependents 级联删除 Dependent 的 has_one/has_many 子记录。
//
// 子记录通过目标表的查询入口查找（会经过目标表拦截器），
// 再交给目标表注册的删除器；未注册删除器时走原生物理删除。
func (m *model) DeleteDependents(ctx context.Context, id any, cascade bool) error {
	if !cascade || id == nil {
		return nil
	}
	for _, a := range m.meta.Associations {
		if !a.Dependent || (a.Kind != orm.AssociationHasOne && a.Kind != orm.AssociationHasMany) {
			continue
		}
		target := targetTable(a)
		if target == "" || a.ForeignKey == "" {
			return fmt.Errorf("basic.Model.DeleteDependents: association %s lacks target table or foreign key", a.Name)
		}

		child := m.orm.modelForTable(target)
		var rows []map[string]any
		err := child.Find(ctx, &rows,
			orm.WithSelect(child.pk),
			orm.WithConditions(orm.Conditions{child.alias + "." + a.ForeignKey: id}),
		)
		if err != nil {
			return fmt.Errorf("basic.Model.DeleteDependents(%s): %w", a.Name, err)
		}

		var deleter orm.IRecordDeleter = child
		if d := m.orm.hooks.deleter(target); d != nil {
			deleter = d
		}
		for _, row := range rows {
			if _, err := deleter.DeleteByID(ctx, row[child.pk], true); err != nil {
				return fmt.Errorf("basic.Model.DeleteDependents(%s): %w", a.Name, err)
			}
		}
	}
	return nil
}

// DeleteLinks 删除多对多中间表中指向该记录的行。
func (m *model) DeleteLinks(ctx context.Context, id any) error {
	if id == nil {
		return nil
	}
	for _, a := range m.meta.Associations {
		if a.Kind != orm.AssociationManyToMany || a.JoinTable == "" {
			continue
		}
		fk := a.JoinForeignKey
		if fk == "" {
			fk = a.ForeignKey
		}
		if fk == "" {
			return fmt.Errorf("basic.Model.DeleteLinks: association %s lacks join foreign key", a.Name)
		}
		_, err := m.orm.sql.DeleteFrom(a.JoinTable).
			Where(m.quoteIdent(fk)+" = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("basic.Model.DeleteLinks(%s): %w", a.Name, err)
		}
	}
	return nil
}

// UpdateCounterCache 以 belongs_to 外键值重算父表计数列。
//
// 计数经过本表拦截器，已软删除的记录因此不计入。
func (m *model) UpdateCounterCache(ctx context.Context, keys map[string]any) error {
	for _, a := range m.meta.CounterCaches() {
		value, ok := keys[a.ForeignKey]
		if !ok || value == nil {
			continue
		}
		parentTable := targetTable(a)
		if parentTable == "" {
			return fmt.Errorf("basic.Model.UpdateCounterCache: association %s lacks target table", a.Name)
		}

		n, err := m.Count(ctx, orm.WithConditions(orm.Conditions{m.alias + "." + a.ForeignKey: value}))
		if err != nil {
			return fmt.Errorf("basic.Model.UpdateCounterCache(%s): %w", a.Name, err)
		}

		parent := m.orm.modelForTable(parentTable)
		ref := a.ReferenceKey
		if ref == "" {
			ref = parent.pk
		}
		err = parent.UpdateValues(ctx,
			map[string]any{a.CounterCache: n},
			orm.WithConditions(orm.Conditions{ref: value}),
		)
		if err != nil {
			return fmt.Errorf("basic.Model.UpdateCounterCache(%s): %w", a.Name, err)
		}
	}
	return nil
}

// targetTable 关联目标表名：TargetTable 优先，其次 Target 的 TableName()
func targetTable(a orm.AssociationMeta) string {
	if a.TargetTable != "" {
		return a.TargetTable
	}
	if tn, ok := tryGetTableName(a.Target); ok {
		return tn
	}
	return ""
}
