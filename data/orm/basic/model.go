package basic

import (
	"context"
	"fmt"
	"strings"

	"softdel/data/db/dialect"
	"softdel/data/orm"
	"softdel/data/orm/event"
	"softdel/logging"
)

// model 实现 orm.IModel
type model struct {
	orm   *Orm
	meta  *orm.ModelMeta
	table string
	alias string
	pk    string
}

func (m *model) Meta() *orm.ModelMeta           { return m.meta }
func (m *model) Capabilities() orm.Capabilities { return m.orm.caps }
func (m *model) Alias() string                  { return m.alias }
func (m *model) PrimaryKey() string             { return m.pk }

func (m *model) Intercept(i orm.IFindInterceptor) {
	if i == nil {
		return
	}
	m.orm.hooks.addInterceptor(m.table, i)
}

func (m *model) ReplaceDeleter(d orm.IRecordDeleter) {
	m.orm.hooks.setDeleter(m.table, d)
}

func (m *model) Events() *event.Manager {
	return m.orm.hooks.eventsFor(m.table)
}

func (m *model) Quote(v any) orm.Expr {
	return orm.Expr(m.dialect().Quote(v))
}

// ColumnType 优先使用 FieldMeta.Type，否则通过驱动报告的列类型推断。
func (m *model) ColumnType(ctx context.Context, column string) (orm.ColumnType, error) {
	col := m.columnName(column)
	if f, ok := m.meta.Field(col); ok && f.Type != orm.ColumnOther {
		return f.Type, nil
	}

	q := "SELECT " + m.quoteIdent(col) + " FROM " + m.quoteIdent(m.table) + " WHERE 1 = 0"
	rows, err := m.orm.db.Query(ctx, q)
	if err != nil {
		return orm.ColumnOther, fmt.Errorf("basic.Model.ColumnType: %w", err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return orm.ColumnOther, fmt.Errorf("basic.Model.ColumnType: %w", err)
	}
	if len(types) == 0 {
		return orm.ColumnOther, nil
	}
	return orm.ParseColumnType(types[0].DatabaseTypeName()), nil
}

func (m *model) dialect() dialect.Dialect {
	return m.orm.sql.Dialect()
}

func (m *model) quoteIdent(name string) string {
	return m.dialect().QuoteIdentifier(name)
}

// fromExpr 返回带别名的表表达式
func (m *model) fromExpr() string {
	if m.alias == m.table {
		return m.quoteIdent(m.table)
	}
	return m.quoteIdent(m.table) + " AS " + m.quoteIdent(m.alias)
}

// columnName 去掉引号以及指向本表（别名或表名）的限定前缀。
//
// UPDATE/DELETE 语句不带别名，条件与列名需要退化为裸列名。
func (m *model) columnName(name string) string {
	name = strings.TrimSpace(name)
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(p), "`\"")
	}
	if len(parts) == 2 && (parts[0] == m.alias || parts[0] == m.table) {
		return parts[1]
	}
	return strings.Join(parts, ".")
}

// quoteWriteIdent 写语句使用的标识符转义
func (m *model) quoteWriteIdent(name string) string {
	return m.quoteIdent(m.columnName(name))
}

// qualified 返回带别名的列引用
func (m *model) qualified(column string) string {
	return m.quoteIdent(m.alias + "." + m.columnName(column))
}

// pkCondition 主键条件；qualified 为 true 时带别名
func (m *model) pkCondition(id any, qualified bool) (string, []any) {
	if qualified {
		return m.qualified(m.pk) + " = ?", []any{id}
	}
	return m.quoteIdent(m.pk) + " = ?", []any{id}
}

// invalidate 写操作后清理本表结果缓存，失败只记录日志
func (m *model) invalidate(ctx context.Context) {
	if err := m.ClearCache(ctx); err != nil {
		m.orm.logger.Warn(ctx, "clear result cache failed",
			logging.String("table", m.table), logging.Error(err))
	}
}

// ClearCache 清理本表的结果缓存
func (m *model) ClearCache(ctx context.Context) error {
	if m.orm.cache == nil {
		return nil
	}
	return m.orm.cache.Invalidate(ctx, cachePrefix(m.table))
}

func cachePrefix(table string) string {
	return "orm:" + table + ":"
}
