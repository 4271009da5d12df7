package sql

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"

	core "softdel/data/db"
	"softdel/data/db/dialect"
)

type setClause struct {
	col string
	raw bool
	val any
}

type updateBuilder struct {
	db      core.IDatabase
	dialect dialect.Dialect

	table     string
	sets      []setClause
	whereExpr []string
	whereArgs []any
}

func (b *updateBuilder) Set(col string, val any) IUpdateBuilder {
	if col == "" {
		return b
	}
	b.sets = append(b.sets, setClause{col: col, val: val})
	return b
}

// SetMap 按列名排序追加，保证生成的 SQL 稳定。
func (b *updateBuilder) SetMap(values map[string]any) IUpdateBuilder {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.Set(k, values[k])
	}
	return b
}

func (b *updateBuilder) SetRaw(col string, expr string) IUpdateBuilder {
	if col == "" || expr == "" {
		return b
	}
	b.sets = append(b.sets, setClause{col: col, raw: true, val: expr})
	return b
}

func (b *updateBuilder) Where(cond string, args ...any) IUpdateBuilder {
	if cond != "" {
		b.whereExpr = append(b.whereExpr, cond)
		b.whereArgs = append(b.whereArgs, args...)
	}
	return b
}

func (b *updateBuilder) build() (string, []any, error) {
	if len(b.sets) == 0 {
		return "", nil, errors.New("sql: update without columns")
	}
	table, err := quoteIdents(b.dialect, "table", b.table)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	args := make([]any, 0, len(b.sets)+len(b.whereArgs))
	sb.WriteString("UPDATE " + table + " SET ")
	for i, s := range b.sets {
		col, err := quoteIdents(b.dialect, "column", s.col)
		if err != nil {
			return "", nil, err
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(col + " = ")
		if s.raw {
			sb.WriteString(s.val.(string))
			continue
		}
		sb.WriteString("?")
		args = append(args, s.val)
	}
	if len(b.whereExpr) > 0 {
		sb.WriteString(" WHERE " + strings.Join(b.whereExpr, " AND "))
		args = append(args, b.whereArgs...)
	}
	return sb.String(), args, nil
}

func (b *updateBuilder) Build() (string, []any) { return mustBuild(b.build) }

func (b *updateBuilder) Exec(ctx context.Context) (sql.Result, error) {
	q, args, err := b.build()
	if err != nil {
		return nil, err
	}
	return b.db.Exec(ctx, q, args...)
}
