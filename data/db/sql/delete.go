package sql

import (
	"context"
	"database/sql"
	"strings"

	core "softdel/data/db"
	"softdel/data/db/dialect"
)

type deleteBuilder struct {
	db      core.IDatabase
	dialect dialect.Dialect

	table string
	where []string
	args  []any
	limit int
}

func (b *deleteBuilder) Where(cond string, args ...any) IDeleteBuilder {
	if cond == "" {
		return b
	}
	b.where = append(b.where, cond)
	b.args = append(b.args, args...)
	return b
}

// Limit 仅在方言支持 DELETE ... LIMIT 时生效
func (b *deleteBuilder) Limit(n int) IDeleteBuilder {
	b.limit = n
	return b
}

func (b *deleteBuilder) build() (string, []any, error) {
	table, err := quoteIdents(b.dialect, "table", b.table)
	if err != nil {
		return "", nil, err
	}
	q := "DELETE FROM " + table
	args := append([]any(nil), b.args...)
	if len(b.where) > 0 {
		q += " WHERE " + strings.Join(b.where, " AND ")
	}
	if b.limit > 0 && b.dialect.SupportsDeleteLimit() {
		q += " LIMIT ?"
		args = append(args, b.limit)
	}
	return q, args, nil
}

func (b *deleteBuilder) Build() (string, []any) { return mustBuild(b.build) }

func (b *deleteBuilder) Exec(ctx context.Context) (sql.Result, error) {
	q, args, err := b.build()
	if err != nil {
		return nil, err
	}
	return b.db.Exec(ctx, q, args...)
}
