package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	core "softdel/data/db"
	"softdel/data/db/dialect"
)

type insertBuilder struct {
	db      core.IDatabase
	dialect dialect.Dialect

	table   string
	columns []string
	rows    [][]any
}

func (b *insertBuilder) Columns(cols ...string) IInsertBuilder {
	b.columns = cols
	return b
}

// Values 追加一行，空行被忽略
func (b *insertBuilder) Values(vals ...any) IInsertBuilder {
	if len(vals) > 0 {
		b.rows = append(b.rows, vals)
	}
	return b
}

func (b *insertBuilder) build() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, errors.New("sql: insert without columns")
	}
	if len(b.rows) == 0 {
		return "", nil, errors.New("sql: insert without rows")
	}
	table, err := quoteIdents(b.dialect, "table", b.table)
	if err != nil {
		return "", nil, err
	}
	cols, err := quoteIdents(b.dialect, "column", b.columns...)
	if err != nil {
		return "", nil, err
	}

	row := "(?" + strings.Repeat(", ?", len(b.columns)-1) + ")"
	tuples := make([]string, len(b.rows))
	args := make([]any, 0, len(b.rows)*len(b.columns))
	for i, r := range b.rows {
		if len(r) != len(b.columns) {
			return "", nil, fmt.Errorf("sql: insert row %d has %d values for %d columns", i, len(r), len(b.columns))
		}
		tuples[i] = row
		args = append(args, r...)
	}
	return "INSERT INTO " + table + " (" + cols + ") VALUES " + strings.Join(tuples, ", "), args, nil
}

func (b *insertBuilder) Build() (string, []any) { return mustBuild(b.build) }

func (b *insertBuilder) Exec(ctx context.Context) (sql.Result, error) {
	q, args, err := b.build()
	if err != nil {
		return nil, err
	}
	return b.db.Exec(ctx, q, args...)
}
