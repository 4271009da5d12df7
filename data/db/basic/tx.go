package basic

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	core "softdel/data/db"
	"softdel/data/db/dialect"
)

// querier *sql.DB 与 *sql.Tx 的公共查询能力
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func query(ctx context.Context, q querier, d dialect.Dialect, stmt string, args []any) (core.IRows, error) {
	rows, err := q.QueryContext(ctx, d.Rebind(stmt), args...)
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows}, nil
}

// Tx 事务，同时满足 core.IDatabase，可直接交给只认 DB 的组件
type Tx struct {
	db      *sql.DB
	tx      *sql.Tx
	dialect dialect.Dialect
}

var errNestedTx = errors.New("basic.Tx: nested transactions are not supported")

func (t *Tx) Query(ctx context.Context, stmt string, args ...any) (core.IRows, error) {
	return query(ctx, t.tx, t.dialect, stmt, args)
}

func (t *Tx) QueryRow(ctx context.Context, stmt string, args ...any) core.IRow {
	return &Row{row: t.tx.QueryRowContext(ctx, t.dialect.Rebind(stmt), args...)}
}

func (t *Tx) Exec(ctx context.Context, stmt string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, t.dialect.Rebind(stmt), args...)
}

func (t *Tx) Begin(context.Context) (core.ITransaction, error) { return nil, errNestedTx }

func (t *Tx) BeginTx(context.Context, *sql.TxOptions) (core.ITransaction, error) {
	return nil, errNestedTx
}

func (t *Tx) Ping(ctx context.Context) error { return t.db.PingContext(ctx) }
func (t *Tx) Close() error                   { return nil }
func (t *Tx) Raw() any                       { return t.tx }
func (t *Tx) Commit() error                  { return t.tx.Commit() }
func (t *Tx) Rollback() error                { return t.tx.Rollback() }
func (t *Tx) GetDialectName() string         { return string(t.dialect.Name()) }

// RunInTx 在事务中执行 fn；fn 返回错误或 panic 时回滚，否则提交
func RunInTx(ctx context.Context, db core.IDatabase, fn func(tx core.ITransaction) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("basic.RunInTx: begin: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
