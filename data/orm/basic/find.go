package basic

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	dbsql "softdel/data/db/sql"
	"softdel/data/orm"
	"softdel/logging"
)

// prepare 聚合查询选项并依次执行本表的查询拦截器
func (m *model) prepare(ctx context.Context, opts ...orm.QueryOption) (orm.QueryOptions, error) {
	qo := orm.CollectQueryOptions(opts...)
	if qo.SkipCallbacks {
		return qo, nil
	}
	chain := m.orm.hooks.interceptorsFor(m.table)
	for _, i := range qo.Interceptors {
		if idx := keyIndex(chain, i); idx >= 0 {
			chain[idx] = i
			continue
		}
		chain = append(chain, i)
	}
	for _, i := range chain {
		if err := i.BeforeFind(ctx, &qo); err != nil {
			return qo, err
		}
	}
	return qo, nil
}

// selectBuilder 按查询选项构建 SELECT（不含 LIMIT/OFFSET）
func (m *model) selectBuilder(qo orm.QueryOptions, columns ...string) (dbsql.ISelectBuilder, error) {
	if len(columns) == 0 {
		columns = make([]string, 0, len(qo.Select))
		for _, c := range qo.Select {
			columns = append(columns, m.selectColumn(c))
		}
	}
	if len(columns) == 0 {
		columns = []string{"*"}
	}

	builder := m.orm.sql.Select(columns...)
	if qo.Distinct {
		builder = builder.Distinct()
	}
	builder = builder.From(m.fromExpr())

	where, args, err := orm.CompileConditions(qo.Conditions, m.quoteIdent)
	if err != nil {
		return nil, err
	}
	builder = builder.Where(where, args...)
	for _, w := range qo.Where {
		builder = builder.Where(w.Expr, w.Args...)
	}
	if len(qo.GroupBy) > 0 {
		builder = builder.GroupBy(qo.GroupBy...)
	}
	if len(qo.OrderBy) > 0 {
		builder = builder.OrderBy(buildOrderByExpr(qo.OrderBy))
	}
	if qo.ForUpdate {
		builder = builder.ForUpdate()
	}
	return builder, nil
}

// selectColumn 转义普通列名并保留其结果列名；表达式（含括号或空格）原样保留
func (m *model) selectColumn(col string) string {
	if col == "*" || strings.ContainsAny(col, "( ") {
		return col
	}
	bare := m.columnName(col)
	if strings.Contains(bare, ".") {
		return m.quoteIdent(bare)
	}
	return m.qualified(bare) + " AS " + m.quoteIdent(bare)
}

// First 查询单条记录。
func (m *model) First(ctx context.Context, dest any, opts ...orm.QueryOption) error {
	qo, err := m.prepare(ctx, opts...)
	if err != nil {
		return err
	}
	builder, err := m.selectBuilder(qo)
	if err != nil {
		return err
	}
	// First 至少限制一条
	if qo.Limit > 0 {
		builder = builder.Limit(qo.Limit)
	} else {
		builder = builder.Limit(1)
	}
	if qo.Offset > 0 {
		builder = builder.Offset(qo.Offset)
	}

	rows, err := builder.Query(ctx)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return orm.ErrNotFound
	}
	return scanRowsIntoDest(rows, dest, m.orm)
}

// Find 查询多条记录。
func (m *model) Find(ctx context.Context, dest any, opts ...orm.QueryOption) error {
	qo, err := m.prepare(ctx, opts...)
	if err != nil {
		return err
	}
	builder, err := m.selectBuilder(qo)
	if err != nil {
		return err
	}
	if qo.Limit > 0 {
		builder = builder.Limit(qo.Limit)
	}
	if qo.Offset > 0 {
		builder = builder.Offset(qo.Offset)
	}

	rows, err := builder.Query(ctx)
	if err != nil {
		return err
	}
	defer rows.Close()

	return scanRowsIntoDest(rows, dest, m.orm)
}

// Count 统计数量（忽略 Select/GroupBy，只做简单 COUNT(*)）。
//
// 启用结果缓存且查询带 orm.WithCache() 时，以最终 SQL 与参数为键复用结果。
func (m *model) Count(ctx context.Context, opts ...orm.QueryOption) (int64, error) {
	qo, err := m.prepare(ctx, opts...)
	if err != nil {
		return 0, err
	}
	qo.GroupBy, qo.OrderBy, qo.Distinct = nil, nil, false
	builder, err := m.selectBuilder(qo, "COUNT(*)")
	if err != nil {
		return 0, err
	}

	useCache := qo.UseCache && m.orm.cache != nil
	var key string
	if useCache {
		q, args := builder.Build()
		key = cachePrefix(m.table) + "count:" + q + "|" + fmt.Sprint(args...)
		if raw, ok, err := m.orm.cache.Get(ctx, key); err == nil && ok {
			if n, perr := strconv.ParseInt(string(raw), 10, 64); perr == nil {
				return n, nil
			}
		} else if err != nil {
			m.orm.logger.Warn(ctx, "result cache get failed", logging.String("table", m.table), logging.Error(err))
		}
	}

	var count int64
	if err := builder.QueryRow(ctx).Scan(&count); err != nil {
		return 0, err
	}

	if useCache {
		if err := m.orm.cache.Set(ctx, key, []byte(strconv.FormatInt(count, 10))); err != nil {
			m.orm.logger.Warn(ctx, "result cache set failed", logging.String("table", m.table), logging.Error(err))
		}
	}
	return count, nil
}

// Exists 按主键检查记录，不经过查询拦截器。
func (m *model) Exists(ctx context.Context, id any) (bool, error) {
	if id == nil {
		return false, nil
	}
	n, err := m.Count(ctx,
		orm.WithConditions(orm.Conditions{m.alias + "." + m.pk: id}),
		orm.WithoutCallbacks(),
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func buildOrderByExpr(orders []orm.OrderBy) string {
	if len(orders) == 0 {
		return ""
	}
	parts := make([]string, 0, len(orders))
	for _, o := range orders {
		if o.Column == "" {
			continue
		}
		if o.Desc {
			parts = append(parts, o.Column+" DESC")
		} else {
			parts = append(parts, o.Column+" ASC")
		}
	}
	return strings.Join(parts, ", ")
}
