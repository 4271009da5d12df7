package basic

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"sync"

	dbcore "softdel/data/db"
	dbsql "softdel/data/db/sql"
	"softdel/data/orm"
	"softdel/data/orm/event"
	"softdel/logging"
)

// Orm 是基于 softdel/data/db + softdel/data/db/sql 的轻量 IOrm 实现。
//
// 除基础 CRUD 外，Orm 按表名维护共享的查询拦截器、记录删除器与事件管理器，
// 使同一张表的所有 Model 入口（以及其他表的级联删除、计数缓存重算）
// 观察到一致的行为。
type Orm struct {
	db     dbcore.IDatabase
	sql    dbsql.ISql
	caps   orm.Capabilities
	logger logging.Logger
	cache  orm.IResultCache

	hooks *registry

	mu        sync.RWMutex
	structMap map[reflect.Type]*structMeta
}

// Option 配置 Orm
type Option func(*Orm)

// WithLogger 设置日志器
func WithLogger(logger logging.Logger) Option {
	return func(o *Orm) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithResultCache 启用结果缓存（Count 配合 orm.WithCache 使用）
func WithResultCache(cache orm.IResultCache) Option {
	return func(o *Orm) {
		o.cache = cache
	}
}

// New 创建一个基于指定 IDatabase 的 Orm 适配器。
func New(db dbcore.IDatabase, opts ...Option) orm.IOrm {
	o := &Orm{
		db:        db,
		sql:       dbsql.New(db),
		logger:    logging.GetLogger().WithFields(logging.String("component", "orm.basic")),
		hooks:     newRegistry(),
		structMap: make(map[reflect.Type]*structMeta),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	o.caps = orm.NewCapabilities(
		orm.CapabilityBasicCRUD,
		orm.CapabilityQuery,
		orm.CapabilityTransaction,
		orm.CapabilityInterceptor,
		orm.CapabilityCascade,
		orm.CapabilityCounterCache,
	)
	if o.cache != nil {
		o.caps[orm.CapabilityResultCache] = true
	}
	return o
}

// derive 基于事务连接派生 Orm，共享注册表、缓存与日志器
func (o *Orm) derive(db dbcore.IDatabase) *Orm {
	return &Orm{
		db:        db,
		sql:       dbsql.New(db),
		caps:      o.caps,
		logger:    o.logger,
		cache:     o.cache,
		hooks:     o.hooks,
		structMap: make(map[reflect.Type]*structMeta),
	}
}

// Capabilities 返回适配器支持的能力。
func (o *Orm) Capabilities() orm.Capabilities { return o.caps }

// Model 返回模型级操作入口。
func (o *Orm) Model(meta *orm.ModelMeta) orm.IModel {
	if meta == nil {
		panic("basic.Orm: ModelMeta cannot be nil")
	}

	table := meta.Table
	if table == "" && meta.Model != nil {
		// 如果模型实现了 TableName()，优先使用
		if tn, ok := tryGetTableName(meta.Model); ok {
			table = tn
		}
	}
	if table == "" {
		panic("basic.Orm: table name is empty")
	}

	alias := meta.Alias
	if alias == "" {
		alias = table
	}

	o.hooks.remember(table, meta)
	return &model{
		orm:   o,
		meta:  meta,
		table: table,
		alias: alias,
		pk:    meta.PrimaryKeyName(),
	}
}

// modelForTable 按表名取得模型入口，优先使用已登记的元信息
func (o *Orm) modelForTable(table string) *model {
	meta := o.hooks.meta(table)
	if meta == nil {
		meta = &orm.ModelMeta{Table: table}
	}
	return o.Model(meta).(*model)
}

// Begin 开启事务会话。
func (o *Orm) Begin(ctx context.Context) (orm.IOrmSession, error) {
	tx, err := o.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &session{Orm: o.derive(tx), tx: tx}, nil
}

// BeginTx 开启带选项的事务会话。
func (o *Orm) BeginTx(ctx context.Context, opts *sql.TxOptions) (orm.IOrmSession, error) {
	tx, err := o.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &session{Orm: o.derive(tx), tx: tx}, nil
}

// Database 返回底层数据库抽象。
func (o *Orm) Database() dbcore.IDatabase { return o.db }

// Raw 返回底层实现（此处为 dbcore.IDatabase）。
func (o *Orm) Raw() any { return o.db }

// session 实现 IOrmSession，委托给内部 Orm，并持有事务以便 Commit/Rollback。
type session struct {
	*Orm
	tx dbcore.ITransaction
}

// Commit 提交事务。
func (s *session) Commit() error {
	if s.tx == nil {
		return fmt.Errorf("basic.session: tx is nil")
	}
	return s.tx.Commit()
}

// Rollback 回滚事务。
func (s *session) Rollback() error {
	if s.tx == nil {
		return fmt.Errorf("basic.session: tx is nil")
	}
	return s.tx.Rollback()
}

// ------------------------------------------------------------------------
// registry 按表名保存拦截器、删除器、事件管理器与模型元信息
// ------------------------------------------------------------------------

type registry struct {
	mu           sync.RWMutex
	interceptors map[string][]orm.IFindInterceptor
	deleters     map[string]orm.IRecordDeleter
	events       map[string]*event.Manager
	metas        map[string]*orm.ModelMeta
}

func newRegistry() *registry {
	return &registry{
		interceptors: make(map[string][]orm.IFindInterceptor),
		deleters:     make(map[string]orm.IRecordDeleter),
		events:       make(map[string]*event.Manager),
		metas:        make(map[string]*orm.ModelMeta),
	}
}

// remember 记录表的元信息；首次登记的元信息生效
func (r *registry) remember(table string, meta *orm.ModelMeta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.metas[table]; !ok {
		r.metas[table] = meta
	}
}

func (r *registry) meta(table string) *orm.ModelMeta {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.metas[table]
}

// addInterceptor 追加拦截器；带键的拦截器替换同键的已有项
func (r *registry) addInterceptor(table string, i orm.IFindInterceptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.interceptors[table]
	if idx := keyIndex(list, i); idx >= 0 {
		list[idx] = i
		return
	}
	r.interceptors[table] = append(list, i)
}

// keyIndex 返回 list 中与 i 同键的位置，i 无键或未找到时返回 -1
func keyIndex(list []orm.IFindInterceptor, i orm.IFindInterceptor) int {
	k, ok := i.(orm.IKeyedInterceptor)
	if !ok {
		return -1
	}
	for idx, cur := range list {
		if ck, ok := cur.(orm.IKeyedInterceptor); ok && ck.InterceptorKey() == k.InterceptorKey() {
			return idx
		}
	}
	return -1
}

func (r *registry) interceptorsFor(table string) []orm.IFindInterceptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.interceptors[table]
	out := make([]orm.IFindInterceptor, len(list))
	copy(out, list)
	return out
}

func (r *registry) setDeleter(table string, d orm.IRecordDeleter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d == nil {
		delete(r.deleters, table)
		return
	}
	r.deleters[table] = d
}

func (r *registry) deleter(table string) orm.IRecordDeleter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.deleters[table]
}

func (r *registry) eventsFor(table string) *event.Manager {
	r.mu.RLock()
	m, ok := r.events[table]
	r.mu.RUnlock()
	if ok {
		return m
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok = r.events[table]; !ok {
		m = event.NewManager()
		r.events[table] = m
	}
	return m
}
