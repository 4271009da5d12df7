package orm

import (
	"context"
	"database/sql"

	"softdel/data/db"
	"softdel/data/orm/event"
)

// 模型生命周期事件名
const (
	// EventBeforeDelete 可取消事件，Data 携带 id 与 cascade
	EventBeforeDelete = "before_delete"
	// EventAfterDelete 信息类事件
	EventAfterDelete = "after_delete"
)

// IOrm 表示 ORM 适配器入口。
// 仅定义接口，具体实现由业务侧选择并以适配器形式注入。
type IOrm interface {
	// Capabilities 返回适配器支持的能力集合。
	Capabilities() Capabilities
	// Model 返回指定模型的操作入口。
	//
	// 同一张表的拦截器、删除器与事件管理器在适配器内共享，
	// 因此多次调用 Model 得到的入口行为一致。
	Model(meta *ModelMeta) IModel
	// Begin 开启事务会话。
	Begin(ctx context.Context) (IOrmSession, error)
	// BeginTx 开启带选项的事务会话。
	BeginTx(ctx context.Context, opts *sql.TxOptions) (IOrmSession, error)
	// Database 返回适配器绑定的通用数据库（可选，可为 nil）。
	Database() db.IDatabase
	// Raw 返回底层引擎实例，便于特殊场景透传。
	Raw() any
}

// IOrmSession 表示事务会话。
type IOrmSession interface {
	IOrm
	Commit() error
	Rollback() error
}

// IFindInterceptor 查询前拦截器，可改写 QueryOptions.Conditions。
type IFindInterceptor interface {
	BeforeFind(ctx context.Context, opts *QueryOptions) error
}

// IKeyedInterceptor 带键的拦截器：同一张表上同键只保留最后注册的一个，
// 查询可通过 WithInterceptor 以同键实例临时替换它。
type IKeyedInterceptor interface {
	IFindInterceptor
	InterceptorKey() string
}

// FindInterceptorFunc 函数式拦截器
type FindInterceptorFunc func(ctx context.Context, opts *QueryOptions) error

func (f FindInterceptorFunc) BeforeFind(ctx context.Context, opts *QueryOptions) error {
	return f(ctx, opts)
}

// IRecordDeleter 单条记录删除策略。
//
// 适配器在级联删除子记录时使用目标表注册的删除器，
// 未注册时走原生物理删除。
type IRecordDeleter interface {
	DeleteByID(ctx context.Context, id any, cascade bool) (bool, error)
}

// IResultCache 查询结果缓存，键按表名前缀分组以便整体失效。
type IResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Invalidate(ctx context.Context, prefix string) error
}

// IModel 封装模型级别的基础操作。
type IModel interface {
	Meta() *ModelMeta
	Capabilities() Capabilities
	// Alias 查询中使用的表别名
	Alias() string
	// PrimaryKey 主键列名
	PrimaryKey() string

	// First/Find/Count 经过查询拦截器，WithoutCallbacks 时跳过。
	First(ctx context.Context, dest any, opts ...QueryOption) error
	Find(ctx context.Context, dest any, opts ...QueryOption) error
	Count(ctx context.Context, opts ...QueryOption) (int64, error)
	// Exists 按主键判断记录是否存在，不经过查询拦截器。
	Exists(ctx context.Context, id any) (bool, error)

	Create(ctx context.Context, entities ...any) error
	// UpdateValues 根据 values 与条件更新，Expr 类型的值原样写入 SQL。
	UpdateValues(ctx context.Context, values map[string]any, opts ...QueryOption) error
	// Delete 按条件物理删除，不触发事件与级联。
	Delete(ctx context.Context, opts ...QueryOption) error
	// DeleteByID 原生物理删除流程：
	// before 事件、存在性检查、级联、计数缓存、after 事件与缓存清理。
	DeleteByID(ctx context.Context, id any, cascade bool) (bool, error)

	// ColumnType 解析列在存储层的类型。
	ColumnType(ctx context.Context, column string) (ColumnType, error)
	// Quote 将值渲染为当前方言的 SQL 字面量。
	Quote(v any) Expr

	// Intercept 为本表注册查询拦截器。
	Intercept(i IFindInterceptor)
	// ReplaceDeleter 替换本表在级联中使用的删除器，传 nil 恢复默认。
	ReplaceDeleter(d IRecordDeleter)
	// Events 本表的事件管理器。
	Events() *event.Manager

	// DeleteDependents 删除 Dependent 关联的子记录。
	DeleteDependents(ctx context.Context, id any, cascade bool) error
	// DeleteLinks 删除多对多中间表中指向该记录的行。
	DeleteLinks(ctx context.Context, id any) error
	// UpdateCounterCache 以 belongs_to 外键值重算父表计数列。
	UpdateCounterCache(ctx context.Context, keys map[string]any) error
	// ClearCache 清理本表的结果缓存。
	ClearCache(ctx context.Context) error
}
