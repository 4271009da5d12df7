package softdelete

import (
	"context"
	"reflect"
	"time"

	"github.com/samber/lo"

	"softdel/data/orm"
	"softdel/errors"
	"softdel/logging"
)

// ISoftDeletable 模型声明删除标记列
type ISoftDeletable interface {
	DeletedFieldName() string
}

// IAdditionalFields 模型声明标记删除时一并写入的字段
type IAdditionalFields interface {
	AdditionalFieldsOnDelete() map[string]any
}

// Option 配置 Model
type Option func(*Model)

// WithFieldName 指定删除标记列，优先于模型声明
func WithFieldName(name string) Option {
	return func(m *Model) { m.flag = name }
}

// WithAdditionalFields 指定标记删除时一并写入的字段，优先于模型声明
func WithAdditionalFields(fields map[string]any) Option {
	return func(m *Model) { m.additional = fields }
}

func WithLogger(logger logging.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock 替换删除时刻来源
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// Model 软删除模型，嵌入宿主模型并覆盖删除语义。
//
// 查询、写入等其余操作直接委托宿主；Delete/DeleteByID 为标记删除，
// HardDelete 为物理删除。includeDeleted 与 id 为实例状态，
// 并发场景请使用 WithDeleted(ctx) 并显式传入 id。
type Model struct {
	orm.IModel

	flag       string
	colType    orm.ColumnType
	additional map[string]any

	includeDeleted bool
	id             any

	logger logging.Logger
	now    func() time.Time
}

// New 包装宿主模型。
//
// 删除标记列来自 WithFieldName 或模型的 DeletedFieldName()，两者皆无时报错；
// 列类型在此解析一次。成功后 Model 注册为宿主表的查询拦截器与记录删除器，
// 替换同一张表上先前注册的软删除实例；先前实例自身发起的查询仍按其自身模式过滤。
func New(ctx context.Context, host orm.IModel, opts ...Option) (*Model, error) {
	if host == nil {
		return nil, errors.NewError(errors.ErrCodeInvalidInput, "softdelete: host model is nil")
	}
	if !host.Capabilities().Supports(orm.CapabilityInterceptor) {
		return nil, errors.NewError(errors.ErrCodeUnsupported, "softdelete: adapter does not support find interceptors")
	}

	m := &Model{
		IModel: host,
		logger: logging.GetLogger(),
		now:    time.Now,
	}
	if entity := modelInstance(host.Meta()); entity != nil {
		if sd, ok := entity.(ISoftDeletable); ok {
			m.flag = sd.DeletedFieldName()
		}
		if af, ok := entity.(IAdditionalFields); ok {
			m.additional = af.AdditionalFieldsOnDelete()
		}
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.flag == "" {
		return nil, errors.NewError(errors.ErrCodeInvalidInput, "softdelete: deleted field name is not configured").
			WithContext("model", host.Alias())
	}

	colType, err := host.ColumnType(ctx, m.flag)
	if err != nil {
		return nil, errors.WrapDatabaseError(ctx, err, "resolve deleted field type")
	}
	m.colType = colType
	m.logger = m.logger.WithFields(
		logging.String("component", "softdelete"),
		logging.String("model", host.Alias()),
	)

	host.Intercept(m)
	host.ReplaceDeleter(m)
	return m, nil
}

// modelInstance 返回可调用方法的模型实例，nil 指针替换为零值
func modelInstance(meta *orm.ModelMeta) any {
	if meta == nil || meta.Model == nil {
		return nil
	}
	v := reflect.ValueOf(meta.Model)
	if v.Kind() == reflect.Ptr && v.IsNil() {
		return reflect.New(v.Type().Elem()).Interface()
	}
	return meta.Model
}

// Host 返回被包装的宿主模型
func (m *Model) Host() orm.IModel { return m.IModel }

// FlagName 删除标记列名
func (m *Model) FlagName() string { return m.flag }

// FlagType 删除标记列类型
func (m *Model) FlagType() orm.ColumnType { return m.colType }

// IncludeDeletedRecords 之后的查询包含已删除记录
func (m *Model) IncludeDeletedRecords() { m.includeDeleted = true }

// ExcludeDeletedRecords 之后的查询排除已删除记录
func (m *Model) ExcludeDeletedRecords() { m.includeDeleted = false }

func (m *Model) IncludesDeletedRecords() bool { return m.includeDeleted }

// SetID 设置当前记录，Delete/HardDelete 未传 id 时使用
func (m *Model) SetID(id any) { m.id = id }

func (m *Model) ID() any { return m.id }

const interceptorKey = "softdelete"

// InterceptorKey 同表只保留一个软删除拦截器
func (m *Model) InterceptorKey() string { return interceptorKey }

// First 经由本实例的拦截器查询单条记录
func (m *Model) First(ctx context.Context, dest any, opts ...orm.QueryOption) error {
	return m.IModel.First(ctx, dest, m.scoped(opts)...)
}

func (m *Model) Find(ctx context.Context, dest any, opts ...orm.QueryOption) error {
	return m.IModel.Find(ctx, dest, m.scoped(opts)...)
}

func (m *Model) Count(ctx context.Context, opts ...orm.QueryOption) (int64, error) {
	return m.IModel.Count(ctx, m.scoped(opts)...)
}

// scoped 让本次查询使用本实例的模式，而不是表上最后注册的实例
func (m *Model) scoped(opts []orm.QueryOption) []orm.QueryOption {
	return append(append(make([]orm.QueryOption, 0, len(opts)+1), opts...), orm.WithInterceptor(m))
}

// BeforeFind 查询未引用删除标记时追加排除条件，已有条件不会被覆盖。
func (m *Model) BeforeFind(ctx context.Context, qo *orm.QueryOptions) error {
	if m.includeDeleted || IncludesDeleted(ctx) {
		return nil
	}
	if IsFlagReferenced(qo.Conditions, m.flag, m.Alias()) {
		return nil
	}
	qo.Conditions = qo.Conditions.Merge(ExclusionPredicate(m.flag, m.Alias(), m.colType))
	return nil
}

// deletionFields 标记删除时写入的全部字段；quote 非空时用于批量更新
func (m *Model) deletionFields(quote func(any) orm.Expr) map[string]any {
	additional := m.additional
	if quote != nil {
		additional = lo.MapValues(m.additional, func(v any, _ string) any { return quote(v) })
	}
	return lo.Assign(DeletionFieldValues(m.flag, m.colType, m.now(), quote), additional)
}

var _ orm.IKeyedInterceptor = (*Model)(nil)
var _ orm.IRecordDeleter = (*Model)(nil)
