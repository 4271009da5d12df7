package softdelete

import (
	"context"
	stdErrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbcore "softdel/data/db"
	dbbasic "softdel/data/db/basic"
	"softdel/data/orm"
	ormbasic "softdel/data/orm/basic"
	"softdel/data/orm/event"
	"softdel/errors"
	"softdel/logging"
)

const (
	descrOK      = "normal"
	descrDeleted = "deleted"
)

var schema = []string{
	`CREATE TABLE authors (id INTEGER PRIMARY KEY, name TEXT NOT NULL, item_count INTEGER NOT NULL DEFAULT 0)`,
	`CREATE TABLE items (
		id INTEGER PRIMARY KEY,
		author_id INTEGER,
		name TEXT NOT NULL,
		is_deleted BOOLEAN NOT NULL DEFAULT 0,
		description TEXT NOT NULL DEFAULT 'normal'
	)`,
	`CREATE TABLE items_with_dates (id INTEGER PRIMARY KEY, name TEXT NOT NULL, date_deleted DATETIME NULL)`,
	`CREATE TABLE items_with_days (id INTEGER PRIMARY KEY, name TEXT NOT NULL, day_deleted DATE NULL)`,
	`CREATE TABLE comments (id INTEGER PRIMARY KEY, item_id INTEGER NOT NULL, body TEXT, is_deleted BOOLEAN NOT NULL DEFAULT 0)`,
	`CREATE TABLE items_tags (item_id INTEGER NOT NULL, tag_id INTEGER NOT NULL)`,
}

var fixtures = []string{
	`INSERT INTO authors (id, name, item_count) VALUES (1, 'ann', 2)`,
	`INSERT INTO items (id, author_id, name, is_deleted, description) VALUES
		(1, 1, 'A', 0, 'normal'), (2, 1, 'B', 1, 'deleted'), (3, 1, 'C', 0, 'normal')`,
	`INSERT INTO items_with_dates (id, name, date_deleted) VALUES
		(1, 'A', NULL), (2, 'B', '2014-01-01 01:01:01'), (3, 'C', NULL)`,
	`INSERT INTO items_with_days (id, name, day_deleted) VALUES
		(1, 'A', NULL), (2, 'B', '2014-01-01'), (3, 'C', NULL)`,
	`INSERT INTO comments (id, item_id, body) VALUES (1, 1, 'x'), (2, 1, 'y'), (3, 3, 'z')`,
	`INSERT INTO items_tags (item_id, tag_id) VALUES (1, 1), (1, 2), (3, 1)`,
}

type Item struct {
	ID          int64  `db:"id,pk"`
	AuthorID    int64  `db:"author_id"`
	Name        string `db:"name"`
	IsDeleted   bool   `db:"is_deleted"`
	Description string `db:"description"`
}

func (Item) DeletedFieldName() string { return "is_deleted" }

func (Item) AdditionalFieldsOnDelete() map[string]any {
	return map[string]any{"description": descrDeleted}
}

type ItemWithDate struct {
	ID   int64  `db:"id,pk"`
	Name string `db:"name"`
}

func (*ItemWithDate) DeletedFieldName() string { return "date_deleted" }

type Comment struct {
	ID     int64 `db:"id,pk"`
	ItemID int64 `db:"item_id"`
}

func (Comment) DeletedFieldName() string { return "is_deleted" }

func itemMeta() *orm.ModelMeta {
	return &orm.ModelMeta{
		Model: Item{},
		Table: "items",
		Alias: "Item",
		Associations: []orm.AssociationMeta{
			{Name: "Author", Kind: orm.AssociationBelongsTo, TargetTable: "authors", ForeignKey: "author_id", CounterCache: "item_count"},
			{Name: "Comments", Kind: orm.AssociationHasMany, TargetTable: "comments", ForeignKey: "item_id", Dependent: true},
			{Name: "Tags", Kind: orm.AssociationManyToMany, JoinTable: "items_tags", JoinForeignKey: "item_id"},
		},
	}
}

type fixture struct {
	db       dbcore.IDatabase
	orm      orm.IOrm
	items    *Model
	dated    *Model
	comments *Model
}

var clock = time.Date(2024, 3, 5, 7, 8, 9, 0, time.Local)

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()

	database, err := dbbasic.New(dbcore.DBConfig{Driver: "sqlite"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	db := database.(*dbbasic.DB)
	require.NoError(t, db.ExecDDL(ctx, schema...))
	require.NoError(t, db.ExecDDL(ctx, fixtures...))

	o := ormbasic.New(db, ormbasic.WithLogger(logging.NewNoopLogger()))
	opts = append([]Option{WithLogger(logging.NewNoopLogger())}, opts...)

	f := &fixture{db: db, orm: o}
	f.items, err = New(ctx, o.Model(itemMeta()), opts...)
	require.NoError(t, err)
	f.dated, err = New(ctx, o.Model(&orm.ModelMeta{Model: (*ItemWithDate)(nil), Table: "items_with_dates", Alias: "ItemWithDate"}), opts...)
	require.NoError(t, err)
	f.comments, err = New(ctx, o.Model(&orm.ModelMeta{Model: Comment{}, Table: "comments", Alias: "Comment"}), opts...)
	require.NoError(t, err)
	return f
}

// ids 按主键顺序返回可见记录的主键
func ids(t *testing.T, ctx context.Context, m *Model) []int64 {
	t.Helper()
	var rows []map[string]any
	require.NoError(t, m.Find(ctx, &rows,
		orm.WithSelect(m.Alias()+"."+m.PrimaryKey()),
		orm.WithOrderBy(m.PrimaryKey(), false),
	))
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r[m.PrimaryKey()].(int64))
	}
	return out
}

func scalar(t *testing.T, db dbcore.IDatabase, query string, args ...any) any {
	t.Helper()
	var v any
	require.NoError(t, db.QueryRow(context.Background(), query, args...).Scan(&v))
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func count(t *testing.T, db dbcore.IDatabase, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.QueryRow(context.Background(), query, args...).Scan(&n))
	return n
}

// wallClock 驱动可能把 DATETIME 列解析为 UTC 时间或原样返回文本，统一按本地墙上时间读取
func wallClock(t *testing.T, v any) time.Time {
	t.Helper()
	switch x := v.(type) {
	case time.Time:
		return time.Date(x.Year(), x.Month(), x.Day(), x.Hour(), x.Minute(), x.Second(), 0, time.Local)
	case string:
		ts, err := time.ParseInLocation("2006-01-02 15:04:05", x, time.Local)
		require.NoError(t, err)
		return ts
	default:
		t.Fatalf("unexpected timestamp value %T", v)
		return time.Time{}
	}
}

func TestNew_ResolvesFlag(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "is_deleted", f.items.FlagName())
	assert.Equal(t, orm.ColumnBoolean, f.items.FlagType())
	assert.Equal(t, "date_deleted", f.dated.FlagName())
	assert.Equal(t, orm.ColumnDateTime, f.dated.FlagType())

	ctx := context.Background()
	days, err := New(ctx, f.orm.Model(&orm.ModelMeta{Table: "items_with_days", Alias: "Day"}), WithFieldName("day_deleted"))
	require.NoError(t, err)
	assert.Equal(t, orm.ColumnDate, days.FlagType())

	_, err = New(ctx, f.orm.Model(&orm.ModelMeta{Table: "authors"}))
	assert.True(t, errors.IsErrorCode(err, errors.ErrCodeInvalidInput))

	_, err = New(ctx, nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCodeInvalidInput))
}

func TestModel_FindsOnlyNondeletedRecords(t *testing.T) {
	f := newFixture(t, WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	assert.Equal(t, []int64{1, 3}, ids(t, ctx, f.items))
	ok, err := f.items.Delete(ctx, 1, true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int64{3}, ids(t, ctx, f.items))

	assert.Equal(t, []int64{1, 3}, ids(t, ctx, f.dated))
	ok, err = f.dated.Delete(ctx, 1, true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int64{3}, ids(t, ctx, f.dated))

	n, err := f.items.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestModel_IncludeAndExcludeDeletedRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.items.IncludeDeletedRecords()
	assert.True(t, f.items.IncludesDeletedRecords())
	assert.Equal(t, []int64{1, 2, 3}, ids(t, ctx, f.items))

	f.items.ExcludeDeletedRecords()
	assert.Equal(t, []int64{1, 3}, ids(t, ctx, f.items))

	// 上下文模式只影响本次调用
	assert.Equal(t, []int64{1, 2, 3}, ids(t, WithDeleted(ctx), f.items))
	assert.Equal(t, []int64{1, 3}, ids(t, ctx, f.items))
	assert.False(t, IncludesDeleted(ctx))

	// 宿主的其他入口共享拦截器
	var rows []Item
	require.NoError(t, f.orm.Model(itemMeta()).Find(ctx, &rows))
	assert.Len(t, rows, 2)
}

func TestModel_ExplicitFlagConditionIsNotOverridden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var deleted []Item
	require.NoError(t, f.items.Find(ctx, &deleted, orm.WithConditions(orm.Conditions{"Item.is_deleted": true})))
	require.Len(t, deleted, 1)
	assert.Equal(t, "B", deleted[0].Name)

	var all []Item
	require.NoError(t, f.items.Find(ctx, &all, orm.WithConditions(orm.Conditions{"`Item`.`is_deleted` >=": 0})))
	assert.Len(t, all, 3)

	var either []Item
	require.NoError(t, f.items.Find(ctx, &either, orm.WithConditions(orm.Conditions{
		"OR": orm.Conditions{"Item.is_deleted": true, "Item.id": 1},
	})))
	assert.Len(t, either, 2)

	var dated []map[string]any
	require.NoError(t, f.dated.Find(ctx, &dated, orm.WithConditions(orm.Conditions{"ItemWithDate.date_deleted >": "2000-01-01 00:00:00"})))
	require.Len(t, dated, 1)
	assert.Equal(t, int64(2), dated[0]["id"])
}

func TestModel_DeleteSetsFieldValues(t *testing.T) {
	f := newFixture(t, WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	ok, err := f.items.Delete(ctx, 1, true)
	require.NoError(t, err)
	require.True(t, ok)

	f.items.IncludeDeletedRecords()
	var item Item
	require.NoError(t, f.items.First(ctx, &item, orm.WithConditions(orm.Conditions{"Item.id": 1})))
	assert.True(t, item.IsDeleted)
	assert.Equal(t, descrDeleted, item.Description)
	assert.Equal(t, "A", item.Name)

	ok, err = f.dated.Delete(ctx, 1, true)
	require.NoError(t, err)
	require.True(t, ok)
	stamp := wallClock(t, scalar(t, f.db, `SELECT date_deleted FROM items_with_dates WHERE id = 1`))
	assert.True(t, clock.Equal(stamp), "got %s", stamp)
}

func TestModel_DeleteWithDateFlag(t *testing.T) {
	f := newFixture(t, WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	days, err := New(ctx, f.orm.Model(&orm.ModelMeta{Table: "items_with_days", Alias: "Day"}),
		WithFieldName("day_deleted"), WithClock(func() time.Time { return clock }), WithLogger(logging.NewNoopLogger()))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(t, ctx, days))

	ok, err := days.Delete(ctx, 1, true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int64{3}, ids(t, ctx, days))
	assert.Equal(t, int64(1), count(t, f.db, `SELECT COUNT(*) FROM items_with_days WHERE id = 1 AND day_deleted = ?`, "2024-03-05"))

	ok, err = days.DeleteAll(ctx, orm.Conditions{"Day.id": 3})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, ids(t, ctx, days))
	assert.Equal(t, int64(1), count(t, f.db, `SELECT COUNT(*) FROM items_with_days WHERE id = 3 AND day_deleted = '2024-03-05'`))
}

func TestModel_InstancesOnSameTableKeepTheirOwnMode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	second, err := New(ctx, f.orm.Model(itemMeta()), WithLogger(logging.NewNoopLogger()))
	require.NoError(t, err)
	second.IncludeDeletedRecords()
	assert.Equal(t, []int64{1, 2, 3}, ids(t, ctx, second))
	assert.Equal(t, []int64{1, 3}, ids(t, ctx, f.items))

	n, err := second.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	// 宿主入口使用最后创建的实例，重复创建不会叠加排除条件
	for i := 0; i < 3; i++ {
		_, err := New(ctx, f.orm.Model(itemMeta()), WithLogger(logging.NewNoopLogger()))
		require.NoError(t, err)
	}
	last, err := New(ctx, f.orm.Model(itemMeta()), WithLogger(logging.NewNoopLogger()))
	require.NoError(t, err)
	last.IncludeDeletedRecords()

	var rows []Item
	require.NoError(t, f.orm.Model(itemMeta()).Find(ctx, &rows))
	assert.Len(t, rows, 3)

	last.ExcludeDeletedRecords()
	rows = nil
	require.NoError(t, f.orm.Model(itemMeta()).Find(ctx, &rows))
	assert.Len(t, rows, 2)
	assert.Equal(t, []int64{1, 2, 3}, ids(t, ctx, second))
}

func TestModel_DeleteUsesCurrentTime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before := time.Now()
	ok, err := f.dated.Delete(ctx, 1, true)
	require.NoError(t, err)
	require.True(t, ok)

	stamp := wallClock(t, scalar(t, f.db, `SELECT date_deleted FROM items_with_dates WHERE id = 1`))
	assert.Equal(t, before.Format("2006-01-02"), stamp.Format("2006-01-02"))
	assert.WithinDuration(t, before, stamp, 2*time.Second)
}

func TestModel_DeleteUsesCurrentID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ok, err := f.items.Delete(ctx, nil, true)
	require.NoError(t, err)
	assert.False(t, ok, "未设置当前记录")

	f.items.SetID(3)
	ok, err = f.items.Delete(ctx, nil, true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, f.items.ID())
	assert.Equal(t, []int64{1}, ids(t, ctx, f.items))

	ok, err = f.items.Delete(ctx, 99, true)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 99, f.items.ID(), "失败时保留当前记录")
}

func TestModel_DeleteCascadesSoftlyAndUpdatesCounter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var names []string
	f.items.Events().On(event.Wildcard, func(ctx context.Context, evt *event.Event) error {
		names = append(names, evt.Name)
		if evt.Name == orm.EventAfterDelete {
			assert.Equal(t, false, evt.Data["hard"])
		}
		return nil
	})

	ok, err := f.items.Delete(ctx, 1, true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{orm.EventBeforeDelete, orm.EventAfterDelete}, names)

	// 子记录经注册的软删除模型处理，物理行仍在
	assert.Equal(t, int64(3), count(t, f.db, `SELECT COUNT(*) FROM comments`))
	assert.Equal(t, []int64{3}, ids(t, ctx, f.comments))
	assert.Equal(t, int64(0), count(t, f.db, `SELECT COUNT(*) FROM items_tags WHERE item_id = 1`))
	assert.Equal(t, int64(1), count(t, f.db, `SELECT COUNT(*) FROM items_tags`))
	assert.Equal(t, int64(1), count(t, f.db, `SELECT item_count FROM authors WHERE id = 1`))
}

func TestModel_DeleteWithoutCascadeKeepsChildren(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ok, err := f.items.Delete(ctx, 1, false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int64{1, 2, 3}, ids(t, ctx, f.comments))
	assert.Equal(t, int64(0), count(t, f.db, `SELECT COUNT(*) FROM items_tags WHERE item_id = 1`))
}

func TestModel_DeleteCancelledByListener(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.items.Events().On(orm.EventBeforeDelete, func(ctx context.Context, evt *event.Event) error {
		assert.Equal(t, true, evt.Data["cascade"])
		evt.Result = false
		return nil
	})
	ok, err := f.items.Delete(ctx, 1, true)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []int64{1, 3}, ids(t, ctx, f.items))
	assert.Equal(t, int64(3), count(t, f.db, `SELECT COUNT(*) FROM items_tags`))
	f.items.Events().Off(orm.EventBeforeDelete, id)

	boom := stdErrors.New("listener failed")
	f.items.Events().On(orm.EventBeforeDelete, func(ctx context.Context, evt *event.Event) error { return boom })
	ok, err = f.items.Delete(ctx, 1, true)
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
}

func TestModel_HardDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var hard []any
	f.items.Events().On(orm.EventAfterDelete, func(ctx context.Context, evt *event.Event) error {
		hard = append(hard, evt.Data["hard"])
		return nil
	})

	ok, err := f.items.HardDelete(ctx, 1, true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []any{true}, hard)

	f.items.IncludeDeletedRecords()
	var item Item
	err = f.items.First(ctx, &item, orm.WithConditions(orm.Conditions{"Item.id": 1}))
	assert.ErrorIs(t, err, orm.ErrNotFound)
	assert.Equal(t, []int64{2, 3}, ids(t, ctx, f.items))

	// 级联的子记录仍走软删除
	assert.Equal(t, int64(3), count(t, f.db, `SELECT COUNT(*) FROM comments`))
	assert.Equal(t, []int64{3}, ids(t, ctx, f.comments))
	assert.Equal(t, int64(1), count(t, f.db, `SELECT item_count FROM authors WHERE id = 1`))

	// 已软删除的记录同样可以物理删除
	ok, err = f.items.HardDelete(ctx, 2, false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1), count(t, f.db, `SELECT COUNT(*) FROM items`))
}

func TestModel_DeleteAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ok, err := f.items.DeleteAll(ctx, orm.Conditions{"Item.id": []int{1, 3}})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, ids(t, ctx, f.items))

	f.items.IncludeDeletedRecords()
	var item Item
	require.NoError(t, f.items.First(ctx, &item, orm.WithConditions(orm.Conditions{"Item.id": 1})))
	assert.True(t, item.IsDeleted)
	assert.Equal(t, descrDeleted, item.Description)

	// 默认级联：子记录软删除、中间表清理
	assert.Empty(t, ids(t, ctx, f.comments))
	assert.Equal(t, int64(0), count(t, f.db, `SELECT COUNT(*) FROM items_tags`))
}

func TestModel_DeleteAllWithDateFlag(t *testing.T) {
	f := newFixture(t, WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	ok, err := f.dated.DeleteAll(ctx, orm.Conditions{"ItemWithDate.name": []string{"A", "C"}})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, ids(t, ctx, f.dated))

	stamp := wallClock(t, scalar(t, f.db, `SELECT date_deleted FROM items_with_dates WHERE id = 3`))
	assert.True(t, clock.Equal(stamp), "got %s", stamp)
	// 已删除的记录不参与匹配，原删除时间不变
	old := wallClock(t, scalar(t, f.db, `SELECT date_deleted FROM items_with_dates WHERE id = 2`))
	assert.Equal(t, 2014, old.Year())
}

func TestModel_DeleteAllGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ok, err := f.items.DeleteAll(ctx, nil)
	require.NoError(t, err)
	assert.False(t, ok, "空条件不执行删除")
	assert.Equal(t, []int64{1, 3}, ids(t, ctx, f.items))

	ok, err = f.items.DeleteAll(ctx, orm.Conditions{"Item.id": 99})
	require.NoError(t, err)
	assert.True(t, ok, "无匹配记录视为成功")
}

func TestModel_DeleteAllWithoutCascadeOrCallbacks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var fired int
	f.items.Events().On(event.Wildcard, func(ctx context.Context, evt *event.Event) error {
		fired++
		return nil
	})

	ok, err := f.items.DeleteAll(ctx, orm.Conditions{"Item.author_id": 1}, WithCascade(false))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, ids(t, ctx, f.items))
	assert.Zero(t, fired)
	assert.Equal(t, []int64{1, 2, 3}, ids(t, ctx, f.comments))
	assert.Equal(t, int64(3), count(t, f.db, `SELECT COUNT(*) FROM items_tags`))
	assert.Equal(t, int64(2), count(t, f.db, `SELECT COUNT(*) FROM items WHERE id IN (1, 3) AND description = 'deleted'`))
}

func TestModel_DeleteAllWithCallbacks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var deleted []any
	f.items.Events().On(orm.EventAfterDelete, func(ctx context.Context, evt *event.Event) error {
		deleted = append(deleted, evt.Data["id"])
		return nil
	})

	f.items.SetID(42)
	ok, err := f.items.DeleteAll(ctx, orm.Conditions{"Item.id": []int{1, 3}}, WithCallbacks(true), WithCascade(false))
	require.NoError(t, err)
	require.True(t, ok)
	assert.ElementsMatch(t, []any{int64(1), int64(3)}, deleted)
	assert.Equal(t, 42, f.items.ID(), "恢复调用前的当前记录")
	assert.Empty(t, ids(t, ctx, f.items))
	// 逐条删除时中间表总是清理，计数缓存随之重算
	assert.Equal(t, int64(0), count(t, f.db, `SELECT COUNT(*) FROM items_tags`))
	assert.Equal(t, int64(0), count(t, f.db, `SELECT item_count FROM authors WHERE id = 1`))
}

func TestModel_DeleteAllWithCallbacksStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.items.Events().On(orm.EventBeforeDelete, func(ctx context.Context, evt *event.Event) error {
		if evt.Data["id"] == int64(3) {
			evt.Result = false
		}
		return nil
	})

	ok, err := f.items.DeleteAll(ctx, orm.Conditions{"Item.id": []int{1, 3}}, WithCallbacks(true))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, ids(t, ctx, f.items), int64(3))
}

func TestModel_NewRequiresInterceptorCapability(t *testing.T) {
	f := newFixture(t)
	host := noInterceptorModel{IModel: f.orm.Model(itemMeta())}
	_, err := New(context.Background(), host)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCodeUnsupported))
}

type noInterceptorModel struct {
	orm.IModel
}

func (noInterceptorModel) Capabilities() orm.Capabilities {
	return orm.NewCapabilities(orm.CapabilityBasicCRUD, orm.CapabilityQuery)
}
