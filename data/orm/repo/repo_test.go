package repo

import (
	"context"
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbcore "softdel/data/db"
	dbbasic "softdel/data/db/basic"
	"softdel/data/orm"
	ormbasic "softdel/data/orm/basic"
	"softdel/errors"
	"softdel/logging"
	"softdel/softdelete"
)

type note struct {
	ID        int64  `db:"id,pk"`
	Title     string `db:"title"`
	Status    string `db:"status"`
	Score     int64  `db:"score"`
	IsDeleted bool   `db:"is_deleted"`
}

func (note) DeletedFieldName() string { return "is_deleted" }

func (n note) Validate() error {
	if n.Title == "" {
		return stdErrors.New("title required")
	}
	return nil
}

func newTestRepo(t *testing.T) *Repo[note] {
	t.Helper()
	ctx := context.Background()
	database, err := dbbasic.New(dbcore.DBConfig{Driver: "sqlite"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.(*dbbasic.DB).ExecDDL(ctx,
		`CREATE TABLE notes (id INTEGER PRIMARY KEY, title TEXT NOT NULL, status TEXT NOT NULL, score INTEGER NOT NULL DEFAULT 0, is_deleted BOOLEAN NOT NULL DEFAULT 0)`,
	))

	o := ormbasic.New(database, ormbasic.WithLogger(logging.NewNoopLogger()))
	r, err := NewRepo[note](ctx, o, &orm.ModelMeta{Table: "notes", Alias: "Note"},
		softdelete.WithLogger(logging.NewNoopLogger()))
	require.NoError(t, err)

	require.NoError(t, r.AddAll(ctx, []note{
		{ID: 1, Title: "alpha", Status: "open", Score: 10},
		{ID: 2, Title: "beta", Status: "closed", Score: 20},
		{ID: 3, Title: "gamma", Status: "open", Score: 30},
		{ID: 4, Title: "delta", Status: "open", Score: 40, IsDeleted: true},
	}))
	return r
}

func TestRepo_ReadExcludesDeleted(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = r.Get(ctx, 4)
	assert.True(t, errors.IsNotFound(err))

	got, err := r.Get(softdelete.WithDeleted(ctx), 4)
	require.NoError(t, err)
	assert.Equal(t, "delta", got.Title)

	list, err := r.List(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)

	exists, err := r.Exists(ctx, 4)
	require.NoError(t, err)
	assert.False(t, exists)

	byIDs, err := r.ListByIDs(ctx, []any{1, 4})
	require.NoError(t, err)
	assert.Len(t, byIDs, 1)
}

func TestRepo_Filters(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		filters map[string]string
		want    int
	}{
		{"equal", map[string]string{"status": "open"}, 2},
		{"like", map[string]string{"title_like": "mm"}, 1},
		{"greater", map[string]string{"score_gt": "10"}, 2},
		{"range", map[string]string{"score_gte": "20", "score_lte": "30"}, 2},
		{"in", map[string]string{"title_in": "alpha,delta"}, 1},
		{"not in", map[string]string{"title_not_in": "alpha,beta"}, 1},
		{"not equal", map[string]string{"status_ne": "open"}, 1},
		{"unsafe key ignored", map[string]string{"status; DROP TABLE notes": "x"}, 3},
		{"explicit flag", map[string]string{"is_deleted": "1"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Find(ctx, tt.filters)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)

			n, err := r.CountWithFilters(ctx, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, int64(tt.want), n)
		})
	}
}

func TestRepo_ListPage(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	page, err := r.ListPage(ctx, &PageOptions{
		Page:    1,
		Size:    2,
		Sorts:   map[string]SortDirection{"score": DESC},
		Filters: map[string]string{"status": "open"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "gamma", page.Data[0].Title)
	assert.False(t, page.HasNext())

	page, err = r.ListPage(ctx, &PageOptions{
		Size:           2,
		Filters:        map[string]string{"status": "open"},
		IncludeDeleted: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasNext())

	page, err = r.ListPage(ctx, &PageOptions{
		Page:  2,
		Size:  2,
		Order: "asc",
		Advanced: map[string]any{
			"or": []map[string]string{{"status": "closed"}, {"title": "alpha"}, {"title": "delta"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Empty(t, page.Data)
}

func TestParseSortDirection(t *testing.T) {
	d, ok := ParseSortDirection(" desc ")
	assert.True(t, ok)
	assert.Equal(t, DESC, d)
	_, ok = ParseSortDirection("sideways")
	assert.False(t, ok)
}

func TestRepo_WriteAndDelete(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	assert.EqualError(t, r.Add(ctx, note{ID: 9}), "title required")

	require.NoError(t, r.Update(ctx, 1, map[string]any{"status": "closed"}))
	got, err := r.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "closed", got.Status)
	assert.True(t, errors.IsNotFound(r.Update(ctx, 4, map[string]any{"status": "x"})))

	require.NoError(t, r.Delete(ctx, 1))
	assert.True(t, errors.IsNotFound(r.Delete(ctx, 99)))

	require.NoError(t, r.DeleteAll(ctx, []any{2, 3}, softdelete.WithCascade(false)))
	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, r.HardDelete(ctx, 4))
	n, err = r.Count(softdelete.WithDeleted(ctx))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestRepo_SecondRepoOnSameTable(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	other, err := NewRepo[note](ctx, r.Orm(), &orm.ModelMeta{Table: "notes", Alias: "Note"},
		softdelete.WithLogger(logging.NewNoopLogger()))
	require.NoError(t, err)
	other.Model().IncludeDeletedRecords()

	n, err := other.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	n, err = r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
