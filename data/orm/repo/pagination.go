package repo

import (
	"context"

	"softdel/errors"
	"softdel/softdelete"
)

const defaultPageSize = 20

// ListPage 分页查询，总数与当页数据共享同一组过滤条件
func (r *Repo[T]) ListPage(ctx context.Context, options *PageOptions) (*PagedResult[T], error) {
	if options == nil {
		options = &PageOptions{}
	}
	page, size := max(options.Page, 1), options.Size
	if size <= 0 {
		size = defaultPageSize
	}
	if options.IncludeDeleted {
		ctx = softdelete.WithDeleted(ctx)
	}

	filtered := r.query(ctx).withFilters(options.Filters)
	if options.Advanced != nil {
		filtered = filtered.applyAdvancedFilters(options.Advanced)
	}

	total, err := filtered.Count()
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to count total records")
	}

	q := filtered.applySorting(options, r.model.PrimaryKey())
	var fields []string
	for _, f := range options.Fields {
		if q.isAllowedField(f) {
			fields = append(fields, f)
		}
	}
	if len(fields) > 0 {
		q = q.Select(fields...)
	}

	entities := make([]T, 0, size)
	if err := q.Offset((page - 1) * size).Limit(size).Find(&entities); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to execute paginated query")
	}
	return &PagedResult[T]{
		Data:       entities,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
	}, nil
}
