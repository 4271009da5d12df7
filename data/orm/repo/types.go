package repo

import "strings"

// SortDirection 排序方向
type SortDirection string

const (
	ASC  SortDirection = "ASC"
	DESC SortDirection = "DESC"
)

// ParseSortDirection 忽略大小写解析排序方向，无法识别时返回 false
func ParseSortDirection(s string) (SortDirection, bool) {
	d := SortDirection(strings.ToUpper(strings.TrimSpace(s)))
	return d, d == ASC || d == DESC
}

// PageOptions 分页查询选项。
//
// Filters 的键支持 _like/_gt/_gte/_lt/_lte/_ne/_in/_not_in 后缀；
// Advanced 支持 "or"（[]map[string]string）与 "custom_where"。
type PageOptions struct {
	Page           int                      `json:"page"`
	Size           int                      `json:"size"`
	Order          string                   `json:"order"`
	Fields         []string                 `json:"fields"`
	Sorts          map[string]SortDirection `json:"sorts"`
	Filters        map[string]string        `json:"filters"`
	Advanced       map[string]any           `json:"advanced"`
	IncludeDeleted bool                     `json:"include_deleted"`
}

// PagedResult 分页结果
type PagedResult[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalPages int   `json:"total_pages"`
}

func (p *PagedResult[T]) HasNext() bool { return p.Page < p.TotalPages }
