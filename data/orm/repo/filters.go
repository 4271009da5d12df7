package repo

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"softdel/data/orm"
)

// filterSuffixes 过滤键后缀到条件运算符
var filterSuffixes = []struct {
	suffix string
	op     string
}{
	{"_not_in", " NOT IN"},
	{"_like", " LIKE"},
	{"_gte", " >="},
	{"_lte", " <="},
	{"_gt", " >"},
	{"_lt", " <"},
	{"_ne", " !="},
	{"_in", ""},
}

// withFilters 将 URL 风格的过滤参数转换为条件树。
//
// 支持后缀 _like/_gt/_gte/_lt/_lte/_ne/_in/_not_in，无后缀为等值；
// 未通过字段检查的键被忽略。显式引用删除标记的过滤不会再被排除条件覆盖。
func (q *queryBuilder) withFilters(filters map[string]string) *queryBuilder {
	if len(filters) == 0 {
		return q
	}
	c := make(orm.Conditions, len(filters))
	for key, value := range filters {
		field, op := splitFilterKey(key)
		if !q.isAllowedField(field) {
			continue
		}
		switch op {
		case " LIKE":
			c[field+op] = "%" + value + "%"
		case "", " NOT IN":
			if strings.HasSuffix(key, "_in") {
				c[field+op] = strings.Split(value, ",")
				continue
			}
			c[field] = value
		default:
			c[field+op] = value
		}
	}
	return q.Where(c)
}

func splitFilterKey(key string) (field, op string) {
	for _, s := range filterSuffixes {
		if strings.HasSuffix(key, s.suffix) && len(key) > len(s.suffix) {
			return strings.TrimSuffix(key, s.suffix), s.op
		}
	}
	return key, ""
}

// applyAdvancedFilters 支持 or（任一组条件成立）与 custom_where（原始片段）
func (q *queryBuilder) applyAdvancedFilters(advanced map[string]any) *queryBuilder {
	if groups, ok := advanced["or"].([]map[string]string); ok {
		var alternatives []orm.Conditions
		for _, g := range groups {
			group := make(orm.Conditions, len(g))
			for field, value := range g {
				if q.isAllowedField(field) {
					group[field] = value
				}
			}
			if len(group) > 0 {
				alternatives = append(alternatives, group)
			}
		}
		if len(alternatives) > 0 {
			q = q.Where(orm.Conditions{"OR": alternatives})
		}
	}
	if custom, ok := advanced["custom_where"].(map[string]any); ok {
		if expr, ok := custom["query"].(string); ok && expr != "" {
			args, _ := custom["args"].([]any)
			q = q.WhereRaw(expr, args...)
		}
	}
	return q
}

// applySorting 多字段排序按字段名排列以保证稳定
func (q *queryBuilder) applySorting(options *PageOptions, defaultField string) *queryBuilder {
	if len(options.Sorts) > 0 {
		fields := lo.Keys(options.Sorts)
		sort.Strings(fields)
		for _, field := range fields {
			direction, ok := ParseSortDirection(string(options.Sorts[field]))
			if ok && q.isAllowedField(field) {
				q = q.Order(field, direction == DESC)
			}
		}
		return q
	}
	if options.Order != "" {
		field := defaultField
		if len(options.Fields) > 0 && q.isAllowedField(options.Fields[0]) {
			field = options.Fields[0]
		}
		q = q.Order(field, strings.EqualFold(options.Order, "desc"))
	}
	return q
}
