package repo

import (
	"regexp"
	"strings"
)

// 单一标识符或 alias.column 形式
var safeFieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func isSafeFieldName(name string) bool {
	return safeFieldPattern.MatchString(name)
}

// isAllowedField 字段名语法安全，且属于模型元数据中的字段（可带本模型别名）。
//
// 模型未声明字段元数据时，只要名称语法安全即视为允许。
func (q *queryBuilder) isAllowedField(field string) bool {
	if !isSafeFieldName(field) {
		return false
	}
	meta := q.model.Meta()
	if meta == nil || len(meta.Fields) == 0 {
		return true
	}
	if alias, column, ok := strings.Cut(field, "."); ok {
		if alias != q.model.Alias() {
			return false
		}
		field = column
	}
	_, ok := meta.Field(field)
	return ok
}
