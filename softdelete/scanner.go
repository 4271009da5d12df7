package softdelete

import (
	"regexp"

	"softdel/data/orm"
)

// IsFlagReferenced 判断条件树中是否已引用删除标记。
//
// 匹配只针对键：标记名可带别名限定与反引号，可带尾随比较运算符；
// 在 or/and/not 键下递归查找。字符串条件是原始 SQL 片段，不参与匹配。
// 列表中的条件树元素（如 "or": []any{orm.Conditions{"is_deleted": true}}）同样会被检查，
// 命中即视为已引用。
func IsFlagReferenced(conditions any, flag, alias string) bool {
	if flag == "" {
		return false
	}
	return scanConditions(conditions, flagPattern(flag, alias))
}

func flagPattern(flag, alias string) *regexp.Regexp {
	name := regexp.QuoteMeta(flag)
	ref := name
	if alias != "" {
		ref = name + "|`?" + regexp.QuoteMeta(alias) + "`?\\.`?" + name + "`?"
	}
	return regexp.MustCompile("(?i)^\\s*`?(?:" + ref + ")`?\\s*(?:[><=]*|LIKE)\\s*$")
}

func scanConditions(conditions any, re *regexp.Regexp) bool {
	switch c := conditions.(type) {
	case orm.Conditions:
		return scanTree(c, re)
	case map[string]any:
		return scanTree(c, re)
	case []orm.Conditions:
		for _, sub := range c {
			if scanTree(sub, re) {
				return true
			}
		}
	case []map[string]any:
		for _, sub := range c {
			if scanTree(sub, re) {
				return true
			}
		}
	case []any:
		for _, el := range c {
			if scanConditions(el, re) {
				return true
			}
		}
	}
	// nil、string、[]string 等原始片段
	return false
}

func scanTree(tree map[string]any, re *regexp.Regexp) bool {
	for key, value := range tree {
		if re.MatchString(key) {
			return true
		}
		if _, logical := orm.LogicalOperator(key); logical && scanConditions(value, re) {
			return true
		}
	}
	return false
}
