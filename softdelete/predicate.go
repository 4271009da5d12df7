package softdelete

import (
	"time"

	"softdel/data/db/dialect"
	"softdel/data/orm"
)

// ExclusionPredicate 返回排除已删除记录的条件。
// 布尔标记要求为 false，其余类型要求为 NULL。
func ExclusionPredicate(flag, alias string, colType orm.ColumnType) orm.Conditions {
	key := flag
	if alias != "" {
		key = alias + "." + flag
	}
	if colType == orm.ColumnBoolean {
		return orm.Conditions{key: false}
	}
	return orm.Conditions{key: nil}
}

// DeletionFieldValues 返回标记删除时写入的字段值。
//
// 日期/时间标记写入 now 的格式化值；quote 非空时经其转义，
// 供批量 UPDATE 作为原始表达式使用。
func DeletionFieldValues(flag string, colType orm.ColumnType, now time.Time, quote func(any) orm.Expr) map[string]any {
	var value string
	switch colType {
	case orm.ColumnDateTime:
		value = now.Format(dialect.DateTimeLayout)
	case orm.ColumnDate:
		value = now.Format(dialect.DateLayout)
	default:
		return map[string]any{flag: true}
	}
	if quote != nil {
		return map[string]any{flag: quote(value)}
	}
	return map[string]any{flag: value}
}
