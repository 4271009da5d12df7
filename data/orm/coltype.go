package orm

import "strings"

// ColumnType 删除标记等字段在存储层的类型分类。
type ColumnType int

const (
	ColumnOther ColumnType = iota
	ColumnBoolean
	ColumnDate
	ColumnDateTime
)

func (t ColumnType) String() string {
	switch t {
	case ColumnBoolean:
		return "boolean"
	case ColumnDate:
		return "date"
	case ColumnDateTime:
		return "datetime"
	default:
		return "other"
	}
}

// ParseColumnType 将驱动报告的数据库类型名归类。
//
// MySQL 的 TINYINT 按 TINYINT(1) 布尔列处理，驱动不回报长度。
func ParseColumnType(dbType string) ColumnType {
	t := strings.ToUpper(strings.TrimSpace(dbType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	switch t {
	case "BOOL", "BOOLEAN", "TINYINT", "BIT":
		return ColumnBoolean
	case "DATE":
		return ColumnDate
	case "DATETIME", "TIMESTAMP", "TIMESTAMPTZ", "TIMESTAMP WITH TIME ZONE", "TIMESTAMP WITHOUT TIME ZONE":
		return ColumnDateTime
	default:
		return ColumnOther
	}
}
