package dialect

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	core "softdel/data/db"
)

// Name 标准化的数据库方言名称
type Name string

const (
	NameMySQL    Name = "mysql"
	NameSQLite   Name = "sqlite"
	NamePostgres Name = "postgres"
	NameUnknown  Name = ""
)

// 字面量渲染使用的时间格式
const (
	DateTimeLayout = "2006-01-02 15:04:05"
	DateLayout     = "2006-01-02"
)

// Dialect 表示当前数据库的方言能力
//
// 只抽象软删除链路实际用到的能力：
//   - 标识符转义与占位符重绑定
//   - 原始 SQL 字面量渲染（批量 UPDATE 需要预先转义的值）
//   - DELETE ... LIMIT 支持情况
type Dialect struct {
	name Name
}

// New 根据字符串构造方言（大小写不敏感）
func New(name string) Dialect {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mysql":
		return Dialect{name: NameMySQL}
	case "sqlite", "sqlite3":
		return Dialect{name: NameSQLite}
	case "postgres", "postgresql", "pgx":
		return Dialect{name: NamePostgres}
	default:
		return Dialect{name: NameUnknown}
	}
}

// FromDatabase 从 IDatabase 实例推断方言
//
// 需要 IDatabase 可选实现 IDialectNameProvider 接口；否则返回 Unknown。
func FromDatabase(db core.IDatabase) Dialect {
	if db == nil {
		return Dialect{name: NameUnknown}
	}
	if p, ok := db.(core.IDialectNameProvider); ok {
		return New(p.GetDialectName())
	}
	return Dialect{name: NameUnknown}
}

// Name 返回标准化方言名
func (d Dialect) Name() Name {
	return d.name
}

// QuoteIdentifier 根据方言对标识符进行转义（如表名/列名）。
//
// 约定：
//   - 支持 table.column 等带点形式，会对每一段分别加引号；
//   - 输入中已有的反引号会先被剥离，再按方言重新加引号；
//   - MySQL 使用反引号，Postgres/SQLite 使用双引号；
//   - Unknown 方言只剥离反引号，不再加引号。
func (d Dialect) QuoteIdentifier(name string) string {
	if name == "" {
		return ""
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), "`\"")
		if p == "" {
			parts[i] = p
			continue
		}
		switch d.name {
		case NameMySQL:
			parts[i] = "`" + p + "`"
		case NameSQLite, NamePostgres:
			parts[i] = `"` + p + `"`
		default:
			parts[i] = p
		}
	}
	return strings.Join(parts, ".")
}

// Quote 将 Go 值渲染为可直接拼入 SQL 的字面量。
//
// 仅用于无法走参数绑定的场景（批量 UPDATE 的 SET 表达式），
// 字符串中的单引号按 SQL 标准加倍转义。
func (d Dialect) Quote(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case bool:
		return d.quoteBool(val)
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case []byte:
		return "'" + strings.ReplaceAll(string(val), "'", "''") + "'"
	case time.Time:
		return "'" + val.Format(DateTimeLayout) + "'"
	case *time.Time:
		if val == nil {
			return "NULL"
		}
		return "'" + val.Format(DateTimeLayout) + "'"
	case int:
		return strconv.Itoa(val)
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return d.Quote(fmt.Sprint(val))
	}
}

func (d Dialect) quoteBool(b bool) string {
	switch d.name {
	case NamePostgres:
		if b {
			return "TRUE"
		}
		return "FALSE"
	default:
		// MySQL/SQLite 的布尔列实际存储为整数
		if b {
			return "1"
		}
		return "0"
	}
}

// Rebind 将通用占位符 ? 转换为方言特定形式。
//
// 目前仅对 Postgres 做替换，将 ? 依次替换为 $1、$2...；其他方言保持原样。
//
// 限制：使用简单字符扫描，不区分字符串字面量中的 ?。
// 由 Quote 渲染出的字面量若包含 ?，在 Postgres 下会被误替换，调用方应避免。
func (d Dialect) Rebind(query string) string {
	if query == "" {
		return query
	}
	switch d.name {
	case NamePostgres:
		var sb strings.Builder
		sb.Grow(len(query) + 4)
		argIndex := 1
		for i := 0; i < len(query); i++ {
			ch := query[i]
			if ch == '?' {
				sb.WriteByte('$')
				sb.WriteString(strconv.Itoa(argIndex))
				argIndex++
			} else {
				sb.WriteByte(ch)
			}
		}
		return sb.String()
	default:
		return query
	}
}

// SupportsDeleteLimit 当前方言是否支持 DELETE ... LIMIT 语法
func (d Dialect) SupportsDeleteLimit() bool {
	return d.name == NameMySQL
}
