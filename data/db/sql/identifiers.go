package sql

import (
	"fmt"
	"regexp"
	"strings"

	"softdel/data/db/dialect"
)

// 单段或以点分隔的多段 ASCII 标识符
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

func isSafeIdentifier(name string) bool {
	return identPattern.MatchString(name)
}

// quoteIdents 校验并转义标识符，以 ", " 连接
func quoteIdents(d dialect.Dialect, kind string, names ...string) (string, error) {
	quoted := make([]string, len(names))
	for i, n := range names {
		if !isSafeIdentifier(n) {
			return "", fmt.Errorf("sql: unsafe %s name %q", kind, n)
		}
		quoted[i] = d.QuoteIdentifier(n)
	}
	return strings.Join(quoted, ", "), nil
}

// mustBuild Build 的公共实现：构建失败视为调用方编程错误
func mustBuild(build func() (string, []any, error)) (string, []any) {
	q, args, err := build()
	if err != nil {
		panic(err)
	}
	return q, args
}
