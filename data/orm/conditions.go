package orm

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
)

// Conditions 结构化条件树。
//
// 键的形式：
//   - 字段引用，可带别名与反引号，可带尾随运算符：
//     "is_deleted"、"Item.id >="、"`Item`.`name` LIKE"、"id NOT IN"；
//   - 逻辑组合 "or" / "and" / "not"（大小写不敏感），值为子树，
//     或由子树与原始 SQL 片段组成的列表。
//
// 值的约定：nil 编译为 IS NULL，切片编译为 IN，Expr 原样拼接，其余绑定为参数。
type Conditions map[string]any

// Expr 原始 SQL 表达式，编译时原样拼接而不绑定参数。
type Expr string

// Merge 返回合并后的新条件树；c 中已存在的键不会被 other 覆盖。
func (c Conditions) Merge(other Conditions) Conditions {
	out := make(Conditions, len(c)+len(other))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range other {
		if _, exists := out[k]; !exists {
			out[k] = v
		}
	}
	return out
}

// LogicalOperator 判断键是否为逻辑组合键，返回大写的 AND / OR / NOT。
func LogicalOperator(key string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "and":
		return "AND", true
	case "or":
		return "OR", true
	case "not":
		return "NOT", true
	}
	return "", false
}

var fieldKeyPattern = regexp.MustCompile(`(?i)^\s*([^\s<>=!]+)\s*(>=|<=|<>|!=|>|<|=|not\s+like|like|not\s+in|in)?\s*$`)

var spaces = regexp.MustCompile(`\s+`)

// ParseFieldKey 拆分字段键为字段引用与运算符（运算符已大写，可能为空）。
func ParseFieldKey(key string) (field, op string, ok bool) {
	m := fieldKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.ToUpper(spaces.ReplaceAllString(m[2], " ")), true
}

// CompileConditions 将条件树编译为 WHERE 片段与参数。
//
// 同一层级的键按字典序输出，保证生成的 SQL 稳定；quote 用于转义字段引用。
func CompileConditions(c Conditions, quote func(string) string) (string, []any, error) {
	if len(c) == 0 {
		return "", nil, nil
	}
	if quote == nil {
		quote = func(s string) string { return strings.ReplaceAll(s, "`", "") }
	}
	parts, args, err := compileGroup(c, quote)
	if err != nil {
		return "", nil, err
	}
	return strings.Join(parts, " AND "), args, nil
}

func compileGroup(m map[string]any, quote func(string) string) ([]string, []any, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	var args []any
	for _, k := range keys {
		var (
			expr string
			a    []any
			err  error
		)
		if op, ok := LogicalOperator(k); ok {
			expr, a, err = compileLogical(op, m[k], quote)
		} else {
			expr, a, err = compileField(k, m[k], quote)
		}
		if err != nil {
			return nil, nil, err
		}
		if expr != "" {
			parts = append(parts, expr)
			args = append(args, a...)
		}
	}
	return parts, args, nil
}

func compileLogical(op string, v any, quote func(string) string) (string, []any, error) {
	var items []string
	var args []any

	addGroup := func(m map[string]any) error {
		parts, a, err := compileGroup(m, quote)
		if err != nil {
			return err
		}
		switch len(parts) {
		case 0:
		case 1:
			items = append(items, parts[0])
		default:
			items = append(items, "("+strings.Join(parts, " AND ")+")")
		}
		args = append(args, a...)
		return nil
	}

	switch val := v.(type) {
	case Conditions:
		parts, a, err := compileGroup(val, quote)
		if err != nil {
			return "", nil, err
		}
		items, args = parts, a
	case map[string]any:
		parts, a, err := compileGroup(val, quote)
		if err != nil {
			return "", nil, err
		}
		items, args = parts, a
	case string:
		items = append(items, "("+val+")")
	case []string:
		for _, s := range val {
			items = append(items, "("+s+")")
		}
	case []Conditions:
		for _, c := range val {
			if err := addGroup(c); err != nil {
				return "", nil, err
			}
		}
	case []any:
		for _, el := range val {
			switch e := el.(type) {
			case string:
				items = append(items, "("+e+")")
			case Expr:
				items = append(items, "("+string(e)+")")
			case Conditions:
				if err := addGroup(e); err != nil {
					return "", nil, err
				}
			case map[string]any:
				if err := addGroup(e); err != nil {
					return "", nil, err
				}
			default:
				return "", nil, fmt.Errorf("%w: unsupported %s element %T", ErrInvalidCondition, op, el)
			}
		}
	default:
		return "", nil, fmt.Errorf("%w: unsupported %s value %T", ErrInvalidCondition, op, v)
	}

	if len(items) == 0 {
		return "", nil, nil
	}
	if op == "NOT" {
		return "NOT (" + strings.Join(items, " AND ") + ")", args, nil
	}
	return "(" + strings.Join(items, " "+op+" ") + ")", args, nil
}

func compileField(key string, v any, quote func(string) string) (string, []any, error) {
	field, op, ok := ParseFieldKey(key)
	if !ok {
		return "", nil, fmt.Errorf("%w: key %q", ErrInvalidCondition, key)
	}
	col := quote(field)
	negated := op == "!=" || op == "<>" || op == "NOT IN"

	if v == nil {
		switch {
		case negated:
			return col + " IS NOT NULL", nil, nil
		case op == "" || op == "=" || op == "IN":
			return col + " IS NULL", nil, nil
		}
		return "", nil, fmt.Errorf("%w: operator %s with nil value on %q", ErrInvalidCondition, op, key)
	}

	if e, isExpr := v.(Expr); isExpr {
		if op == "" {
			op = "="
		}
		return col + " " + op + " " + string(e), nil, nil
	}

	if values, isList := listValues(v); isList {
		if op != "" && op != "=" && op != "IN" && !negated {
			return "", nil, fmt.Errorf("%w: operator %s with list value on %q", ErrInvalidCondition, op, key)
		}
		if len(values) == 0 {
			if negated {
				return "1 = 1", nil, nil
			}
			return "1 = 0", nil, nil
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
		if negated {
			return col + " NOT IN (" + placeholders + ")", values, nil
		}
		return col + " IN (" + placeholders + ")", values, nil
	}

	switch op {
	case "":
		op = "="
	case "IN":
		op = "="
	case "NOT IN":
		op = "!="
	}
	return col + " " + op + " ?", []any{v}, nil
}

// listValues 将切片/数组值展开；[]byte 视为标量。
func listValues(v any) ([]any, bool) {
	if _, isBytes := v.([]byte); isBytes {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
