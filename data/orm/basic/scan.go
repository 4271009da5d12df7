package basic

import (
	"fmt"
	"reflect"
	"strings"

	dbcore "softdel/data/db"
)

// ------------------------------------------------------------------------
// 结构体元信息与扫描工具
// ------------------------------------------------------------------------

type fieldInfo struct {
	Column        string
	Index         []int
	PrimaryKey    bool
	AutoIncrement bool
}

type structMeta struct {
	typ          reflect.Type
	fields       []fieldInfo
	columnToInfo map[string]fieldInfo
}

// insertableColumns 返回可用于 INSERT 的列及对应字段。
func (sm *structMeta) insertableColumns() ([]string, []fieldInfo) {
	var cols []string
	var fields []fieldInfo
	for _, f := range sm.fields {
		// 自增主键默认交给数据库生成
		if f.PrimaryKey && f.AutoIncrement {
			continue
		}
		cols = append(cols, f.Column)
		fields = append(fields, f)
	}
	return cols, fields
}

// structMetaForValue 构建或获取指定值类型的 structMeta。
func (o *Orm) structMetaForValue(v any) *structMeta {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	o.mu.RLock()
	if sm, ok := o.structMap[t]; ok {
		o.mu.RUnlock()
		return sm
	}
	o.mu.RUnlock()

	sm := buildStructMeta(t)
	o.mu.Lock()
	o.structMap[t] = sm
	o.mu.Unlock()
	return sm
}

func buildStructMeta(t reflect.Type) *structMeta {
	sm := &structMeta{
		typ:          t,
		columnToInfo: make(map[string]fieldInfo),
	}

	var walk func(reflect.Type, []int)
	walk = func(cur reflect.Type, prefix []int) {
		for i := 0; i < cur.NumField(); i++ {
			f := cur.Field(i)
			if f.PkgPath != "" {
				continue
			}

			index := append(append([]int(nil), prefix...), i)

			if f.Anonymous && f.Type.Kind() == reflect.Struct && !isTimeType(f.Type) {
				walk(f.Type, index)
				continue
			}
			if !isScalarDBField(f.Type) {
				continue
			}

			col, pk, auto, skip := parseColumnTag(f)
			if skip {
				continue
			}
			if col == "" {
				col = toSnakeCase(f.Name)
			}

			info := fieldInfo{
				Column:        col,
				Index:         index,
				PrimaryKey:    pk,
				AutoIncrement: auto,
			}
			sm.fields = append(sm.fields, info)
			// 后来的同名列覆盖之前的定义（以最内层为准）
			sm.columnToInfo[col] = info
		}
	}

	walk(t, nil)
	return sm
}

func isScalarDBField(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if isTimeType(t) {
		return true
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func isTimeType(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.PkgPath() == "time" && t.Name() == "Time"
}

// parseColumnTag 解析 db 标签：`db:"column,pk,auto"`，`db:"-"` 表示忽略。
// 未设置 db 标签时回退到 json 标签名。
func parseColumnTag(f reflect.StructField) (column string, primaryKey, autoIncrement, skip bool) {
	tag, ok := f.Tag.Lookup("db")
	if !ok {
		if jsonTag := f.Tag.Get("json"); jsonTag != "" && jsonTag != "-" {
			column = strings.Split(jsonTag, ",")[0]
		}
		return column, false, false, false
	}
	if tag == "-" {
		return "", false, false, true
	}

	parts := strings.Split(tag, ",")
	column = strings.TrimSpace(parts[0])
	for _, opt := range parts[1:] {
		switch strings.ToLower(strings.TrimSpace(opt)) {
		case "pk", "primarykey":
			primaryKey = true
		case "auto", "autoincrement":
			autoIncrement = true
		}
	}
	return column, primaryKey, autoIncrement, false
}

func toSnakeCase(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// scanRowsIntoDest 将 rows 扫描到 dest 中。
//
// 支持 *T、*[]T、*[]*T（T 为结构体）以及 *map[string]any、*[]map[string]any。
// 单值目标假定调用方已执行过一次 Next()。
func scanRowsIntoDest(rows dbcore.IRows, dest any, o *Orm) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("basic.scanRowsIntoDest: dest must be non-nil pointer")
	}

	elem := rv.Elem()
	switch {
	case elem.Kind() == reflect.Map:
		if elem.IsNil() {
			elem.Set(reflect.MakeMap(elem.Type()))
		}
		m, ok := elem.Interface().(map[string]any)
		if !ok {
			return fmt.Errorf("basic.scanRowsIntoDest: unsupported map type %s", elem.Type())
		}
		return scanRowIntoMap(rows, m)
	case elem.Kind() == reflect.Slice:
		elemType := elem.Type().Elem()
		for rows.Next() {
			item, err := scanSliceItem(rows, elemType, o)
			if err != nil {
				return err
			}
			elem.Set(reflect.Append(elem, item))
		}
		return rows.Err()
	case elem.Kind() == reflect.Struct:
		return scanOneRow(rows, elem, o)
	default:
		return fmt.Errorf("basic.scanRowsIntoDest: unsupported dest element kind %s", elem.Kind())
	}
}

func scanSliceItem(rows dbcore.IRows, elemType reflect.Type, o *Orm) (reflect.Value, error) {
	switch {
	case elemType.Kind() == reflect.Map:
		m := make(map[string]any)
		if err := scanRowIntoMap(rows, m); err != nil {
			return reflect.Value{}, err
		}
		v := reflect.ValueOf(m)
		if !v.Type().AssignableTo(elemType) {
			return reflect.Value{}, fmt.Errorf("basic.scanRowsIntoDest: unsupported map type %s", elemType)
		}
		return v, nil
	case elemType.Kind() == reflect.Ptr && elemType.Elem().Kind() == reflect.Struct:
		item := reflect.New(elemType.Elem())
		if err := scanOneRow(rows, item.Elem(), o); err != nil {
			return reflect.Value{}, err
		}
		return item, nil
	case elemType.Kind() == reflect.Struct:
		item := reflect.New(elemType).Elem()
		if err := scanOneRow(rows, item, o); err != nil {
			return reflect.Value{}, err
		}
		return item, nil
	default:
		return reflect.Value{}, fmt.Errorf("basic.scanRowsIntoDest: unsupported slice element %s", elemType)
	}
}

// scanRowIntoMap 以列名为键扫描当前行；[]byte 转为 string
func scanRowIntoMap(rows dbcore.IRows, m map[string]any) error {
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return err
	}
	for i, col := range cols {
		if b, ok := values[i].([]byte); ok {
			m[col] = string(b)
			continue
		}
		m[col] = values[i]
	}
	return nil
}

func scanOneRow(rows dbcore.IRows, v reflect.Value, o *Orm) error {
	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	destPtrs := make([]any, len(cols))
	sm := o.structMetaForValue(v.Addr().Interface())
	if sm == nil {
		for i := range destPtrs {
			var tmp any
			destPtrs[i] = &tmp
		}
		return rows.Scan(destPtrs...)
	}

	for i, col := range cols {
		fi, ok := sm.columnToInfo[col]
		if !ok {
			var tmp any
			destPtrs[i] = &tmp
			continue
		}
		fv := fieldByIndexSafe(v, fi.Index)
		if !fv.IsValid() || !fv.CanSet() {
			var tmp any
			destPtrs[i] = &tmp
			continue
		}
		destPtrs[i] = fv.Addr().Interface()
	}

	return rows.Scan(destPtrs...)
}

func fieldByIndexSafe(v reflect.Value, index []int) reflect.Value {
	for _, i := range index {
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return reflect.Value{}
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct || i < 0 || i >= v.NumField() {
			return reflect.Value{}
		}
		v = v.Field(i)
	}
	return v
}

// tryGetTableName 尝试从模型实例上调用 TableName()。
func tryGetTableName(model any) (string, bool) {
	if model == nil {
		return "", false
	}
	v := reflect.ValueOf(model)
	if !v.IsValid() {
		return "", false
	}
	if v.Kind() == reflect.Ptr && v.IsNil() {
		v = reflect.New(v.Type().Elem())
	}
	if m, ok := v.Interface().(interface{ TableName() string }); ok {
		return m.TableName(), true
	}

	t := v.Type()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return "", false
	}
	// 指针接收者实现的 TableName
	if m, ok := reflect.New(t).Interface().(interface{ TableName() string }); ok {
		return m.TableName(), true
	}
	return "", false
}
