package orm

// AssociationKind 表示关联类型。
type AssociationKind string

const (
	AssociationBelongsTo  AssociationKind = "belongs_to"
	AssociationHasOne     AssociationKind = "has_one"
	AssociationHasMany    AssociationKind = "has_many"
	AssociationManyToMany AssociationKind = "many_to_many"
)

// AssociationMeta 描述模型关联元信息。
//
// 键的约定：
//   - belongs_to：ForeignKey 在本表，ReferenceKey 为目标表主键（默认 id）；
//   - has_one/has_many：ForeignKey 在目标表，指向本表主键；
//   - many_to_many：JoinTable 中 JoinForeignKey 指向本表主键。
type AssociationMeta struct {
	Name             string
	Kind             AssociationKind
	Target           any
	TargetTable      string
	JoinTable        string
	ForeignKey       string
	ReferenceKey     string
	JoinForeignKey   string // 多对多/中间表时的本侧键
	JoinReferenceKey string // 多对多/中间表时的目标键
	// Dependent 删除本记录时是否级联删除目标记录（has_one/has_many）。
	Dependent bool
	// CounterCache 目标表上的计数列（仅 belongs_to）。
	CounterCache string
	Tags         map[string]string
}

// FieldMeta 描述字段元信息。
type FieldMeta struct {
	Name          string
	Column        string
	Type          ColumnType // 为空时由适配器通过驱动元数据推断
	PrimaryKey    bool
	AutoIncrement bool
	Nullable      bool
	Tags          map[string]string
}

// ModelMeta 描述模型级别元信息。
type ModelMeta struct {
	Model        any
	Table        string
	Alias        string // 查询中使用的表别名，默认与表名相同
	PrimaryKey   string // 默认 id
	Fields       []FieldMeta
	Associations []AssociationMeta
	Tags         map[string]string
}

// Tag 返回模型级别的标签内容。
func (m *ModelMeta) Tag(key string) string {
	if m == nil || m.Tags == nil {
		return ""
	}
	return m.Tags[key]
}

// AliasName 返回别名，未设置时回退到表名。
func (m *ModelMeta) AliasName() string {
	if m.Alias != "" {
		return m.Alias
	}
	return m.Table
}

// PrimaryKeyName 返回主键列名，未设置时为 id。
func (m *ModelMeta) PrimaryKeyName() string {
	if m.PrimaryKey != "" {
		return m.PrimaryKey
	}
	for _, f := range m.Fields {
		if f.PrimaryKey && f.Column != "" {
			return f.Column
		}
	}
	return "id"
}

// Field 按列名或字段名查找字段元信息。
func (m *ModelMeta) Field(name string) (FieldMeta, bool) {
	for _, f := range m.Fields {
		if f.Column == name || f.Name == name {
			return f, true
		}
	}
	return FieldMeta{}, false
}

// CounterCaches 返回配置了计数缓存的 belongs_to 关联。
func (m *ModelMeta) CounterCaches() []AssociationMeta {
	var out []AssociationMeta
	for _, a := range m.Associations {
		if a.Kind == AssociationBelongsTo && a.CounterCache != "" && a.ForeignKey != "" {
			out = append(out, a)
		}
	}
	return out
}

// ForeignKeys 返回本表上所有 belongs_to 外键列（去重，保持声明顺序）。
func (m *ModelMeta) ForeignKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, a := range m.Associations {
		if a.Kind != AssociationBelongsTo || a.ForeignKey == "" || seen[a.ForeignKey] {
			continue
		}
		seen[a.ForeignKey] = true
		keys = append(keys, a.ForeignKey)
	}
	return keys
}
