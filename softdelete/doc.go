// Package softdelete 为 data/orm 模型提供软删除能力。
//
// Model 包装宿主 orm.IModel：
//   - 注册为宿主表的查询拦截器，查询条件未引用删除标记时自动追加排除条件；
//   - 注册为宿主表的记录删除器，父模型级联删除时同样走软删除；
//   - Delete/DeleteAll 将记录标记为已删除而非物理删除，HardDelete 保留物理删除出口。
//
// 删除标记的列类型在 New 时解析一次：布尔列以 true 表示已删除，
// 日期/时间列以删除时刻表示已删除、NULL 表示未删除。
//
// 包含已删除记录有两种方式：实例级的 IncludeDeletedRecords，
// 以及只作用于单次调用链的 WithDeleted(ctx)。
package softdelete
