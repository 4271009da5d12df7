// Package event 提供模型级的同步事件分发。
//
// 与 eventing 总线不同，这里的事件在调用方 goroutine 内同步派发，
// 监听器可以通过 Stop 或 Result=false 取消可取消事件（例如 before_delete）。
package event

import (
	"time"

	"github.com/google/uuid"
)

// Event 一次模型事件
type Event struct {
	ID        string
	Name      string
	Subject   string // 触发事件的模型别名
	Data      map[string]any
	Timestamp time.Time

	// Result 监听器可写入的返回值；可取消事件中 false 视为取消
	Result any
	// Cancelable 是否允许监听器取消后续操作
	Cancelable bool

	stopped bool
}

// New 创建信息类事件
func New(name, subject string, data map[string]any) *Event {
	if data == nil {
		data = make(map[string]any)
	}
	return &Event{
		ID:        uuid.NewString(),
		Name:      name,
		Subject:   subject,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewCancelable 创建可取消事件
func NewCancelable(name, subject string, data map[string]any) *Event {
	e := New(name, subject, data)
	e.Cancelable = true
	return e
}

// Stop 停止向后续监听器传播；对可取消事件同时表示取消
func (e *Event) Stop() {
	e.stopped = true
}

// IsStopped 是否已停止
func (e *Event) IsStopped() bool {
	return e.stopped
}

// Cancelled 可取消事件是否被监听器取消
func (e *Event) Cancelled() bool {
	return e.Cancelable && e.stopped
}
