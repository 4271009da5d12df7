package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Wildcard 订阅全部事件
const Wildcard = "*"

// Listener 事件监听器，返回 error 会中断派发并向调用方传播
type Listener func(ctx context.Context, evt *Event) error

type registration struct {
	id string
	fn Listener
}

// Manager 按事件名管理监听器
type Manager struct {
	listeners map[string][]registration
	mutex     sync.RWMutex
}

// NewManager 创建事件管理器
func NewManager() *Manager {
	return &Manager{
		listeners: make(map[string][]registration),
	}
}

// On 注册监听器，返回用于注销的 ID
func (m *Manager) On(name string, fn Listener) string {
	if fn == nil {
		return ""
	}
	id := uuid.NewString()

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.listeners[name] = append(m.listeners[name], registration{id: id, fn: fn})
	return id
}

// Off 注销监听器
func (m *Manager) Off(name, id string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	regs := m.listeners[name]
	for i, r := range regs {
		if r.id == id {
			m.listeners[name] = append(regs[:i:i], regs[i+1:]...)
			return true
		}
	}
	return false
}

// Has 是否存在可接收该事件的监听器（含通配）
func (m *Manager) Has(name string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.listeners[name]) > 0 || len(m.listeners[Wildcard]) > 0
}

// Dispatch 同步派发事件
//
// 先调用精确订阅者，再调用通配订阅者；监听器调用 Stop 后不再继续派发。
// 可取消事件中监听器将 Result 置为 false 等同于 Stop。
func (m *Manager) Dispatch(ctx context.Context, evt *Event) error {
	if evt == nil {
		return nil
	}

	m.mutex.RLock()
	regs := make([]registration, 0, len(m.listeners[evt.Name])+len(m.listeners[Wildcard]))
	regs = append(regs, m.listeners[evt.Name]...)
	if evt.Name != Wildcard {
		regs = append(regs, m.listeners[Wildcard]...)
	}
	m.mutex.RUnlock()

	for _, r := range regs {
		if err := r.fn(ctx, evt); err != nil {
			return fmt.Errorf("event %s listener %s: %w", evt.Name, r.id, err)
		}
		if evt.Cancelable {
			if b, ok := evt.Result.(bool); ok && !b {
				evt.stopped = true
			}
		}
		if evt.stopped {
			break
		}
	}
	return nil
}
