package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_DispatchOrder(t *testing.T) {
	m := NewManager()
	var calls []string
	m.On("before_delete", func(ctx context.Context, evt *Event) error {
		calls = append(calls, "exact")
		return nil
	})
	m.On(Wildcard, func(ctx context.Context, evt *Event) error {
		calls = append(calls, "wildcard")
		return nil
	})

	evt := NewCancelable("before_delete", "Item", map[string]any{"id": 1})
	require.NoError(t, m.Dispatch(context.Background(), evt))
	assert.Equal(t, []string{"exact", "wildcard"}, calls)
	assert.False(t, evt.Cancelled())
	assert.NotEmpty(t, evt.ID)
}

func TestManager_ResultFalseCancels(t *testing.T) {
	m := NewManager()
	second := false
	m.On("before_delete", func(ctx context.Context, evt *Event) error {
		evt.Result = false
		return nil
	})
	m.On("before_delete", func(ctx context.Context, evt *Event) error {
		second = true
		return nil
	})

	evt := NewCancelable("before_delete", "Item", nil)
	require.NoError(t, m.Dispatch(context.Background(), evt))
	assert.True(t, evt.Cancelled())
	assert.False(t, second, "取消后不应继续派发")

	// 信息类事件的 Result=false 不构成取消
	info := New("before_delete", "Item", nil)
	second = false
	require.NoError(t, m.Dispatch(context.Background(), info))
	assert.False(t, info.Cancelled())
	assert.True(t, second)
}

func TestManager_ListenerErrorPropagates(t *testing.T) {
	m := NewManager()
	boom := errors.New("boom")
	m.On("after_delete", func(ctx context.Context, evt *Event) error { return boom })

	err := m.Dispatch(context.Background(), New("after_delete", "Item", nil))
	assert.ErrorIs(t, err, boom)
}

func TestManager_Off(t *testing.T) {
	m := NewManager()
	called := 0
	id := m.On("after_delete", func(ctx context.Context, evt *Event) error {
		called++
		return nil
	})
	assert.True(t, m.Has("after_delete"))
	assert.True(t, m.Off("after_delete", id))
	assert.False(t, m.Off("after_delete", id))
	assert.False(t, m.Has("after_delete"))

	require.NoError(t, m.Dispatch(context.Background(), New("after_delete", "Item", nil)))
	assert.Equal(t, 0, called)
}
