package natsevent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"softdel/data/orm/event"
	"softdel/logging"
	"softdel/patterns/retry"
)

type recordingConn struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (c *recordingConn) Publish(subj string, data []byte) error {
	if c.err != nil {
		return c.err
	}
	c.subjects = append(c.subjects, subj)
	c.payloads = append(c.payloads, data)
	return nil
}

func TestPublisher_PublishesAttachedEvents(t *testing.T) {
	conn := &recordingConn{}
	p := New(conn, Config{Logger: logging.NewNoopLogger()})

	m := event.NewManager()
	p.Attach(m, "after_delete")

	evt := event.New("after_delete", "Item", map[string]any{"id": 3, "cascade": true})
	require.NoError(t, m.Dispatch(context.Background(), evt))
	require.NoError(t, m.Dispatch(context.Background(), event.New("before_delete", "Item", nil)))

	require.Len(t, conn.subjects, 1)
	assert.Equal(t, "model.Item.after_delete", conn.subjects[0])

	var got message
	require.NoError(t, json.Unmarshal(conn.payloads[0], &got))
	assert.Equal(t, evt.ID, got.ID)
	assert.Equal(t, "Item", got.Subject)
	assert.Equal(t, float64(3), got.Data["id"])
	assert.Equal(t, true, got.Data["cascade"])
}

func TestPublisher_FailureHandling(t *testing.T) {
	boom := errors.New("nats down")
	evt := event.New("after_delete", "Item", nil)

	lenient := New(&recordingConn{err: boom}, Config{Logger: logging.NewNoopLogger()})
	assert.NoError(t, lenient.Listener()(context.Background(), evt))

	strict := New(&recordingConn{err: boom}, Config{FailOnError: true, SubjectPrefix: "audit.", Logger: logging.NewNoopLogger()})
	assert.ErrorIs(t, strict.Listener()(context.Background(), evt), boom)
	assert.Equal(t, "audit.Item.after_delete", strict.Subject(evt))
}

type flakyConn struct {
	recordingConn
	failures int
	calls    int
}

func (c *flakyConn) Publish(subj string, data []byte) error {
	c.calls++
	if c.calls <= c.failures {
		return errors.New("timeout")
	}
	return c.recordingConn.Publish(subj, data)
}

func TestPublisher_RetriesTransientFailures(t *testing.T) {
	conn := &flakyConn{failures: 2}
	p := New(conn, Config{
		FailOnError: true,
		Retry:       retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond},
		Logger:      logging.NewNoopLogger(),
	})

	require.NoError(t, p.Listener()(context.Background(), event.New("after_delete", "Item", nil)))
	assert.Equal(t, 3, conn.calls)
	assert.Equal(t, []string{"model.Item.after_delete"}, conn.subjects)
}
