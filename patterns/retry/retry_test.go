package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fast(attempts int) Config {
	return Config{MaxAttempts: attempts, InitialDelay: time.Millisecond, BackoffFactor: 2, MaxDelay: 4 * time.Millisecond}
}

func TestDo(t *testing.T) {
	boom := errors.New("temporary")

	tests := []struct {
		name     string
		cfg      Config
		failures int
		wantErr  error
		wantRuns int
	}{
		{"first try", fast(3), 0, nil, 1},
		{"succeeds after retry", fast(3), 2, nil, 3},
		{"exhausted", fast(2), 5, boom, 2},
		{"zero attempts runs once", Config{}, 5, boom, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := 0
			err := Do(context.Background(), func(ctx context.Context, attempt int) error {
				runs++
				assert.Equal(t, runs, attempt)
				if runs <= tt.failures {
					return boom
				}
				return nil
			}, tt.cfg)
			assert.Equal(t, tt.wantErr, err)
			assert.Equal(t, tt.wantRuns, runs)
		})
	}
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	boom := errors.New("bad payload")
	runs := 0
	err := Do(context.Background(), func(context.Context, int) error {
		runs++
		return Permanent(boom)
	}, fast(5))
	assert.Same(t, boom, err)
	assert.Equal(t, 1, runs)
	assert.Nil(t, Permanent(nil))
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runs := 0
	err := Do(ctx, func(context.Context, int) error {
		runs++
		return nil
	}, fast(3))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, runs)
}

func TestConfig_Delay(t *testing.T) {
	cfg := Config{InitialDelay: 10 * time.Millisecond, BackoffFactor: 2, MaxDelay: 30 * time.Millisecond}
	assert.Equal(t, 10*time.Millisecond, cfg.Delay(1))
	assert.Equal(t, 20*time.Millisecond, cfg.Delay(2))
	assert.Equal(t, 30*time.Millisecond, cfg.Delay(3))

	flat := Config{InitialDelay: time.Millisecond, BackoffFactor: 0.5}
	assert.Equal(t, time.Millisecond, flat.Delay(4))
}
