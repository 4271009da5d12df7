// Package retry 提供带指数退避的重试，用于事件转发等外部调用。
package retry

import (
	"context"
	"errors"
	"math"
	"time"
)

// Operation 可重试的操作，attempt 从 1 开始
type Operation func(ctx context.Context, attempt int) error

// Config 重试配置
type Config struct {
	MaxAttempts   int           // 含首次，<=0 视为 1
	InitialDelay  time.Duration // 首次重试前的等待
	BackoffFactor float64       // <1 视为 1
	MaxDelay      time.Duration // 0 表示不限
}

// DefaultConfig 3 次尝试，5ms 起步，倍数 2，上限 200ms
func DefaultConfig() Config {
	return Config{
		MaxAttempts:   3,
		InitialDelay:  5 * time.Millisecond,
		BackoffFactor: 2,
		MaxDelay:      200 * time.Millisecond,
	}
}

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent 标记不应重试的错误，Do 立即返回其原始错误
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Delay 第 attempt 次失败后的等待时长
func (c Config) Delay(attempt int) time.Duration {
	factor := c.BackoffFactor
	if factor < 1 {
		factor = 1
	}
	d := time.Duration(float64(c.InitialDelay) * math.Pow(factor, float64(attempt-1)))
	if c.MaxDelay > 0 && d > c.MaxDelay {
		d = c.MaxDelay
	}
	return d
}

// Do 执行 op 直到成功、遇到 Permanent 错误、次数用尽或 ctx 结束，返回最后一次错误
func Do(ctx context.Context, op Operation, cfg Config) error {
	attempts := max(cfg.MaxAttempts, 1)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = op(ctx, attempt)
		if lastErr == nil {
			return nil
		}
		var p *permanentError
		if errors.As(lastErr, &p) {
			return p.err
		}
		if attempt == attempts {
			break
		}

		timer := time.NewTimer(cfg.Delay(attempt))
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
	return lastErr
}
