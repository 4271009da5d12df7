// Package rediscache 基于 Redis 的查询结果缓存，多进程共享同一份缓存与失效。
package rediscache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"softdel/data/orm"
	"softdel/logging"
)

// client 收敛所需的 go-redis 命令，便于测试替换
type client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// Config Redis 结果缓存配置
type Config struct {
	Client    redis.UniversalClient `mapstructure:"-"`
	Addr      string                `mapstructure:"CACHE_ADDR"`
	Username  string                `mapstructure:"CACHE_USERNAME"`
	Password  string                `mapstructure:"CACHE_PASSWORD"`
	DB        int                   `mapstructure:"CACHE_DB"`
	KeyPrefix string                `mapstructure:"CACHE_KEY_PREFIX"` // 默认 softdel:
	// TTL 条目存活时间，0 表示不过期
	TTL time.Duration `mapstructure:"CACHE_TTL"`
	// ScanCount 失效时每批 SCAN 的提示数量，默认 100
	ScanCount int64          `mapstructure:"CACHE_SCAN_COUNT"`
	Logger    logging.Logger `mapstructure:"-"`
}

// Cache 实现 orm.IResultCache
type Cache struct {
	cfg       Config
	client    client
	ownClient bool
	logger    logging.Logger
}

// New 创建 Redis 结果缓存；未提供 Client 时按 Addr 建立连接并 Ping
func New(ctx context.Context, cfg Config) (*Cache, error) {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "softdel:"
	}
	if cfg.ScanCount <= 0 {
		cfg.ScanCount = 100
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "cache.redis"))
	}

	var cl client
	own := false
	if cfg.Client != nil {
		cl = cfg.Client
	} else {
		if cfg.Addr == "" {
			return nil, errors.New("rediscache: addr not configured")
		}
		rc := redis.NewClient(&redis.Options{Addr: cfg.Addr, Username: cfg.Username, Password: cfg.Password, DB: cfg.DB})
		if err := rc.Ping(ctx).Err(); err != nil {
			_ = rc.Close()
			return nil, err
		}
		cl = rc
		own = true
	}
	return newWithClient(cl, own, cfg), nil
}

func newWithClient(cl client, own bool, cfg Config) *Cache {
	return &Cache{cfg: cfg, client: cl, ownClient: own, logger: cfg.Logger}
}

func (c *Cache) key(k string) string {
	return c.cfg.KeyPrefix + k
}

// Get 读取缓存值；键不存在时返回 false 且无错误
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set 写入缓存值
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	return c.client.Set(ctx, c.key(key), value, c.cfg.TTL).Err()
}

// Invalidate 以 SCAN 遍历前缀匹配的键并分批删除
func (c *Cache) Invalidate(ctx context.Context, prefix string) error {
	match := escapeGlob(c.key(prefix)) + "*"
	var (
		cursor  uint64
		removed int64
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, match, c.cfg.ScanCount).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return err
			}
			removed += n
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	c.logger.Debug(ctx, "result cache invalidated",
		logging.String("prefix", prefix), logging.Int64("removed", removed))
	return nil
}

// Close 关闭自行建立的连接
func (c *Cache) Close() error {
	if !c.ownClient {
		return nil
	}
	return c.client.Close()
}

// escapeGlob 转义 SCAN MATCH 的通配字符
func escapeGlob(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}

var _ orm.IResultCache = (*Cache)(nil)
