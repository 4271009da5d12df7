// Package cache 提供查询结果缓存的进程内实现
//
// Memory 实现 orm.IResultCache：
// 1. 容量管理 - 超过 MaxSize 时按 LRU 驱逐
// 2. 过期 - 基于写入时间的 TTL
// 3. 前缀失效 - 写操作后按表前缀整体清理
// 4. 并发安全 - 使用 Mutex 保护
package cache

import (
	"container/list"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"softdel/data/orm"
)

// Config 缓存配置
type Config struct {
	// Name 缓存名称（用于日志和统计）
	Name string

	// MaxSize 最大缓存条目数，0 表示无限制
	MaxSize int

	// TTL 条目存活时间，0 表示永不过期
	TTL time.Duration

	// Now 时间来源，测试时替换
	Now func() time.Time
}

// Stats 缓存统计信息
type Stats struct {
	Hits          int64
	Misses        int64
	Evictions     int64 // LRU 驱逐次数
	Expires       int64 // TTL 过期次数
	Invalidations int64 // 前缀失效清理的条目数
	Size          int
}

type entry struct {
	key       string
	value     []byte
	expiresAt time.Time
	element   *list.Element
}

// Memory 进程内结果缓存
type Memory struct {
	config Config

	mu    sync.Mutex
	items map[string]*entry
	lru   *list.List // 最近使用的在前
	stats Stats
}

// New 创建进程内结果缓存
func New(config Config) *Memory {
	if config.Name == "" {
		config.Name = "unnamed"
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Memory{
		config: config,
		items:  make(map[string]*entry),
		lru:    list.New(),
	}
}

// Get 读取缓存值，返回副本
func (c *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	// 命中时要调整 LRU 位置，因此使用写锁
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return nil, false, nil
	}
	if c.expired(e) {
		c.remove(e)
		c.stats.Misses++
		c.stats.Expires++
		return nil, false, nil
	}

	c.lru.MoveToFront(e.element)
	c.stats.Hits++
	return append([]byte(nil), e.value...), true, nil
}

// Set 写入缓存值
func (c *Memory) Set(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.config.TTL > 0 {
		expiresAt = c.config.Now().Add(c.config.TTL)
	}
	value = append([]byte(nil), value...)

	if e, ok := c.items[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.lru.MoveToFront(e.element)
		return nil
	}

	if c.config.MaxSize > 0 && len(c.items) >= c.config.MaxSize {
		c.evictOldest()
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	e.element = c.lru.PushFront(e)
	c.items[key] = e
	return nil
}

// Invalidate 删除所有以 prefix 开头的条目；空前缀清空缓存
func (c *Memory) Invalidate(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.items {
		if strings.HasPrefix(key, prefix) {
			c.remove(e)
			c.stats.Invalidations++
		}
	}
	return nil
}

// CleanExpired 清理过期条目，返回清理数量
func (c *Memory) CleanExpired() int {
	if c.config.TTL <= 0 {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cleaned := 0
	for _, e := range c.items {
		if c.expired(e) {
			c.remove(e)
			cleaned++
		}
	}
	c.stats.Expires += int64(cleaned)
	return cleaned
}

// Stats 获取统计信息（副本）
func (c *Memory) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = len(c.items)
	return stats
}

func (c *Memory) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// 需要持锁调用
func (c *Memory) expired(e *entry) bool {
	return !e.expiresAt.IsZero() && !c.config.Now().Before(e.expiresAt)
}

func (c *Memory) evictOldest() {
	oldest := c.lru.Back()
	if oldest == nil {
		return
	}
	c.remove(oldest.Value.(*entry))
	c.stats.Evictions++
}

func (c *Memory) remove(e *entry) {
	if e.element != nil {
		c.lru.Remove(e.element)
	}
	delete(c.items, e.key)
}

func (c *Memory) String() string {
	stats := c.Stats()
	return fmt.Sprintf("Cache[%s]: size=%d/%d, hits=%d, misses=%d, evictions=%d, expires=%d, invalidations=%d",
		c.config.Name,
		stats.Size,
		c.config.MaxSize,
		stats.Hits,
		stats.Misses,
		stats.Evictions,
		stats.Expires,
		stats.Invalidations,
	)
}

var _ orm.IResultCache = (*Memory)(nil)
