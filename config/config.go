// Package config 从环境变量与 .env 文件加载运行配置。
package config

import (
	stdErrors "errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"softdel/cache/rediscache"
	"softdel/data/db"
	"softdel/errors"
	"softdel/logging"
)

// Config 运行配置，字段名即环境变量名
type Config struct {
	DB    db.DBConfig       `mapstructure:",squash"`
	Cache rediscache.Config `mapstructure:",squash"`

	NatsURL           string `mapstructure:"NATS_URL"`
	NatsSubjectPrefix string `mapstructure:"NATS_SUBJECT_PREFIX"`
	NatsPublishRetry  int    `mapstructure:"NATS_PUBLISH_RETRY"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogJSON  bool   `mapstructure:"LOG_JSON"`
}

var defaults = map[string]any{
	"DB_DRIVER":             "sqlite",
	"DB_DSN":                "",
	"DB_HOST":               "",
	"DB_PORT":               0,
	"DB_NAME":               "",
	"DB_USERNAME":           "",
	"DB_PASSWORD":           "",
	"DB_MAX_OPEN_CONNS":     0,
	"DB_MAX_IDLE_CONNS":     0,
	"DB_CONN_MAX_LIFETIME":  0,
	"DB_CONN_MAX_IDLE_TIME": 0,
	"CACHE_ADDR":            "",
	"CACHE_USERNAME":        "",
	"CACHE_PASSWORD":        "",
	"CACHE_DB":              0,
	"CACHE_KEY_PREFIX":      "softdel:",
	"CACHE_TTL":             "5m",
	"CACHE_SCAN_COUNT":      100,
	"NATS_URL":              "",
	"NATS_SUBJECT_PREFIX":   "model.",
	"NATS_PUBLISH_RETRY":    3,
	"LOG_LEVEL":             "info",
	"LOG_JSON":              false,
}

// Load 读取 .env 文件后从环境变量解析配置。
//
// 未指定文件时尝试当前目录的 .env，不存在则忽略；
// 已存在的环境变量不会被文件覆盖。
func Load(files ...string) (*Config, error) {
	if err := loadDotenv(files...); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeConfig, "load .env")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, errors.WrapError(err, errors.ErrCodeConfig, "bind env "+key)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeConfig, "decode config")
	}
	return &cfg, nil
}

func loadDotenv(files ...string) error {
	if len(files) > 0 {
		return godotenv.Load(files...)
	}
	if err := godotenv.Load(); err != nil && !stdErrors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Level 日志级别
func (c *Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}

// CacheEnabled 是否配置了 Redis 结果缓存
func (c *Config) CacheEnabled() bool {
	return c.Cache.Addr != ""
}

// EventsEnabled 是否配置了 NATS 事件发布
func (c *Config) EventsEnabled() bool {
	return c.NatsURL != ""
}
