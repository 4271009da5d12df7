// Package natsevent 将模型事件转发到 NATS，供其他服务感知删除等变更。
package natsevent

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"softdel/data/orm/event"
	"softdel/logging"
	"softdel/patterns/retry"
)

// IPublisher 最小发布能力，*nats.Conn 满足该接口
type IPublisher interface {
	Publish(subj string, data []byte) error
}

// Config 发布配置
type Config struct {
	URL           string
	SubjectPrefix string // 默认 "model."
	// FailOnError 为 true 时发布失败会作为监听器错误返回
	FailOnError bool
	// Retry 发布失败时的重试策略，零值只尝试一次
	Retry  retry.Config
	Logger logging.Logger
}

// Publisher 事件转发器
type Publisher struct {
	cfg    Config
	conn   IPublisher
	logger logging.Logger
	closer func()
}

type message struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Subject   string         `json:"subject"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// New 基于已有连接创建转发器
func New(conn IPublisher, cfg Config) *Publisher {
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "model."
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "event.nats"))
	}
	return &Publisher{cfg: cfg, conn: conn, logger: cfg.Logger}
}

// Connect 连接 cfg.URL 并创建转发器，Close 时释放连接
func Connect(cfg Config) (*Publisher, error) {
	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url, nats.Name("softdel-events"))
	if err != nil {
		return nil, err
	}
	p := New(nc, cfg)
	p.closer = nc.Close
	return p, nil
}

// Close 关闭自有连接
func (p *Publisher) Close() {
	if p.closer != nil {
		p.closer()
	}
}

// Subject 计算事件对应的主题
func (p *Publisher) Subject(evt *event.Event) string {
	return p.cfg.SubjectPrefix + evt.Subject + "." + evt.Name
}

// Listener 返回可注册到 event.Manager 的监听器
func (p *Publisher) Listener() event.Listener {
	return func(ctx context.Context, evt *event.Event) error {
		return p.publish(ctx, evt)
	}
}

// Attach 将转发器注册到指定事件，返回监听器 ID
func (p *Publisher) Attach(m *event.Manager, names ...string) []string {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		ids = append(ids, m.On(name, p.Listener()))
	}
	return ids
}

func (p *Publisher) publish(ctx context.Context, evt *event.Event) error {
	data, err := json.Marshal(message{
		ID:        evt.ID,
		Name:      evt.Name,
		Subject:   evt.Subject,
		Data:      evt.Data,
		Timestamp: evt.Timestamp,
	})
	if err != nil {
		return err
	}

	subject := p.Subject(evt)
	err = retry.Do(ctx, func(ctx context.Context, attempt int) error {
		if err := p.conn.Publish(subject, data); err != nil {
			p.logger.Debug(ctx, "publish attempt failed",
				logging.String("subject", subject),
				logging.Int("attempt", attempt),
				logging.Error(err))
			return err
		}
		return nil
	}, p.cfg.Retry)
	if err != nil {
		p.logger.Warn(ctx, "publish model event failed",
			logging.String("subject", subject),
			logging.String("event_id", evt.ID),
			logging.Error(err))
		if p.cfg.FailOnError {
			return err
		}
		return nil
	}
	p.logger.Debug(ctx, "model event published", logging.String("subject", subject))
	return nil
}
