// Package sampler drives plugin instances on a fixed global tick.
package sampler

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/collectd-shrimp/pkg/logger"
	"github.com/collectd-shrimp/pkg/metrics"
	"github.com/collectd-shrimp/pkg/plugin"
	"github.com/collectd-shrimp/pkg/putval"
)

// Sampler 顺序执行已注册实例，每个 tick 结束刷新一次输出
// 非并发安全：Register 在 Run 之前完成，Run/Tick 只在一个 goroutine 中调用
type Sampler struct {
	instances []plugin.Executable
	interval  time.Duration
	out       *putval.Writer
	metrics   *metrics.SamplerMetrics
	clock     func() time.Time
}

type Option func(*Sampler)

// WithMetrics 记录自监控指标
func WithMetrics(m *metrics.SamplerMetrics) Option {
	return func(s *Sampler) { s.metrics = m }
}

// WithClock 替换 tick 时间来源
func WithClock(clock func() time.Time) Option {
	return func(s *Sampler) { s.clock = clock }
}

// NewSampler out 只接收 PUTVAL 行（通常是 stdout）
func NewSampler(interval time.Duration, out io.Writer, opts ...Option) *Sampler {
	s := &Sampler{
		instances: make([]plugin.Executable, 0),
		interval:  interval,
		out:       putval.NewWriter(out),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register 注册实例，执行顺序即注册顺序
func (s *Sampler) Register(e plugin.Executable) {
	s.instances = append(s.instances, e)
}

func (s *Sampler) Len() int {
	return len(s.instances)
}

// Tick 执行一轮。实例返回的错误是致命的：已输出的行先刷新，再中止本轮并返回
func (s *Sampler) Tick(now time.Time) error {
	for _, e := range s.instances {
		before := s.out.Lines()
		start := time.Now()
		ran, err := e.Exec(now, s.out)
		if s.metrics != nil {
			s.metrics.ObserveExec(e.Kind(), e.Instance(), ran, int(s.out.Lines()-before), time.Since(start))
		}
		if err != nil {
			_ = s.out.Flush()
			return err
		}
		if ran {
			logger.Debug("instance executed",
				zap.String("plugin", e.Kind()),
				zap.String("instance", e.Instance()),
				zap.Uint64("lines", s.out.Lines()-before),
				zap.Duration("took", time.Since(start)))
		}
	}

	if err := s.out.Flush(); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.ObserveTick(now)
		// 指标落盘失败不影响采样
		if err := s.metrics.Flush(); err != nil {
			logger.Warn("metrics textfile not written", zap.Error(err))
		}
	}
	return nil
}

// Run 先等待一个间隔再执行 tick，循环直到 ctx 取消（返回 nil）或出现致命错误
func (s *Sampler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("sampler interval must be positive, got %s", s.interval)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.Info("sampler started",
		zap.Duration("interval", s.interval),
		zap.Int("instances", s.Len()))

	for {
		select {
		case <-ctx.Done():
			logger.Info("sampler stopped", zap.Error(ctx.Err()))
			return nil
		case <-ticker.C:
			if err := s.Tick(s.clock()); err != nil {
				return err
			}
		}
	}
}
