package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SamplerMetrics 采样器自监控指标
type SamplerMetrics struct {
	Executions *prometheus.CounterVec
	Skipped    *prometheus.CounterVec
	Samples    *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	Ticks      prometheus.Counter
	LastTick   prometheus.Gauge

	gatherer prometheus.Gatherer
	textfile string
}

// NewSamplerMetrics 创建并注册全部采样器指标；textfile 为空则不落盘
func NewSamplerMetrics(f *MetricFactory, textfile string) *SamplerMetrics {
	return &SamplerMetrics{
		Executions: f.NewPluginExecutionsTotal(),
		Skipped:    f.NewPluginSkippedTotal(),
		Samples:    f.NewPluginSamplesTotal(),
		Duration:   f.NewPluginDurationSeconds(),
		Ticks:      f.NewTicksTotal(),
		LastTick:   f.NewLastTickTimestamp(),
		gatherer:   f.Registry(),
		textfile:   textfile,
	}
}

// ObserveExec 记录一次实例调度结果
func (s *SamplerMetrics) ObserveExec(plugin, instance string, ran bool, lines int, took time.Duration) {
	if !ran {
		s.Skipped.WithLabelValues(plugin, instance).Inc()
		return
	}
	s.Executions.WithLabelValues(plugin, instance).Inc()
	s.Samples.WithLabelValues(plugin, instance).Add(float64(lines))
	s.Duration.WithLabelValues(plugin, instance).Observe(took.Seconds())
}

// ObserveTick 记录 tick 完成
func (s *SamplerMetrics) ObserveTick(at time.Time) {
	s.Ticks.Inc()
	s.LastTick.Set(float64(at.Unix()))
}

// Flush 写 node_exporter textfile（未配置时为空操作）
func (s *SamplerMetrics) Flush() error {
	if s.textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(s.textfile, s.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", s.textfile, err)
	}
	return nil
}
