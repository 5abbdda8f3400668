package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "collectd_shrimp"

// MetricFactory 指标工厂，用于统一创建并注册指标（counter/gauge/histogram）
type MetricFactory struct {
	reg Registers
}

// NewMetricFactory 创建指标工厂
func NewMetricFactory(reg Registers) *MetricFactory {
	return &MetricFactory{reg: reg}
}

// Registry 工厂使用的注册器
func (m *MetricFactory) Registry() Registers {
	return m.reg
}

// NewPluginExecutionsTotal 实例执行次数
// 标签：plugin 插件类型，instance 实例名
func (m *MetricFactory) NewPluginExecutionsTotal() *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "plugin_executions_total",
		Help:      "Plugin instance executions",
	}, []string{"plugin", "instance"})
	m.reg.MustRegister(c)
	return c
}

// NewPluginSkippedTotal 因实例间隔未到而跳过的 tick 数
func (m *MetricFactory) NewPluginSkippedTotal() *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "plugin_skipped_total",
		Help:      "Ticks skipped because the instance interval had not elapsed",
	}, []string{"plugin", "instance"})
	m.reg.MustRegister(c)
	return c
}

// NewPluginSamplesTotal 输出的 PUTVAL 行数
func (m *MetricFactory) NewPluginSamplesTotal() *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "plugin_samples_total",
		Help:      "PUTVAL lines written per plugin instance",
	}, []string{"plugin", "instance"})
	m.reg.MustRegister(c)
	return c
}

// NewPluginDurationSeconds 单次执行耗时分布
// 分桶：Prometheus 默认分桶 [0.005 ... 10] 秒，覆盖本地读取到网络探测
func (m *MetricFactory) NewPluginDurationSeconds() *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "plugin_duration_seconds",
		Help:      "Plugin instance execution duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"plugin", "instance"})
	m.reg.MustRegister(h)
	return h
}

func (m *MetricFactory) NewTicksTotal() prometheus.Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ticks_total",
		Help:      "Sampler ticks executed",
	})
	m.reg.MustRegister(c)
	return c
}

func (m *MetricFactory) NewLastTickTimestamp() prometheus.Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_tick_timestamp_seconds",
		Help:      "Unix time of the last completed tick",
	})
	m.reg.MustRegister(g)
	return g
}
