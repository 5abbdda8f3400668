package plugin

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/collectd-shrimp/pkg/config"
	"github.com/collectd-shrimp/pkg/logger"
	"github.com/collectd-shrimp/pkg/putval"
)

// Executable 类型擦除后的实例，供 sampler 调度
type Executable interface {
	Kind() string
	Instance() string
	// Exec 执行一次；ran=false 表示本 tick 因实例间隔未到而跳过
	Exec(now time.Time, w *putval.Writer) (ran bool, err error)
}

// Instance 插件实例：配置、目标、状态、调度信息和预计算的 PUTVAL 前缀
type Instance[S any] struct {
	plugin  Plugin[S]
	conf    config.PluginConfig
	name    string
	targets []string

	prefix   string
	interval string
	tick     time.Duration
	every    time.Duration

	last  time.Time
	ran   bool
	state S
}

// NewInstance 校验并初始化实例；interval 为全局 tick 间隔（秒）
func NewInstance[S any](p Plugin[S], conf *config.PluginConfig, hostname, instance string, interval float64) (*Instance[S], error) {
	targets := conf.ResolvedTargets()

	in := &Instance[S]{
		plugin:   p,
		conf:     *conf,
		name:     instance,
		targets:  targets,
		prefix:   putval.Prefix(hostname, conf.DisplayName(p.Name()), instance, conf.Type),
		interval: config.FormatSeconds(interval),
		tick:     time.Duration(interval * float64(time.Second)),
		every:    conf.IntervalOverride(),
	}
	if conf.Interval != nil {
		in.interval = config.FormatSeconds(*conf.Interval)
	}

	for _, t := range targets {
		if strings.Contains(t, `"`) {
			logger.Warn("target contains a double quote and will corrupt the PUTVAL identifier",
				zap.String("plugin", p.Name()), zap.String("instance", instance), zap.String("target", t))
		}
	}

	if err := p.Pre(instance, &in.conf, targets); err != nil {
		return nil, fmt.Errorf("%s.%s: %w", p.Name(), instance, err)
	}
	state, err := p.NewState(instance, &in.conf, targets)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: init state: %w", p.Name(), instance, err)
	}
	in.state = state
	return in, nil
}

func (in *Instance[S]) Kind() string     { return in.plugin.Name() }
func (in *Instance[S]) Instance() string { return in.name }
func (in *Instance[S]) Prefix() string   { return in.prefix }

// IntervalText the interval= field written on every line of this instance
func (in *Instance[S]) IntervalText() string { return in.interval }

// due 实例间隔已到。tick 唤醒时间有抖动，按半个 tick 容差对齐到计划 tick
func (in *Instance[S]) due(now time.Time) bool {
	if in.every <= 0 || !in.ran {
		return true
	}
	return now.Sub(in.last)+in.tick/2 >= in.every
}

// Exec 间隔门控 -> 插件 Exec -> 按结果逐行输出
func (in *Instance[S]) Exec(now time.Time, w *putval.Writer) (bool, error) {
	if !in.due(now) {
		return false, nil
	}
	in.last = now
	in.ran = true

	results, err := in.plugin.Exec(in.name, &in.conf, &in.state, in.targets)
	if err != nil {
		return true, fmt.Errorf("%s.%s: %w", in.plugin.Name(), in.name, err)
	}

	for _, r := range results {
		if r.Time.Before(time.Unix(0, 0)) {
			return true, fmt.Errorf("%s.%s: %w", in.plugin.Name(), in.name, ErrClockBeforeEpoch)
		}
		if err := w.Putval(in.prefix, in.interval, r.Time.Unix(), r.Value, r.SubID()); err != nil {
			return true, err
		}
	}
	return true, nil
}
