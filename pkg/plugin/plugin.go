// Package plugin defines the measurement plugin contract and the per-instance
// wrapper that gates, executes and emits a configured plugin instance.
package plugin

import (
	"errors"

	"github.com/collectd-shrimp/pkg/config"
)

var (
	// ErrInvalidConfig 配置块形状错误，启动即失败
	ErrInvalidConfig = errors.New("invalid plugin config")
	// ErrClockBeforeEpoch 系统时钟早于 Unix 纪元
	ErrClockBeforeEpoch = errors.New("measurement time before unix epoch")
)

// Plugin 插件契约，S 为实例运行时状态
//
// Pre 校验 settings / targets 是否存在及 settings 形状；
// NewState 在 Pre 成功后调用一次，结果由 Instance 持有；
// Exec 执行一次测量。数据层故障编码在 Result.Value 中，返回 error 则进程退出。
type Plugin[S any] interface {
	Name() string
	Desc() string
	Pre(instance string, conf *config.PluginConfig, targets []string) error
	NewState(instance string, conf *config.PluginConfig, targets []string) (S, error)
	Exec(instance string, conf *config.PluginConfig, state *S, targets []string) ([]Result, error)
}

// EmptyState 无状态插件使用
type EmptyState struct{}
