package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/host"
)

// PluginConfig 单个插件实例配置块：[<kind>.<instance>]
type PluginConfig struct {
	Type     string                 `mapstructure:"type" validate:"required" comment:"collectd 类型名（types.db）"`
	Name     string                 `mapstructure:"name" comment:"覆盖 PUTVAL 中的插件显示名"`
	Interval *float64               `mapstructure:"interval" validate:"omitempty,gt=0" comment:"实例采样间隔（秒），为空则每个 tick 都执行"`
	Target   *string                `mapstructure:"target" comment:"单个目标"`
	Targets  []string               `mapstructure:"targets" comment:"目标列表"`
	Settings map[string]interface{} `mapstructure:"settings" comment:"插件类型专属设置"`
}

// ResolvedTargets targets 在前，target 在后；都未设置返回 nil
func (p *PluginConfig) ResolvedTargets() []string {
	var out []string
	out = append(out, p.Targets...)
	if p.Target != nil {
		out = append(out, *p.Target)
	}
	return out
}

// HasSettings settings 表是否存在
func (p *PluginConfig) HasSettings() bool {
	return p.Settings != nil
}

// IntervalOverride 实例级间隔，未设置返回 0
func (p *PluginConfig) IntervalOverride() time.Duration {
	if p.Interval == nil {
		return 0
	}
	return time.Duration(*p.Interval * float64(time.Second))
}

// DisplayName PUTVAL 中使用的插件名：name 覆盖，否则为 kind
func (p *PluginConfig) DisplayName(kind string) string {
	if p.Name != "" {
		return p.Name
	}
	return kind
}

// validatePlugins 每个实例块做 tag 校验
func (c *Config) validatePlugins() error {
	for kind, instances := range c.Plugins {
		if strings.TrimSpace(kind) == "" {
			return fmt.Errorf("plugin kind cannot be empty")
		}
		for name, block := range instances {
			if err := valid.Struct(block); err != nil {
				return fmt.Errorf("[%s.%s]: %w", kind, name, err)
			}
			if strings.ContainsAny(block.Type, " \t\"/") {
				return fmt.Errorf("[%s.%s]: type %q contains whitespace, quote or slash", kind, name, block.Type)
			}
		}
	}
	return nil
}

// ResolveHostname 主机名解析：配置/环境变量 > gopsutil host.Info > os.Hostname
func (c *Config) ResolveHostname() (string, error) {
	if c.Hostname != "" {
		return c.Hostname, nil
	}
	if info, err := host.Info(); err == nil && info.Hostname != "" {
		return info.Hostname, nil
	}
	name, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("resolve hostname: %w", err)
	}
	return name, nil
}
