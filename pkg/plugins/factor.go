package plugins

import (
	"github.com/collectd-shrimp/pkg/config"
	"github.com/collectd-shrimp/pkg/plugin"
)

type factorSettings struct {
	Factor *float64 `mapstructure:"factor" validate:"required"`
}

type factorState struct {
	factor float64
}

func preFactor(instance string, conf *config.PluginConfig, targets []string) error {
	if err := plugin.RequireSettings(instance, conf); err != nil {
		return err
	}
	if err := plugin.RequireTargets(instance, targets); err != nil {
		return err
	}
	var s factorSettings
	return plugin.DecodeSettings(instance, conf, &s)
}

func newFactorState(instance string, conf *config.PluginConfig) (factorState, error) {
	var s factorSettings
	if err := plugin.DecodeSettings(instance, conf, &s); err != nil {
		return factorState{}, err
	}
	return factorState{factor: *s.Factor}, nil
}

func execFactor(state *factorState, targets []string, read func(string) (int64, error)) ([]plugin.Result, error) {
	out := make([]plugin.Result, 0, len(targets))
	for _, t := range targets {
		v, err := read(t)
		if err != nil {
			return nil, err
		}
		out = append(out, plugin.Result{
			Time:   now(),
			Value:  plugin.FormatFloat(float64(v) * state.factor),
			Target: t,
		})
	}
	return out, nil
}

// SysctlFactor integer sysctl scaled by a factor.
type SysctlFactor struct{}

func (SysctlFactor) Name() string { return "sysctl_factor" }

func (SysctlFactor) Desc() string {
	return "Read an integer sysctl and multiply it by settings.factor. " +
		"A temperature in millidegrees becomes degrees with a factor of 0.001; " +
		"a page count becomes bytes with a factor of 4096."
}

func (SysctlFactor) Pre(instance string, conf *config.PluginConfig, targets []string) error {
	return preFactor(instance, conf, targets)
}

func (SysctlFactor) NewState(instance string, conf *config.PluginConfig, _ []string) (factorState, error) {
	return newFactorState(instance, conf)
}

func (SysctlFactor) Exec(_ string, _ *config.PluginConfig, state *factorState, targets []string) ([]plugin.Result, error) {
	return execFactor(state, targets, readSysctlInt)
}

// FileFactor integer file content scaled by a factor.
type FileFactor struct{}

func (FileFactor) Name() string { return "file_factor" }

func (FileFactor) Desc() string {
	return "Read an integer from a file (each target is a path, e.g. /sys/class/thermal/thermal_zone0/temp) " +
		"and multiply it by settings.factor."
}

func (FileFactor) Pre(instance string, conf *config.PluginConfig, targets []string) error {
	return preFactor(instance, conf, targets)
}

func (FileFactor) NewState(instance string, conf *config.PluginConfig, _ []string) (factorState, error) {
	return newFactorState(instance, conf)
}

func (FileFactor) Exec(_ string, _ *config.PluginConfig, state *factorState, targets []string) ([]plugin.Result, error) {
	return execFactor(state, targets, readInt)
}
