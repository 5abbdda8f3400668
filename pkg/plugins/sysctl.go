package plugins

import (
	"errors"
	"fmt"
	"strings"

	"github.com/collectd-shrimp/pkg/config"
	"github.com/collectd-shrimp/pkg/plugin"
)

// ErrMultiField a sysctl value with several whitespace separated fields
// (kernel.printk) cannot be a single PUTVAL value
var ErrMultiField = errors.New("sysctl value has more than one field")

// Sysctl reports sysctl values as read.
type Sysctl struct{}

func (Sysctl) Name() string { return "sysctl" }

func (Sysctl) Desc() string {
	return "Read sysctl keys (one per target) and report their raw value. A key that cannot be read, or whose value has " +
		"more than one field (e.g. kernel.printk), stops the sampler."
}

func (Sysctl) Pre(instance string, conf *config.PluginConfig, targets []string) error {
	if err := plugin.RequireNoSettings(instance, conf); err != nil {
		return err
	}
	return plugin.RequireTargets(instance, targets)
}

func (Sysctl) NewState(string, *config.PluginConfig, []string) (plugin.EmptyState, error) {
	return plugin.EmptyState{}, nil
}

func (Sysctl) Exec(_ string, _ *config.PluginConfig, _ *plugin.EmptyState, targets []string) ([]plugin.Result, error) {
	out := make([]plugin.Result, 0, len(targets))
	for _, key := range targets {
		v, err := readSysctl(key)
		if err != nil {
			return nil, err
		}
		if strings.ContainsAny(v, " \t\n") {
			return nil, fmt.Errorf("sysctl %s = %q: %w", key, v, ErrMultiField)
		}
		out = append(out, plugin.Result{Time: now(), Value: v, Target: key})
	}
	return out, nil
}
