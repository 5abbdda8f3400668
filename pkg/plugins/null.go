package plugins

import (
	"github.com/collectd-shrimp/pkg/config"
	"github.com/collectd-shrimp/pkg/plugin"
)

// Null always reports 0. Useful to check the collectd side of the pipe.
type Null struct{}

func (Null) Name() string { return "null" }

func (Null) Desc() string {
	return "Always reports 0. Takes no settings and no targets; useful to check that collectd receives values."
}

func (Null) Pre(instance string, conf *config.PluginConfig, targets []string) error {
	if err := plugin.RequireNoSettings(instance, conf); err != nil {
		return err
	}
	return plugin.RequireNoTargets(instance, targets)
}

func (Null) NewState(string, *config.PluginConfig, []string) (plugin.EmptyState, error) {
	return plugin.EmptyState{}, nil
}

func (Null) Exec(string, *config.PluginConfig, *plugin.EmptyState, []string) ([]plugin.Result, error) {
	return []plugin.Result{{Time: now(), Value: "0"}}, nil
}
