package plugin

import (
	"fmt"

	"github.com/collectd-shrimp/pkg/config"
)

func RequireSettings(instance string, conf *config.PluginConfig) error {
	if !conf.HasSettings() {
		return fmt.Errorf("%w: instance %q: settings required", ErrInvalidConfig, instance)
	}
	return nil
}

// RequireNoSettings an explicit empty table is rejected too
func RequireNoSettings(instance string, conf *config.PluginConfig) error {
	if conf.HasSettings() {
		return fmt.Errorf("%w: instance %q: settings not allowed", ErrInvalidConfig, instance)
	}
	return nil
}

func RequireTargets(instance string, targets []string) error {
	if len(targets) == 0 {
		return fmt.Errorf("%w: instance %q: target or targets required", ErrInvalidConfig, instance)
	}
	return nil
}

func RequireNoTargets(instance string, targets []string) error {
	if len(targets) > 0 {
		return fmt.Errorf("%w: instance %q: targets not allowed", ErrInvalidConfig, instance)
	}
	return nil
}
