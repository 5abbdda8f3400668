package plugin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/collectd-shrimp/pkg/config"
)

func TestSettingsPresence(t *testing.T) {
	none := &config.PluginConfig{Type: "gauge"}
	empty := &config.PluginConfig{Type: "gauge", Settings: map[string]interface{}{}}
	some := &config.PluginConfig{Type: "gauge", Settings: map[string]interface{}{"factor": 2}}

	assert.ErrorIs(t, RequireSettings("i", none), ErrInvalidConfig)
	assert.NoError(t, RequireSettings("i", empty))
	assert.NoError(t, RequireSettings("i", some))

	assert.NoError(t, RequireNoSettings("i", none))
	assert.ErrorIs(t, RequireNoSettings("i", empty), ErrInvalidConfig)
	assert.ErrorIs(t, RequireNoSettings("i", some), ErrInvalidConfig)
}

func TestTargetPresence(t *testing.T) {
	assert.ErrorIs(t, RequireTargets("i", nil), ErrInvalidConfig)
	assert.NoError(t, RequireTargets("i", []string{"a"}))
	assert.NoError(t, RequireNoTargets("i", nil))
	assert.ErrorIs(t, RequireNoTargets("i", []string{"a"}), ErrInvalidConfig)
}

type factorSettings struct {
	Factor  float64       `mapstructure:"factor" validate:"required"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func TestDecodeSettings(t *testing.T) {
	var s factorSettings
	conf := &config.PluginConfig{Settings: map[string]interface{}{"factor": "0.5", "timeout": "2s"}}
	assert.NoError(t, DecodeSettings("i", conf, &s))
	assert.Equal(t, 0.5, s.Factor)
	assert.Equal(t, 2*time.Second, s.Timeout)

	var missing factorSettings
	assert.ErrorIs(t, DecodeSettings("i", &config.PluginConfig{Settings: map[string]interface{}{}}, &missing), ErrInvalidConfig)

	var unknown factorSettings
	conf = &config.PluginConfig{Settings: map[string]interface{}{"factor": 1, "colour": "red"}}
	assert.ErrorIs(t, DecodeSettings("i", conf, &unknown), ErrInvalidConfig)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1.5", FormatSeconds(1500*time.Millisecond))
	assert.Equal(t, "1", FormatSeconds(time.Second))
	assert.Equal(t, "32.128", FormatFloat(32128*0.001))
	assert.Equal(t, "-404", StatusSentinel(404))
}
