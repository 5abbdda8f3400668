package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleToml = `
interval = 5
hostname = "edge01"

[log]
level = "debug"

[sysctl_factor.cpu_temp]
type = "temperature"
target = "hw.sensors.cpu0.temp0"
[sysctl_factor.cpu_temp.settings]
factor = 0.001

[http_latency.web]
type = "latency"
name = "http"
interval = 30
targets = ["https://a.example", "https://b.example"]
target = "https://c.example"
[http_latency.web.settings]
expect = "ok"
timeout = 1.5

[null.zero]
type = "gauge"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shrimp.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleToml))
	require.NoError(t, err)

	assert.Equal(t, 5.0, cfg.Interval)
	assert.Equal(t, 5*time.Second, cfg.IntervalDuration())
	assert.Equal(t, "5", cfg.IntervalString())
	assert.Equal(t, "edge01", cfg.Hostname)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	require.Len(t, cfg.Plugins, 3)

	temp := cfg.Plugins["sysctl_factor"]["cpu_temp"]
	assert.Equal(t, "temperature", temp.Type)
	assert.Equal(t, []string{"hw.sensors.cpu0.temp0"}, temp.ResolvedTargets())
	assert.True(t, temp.HasSettings())
	assert.Equal(t, 0.001, temp.Settings["factor"])
	assert.Zero(t, temp.IntervalOverride())

	web := cfg.Plugins["http_latency"]["web"]
	assert.Equal(t, "http", web.DisplayName("http_latency"))
	assert.Equal(t, 30*time.Second, web.IntervalOverride())
	assert.Equal(t, []string{"https://a.example", "https://b.example", "https://c.example"}, web.ResolvedTargets())

	zero := cfg.Plugins["null"]["zero"]
	assert.Equal(t, "null", zero.DisplayName("null"))
	assert.False(t, zero.HasSettings())
	assert.Nil(t, zero.ResolvedTargets())
}

func TestLoadKeepsInstanceCase(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[log]
Level = "warn"

[null.MyBox]
type = "gauge"
Name = "Shown"
[null.MyBox.settings]
Factor = 2
`))
	require.NoError(t, err)

	require.Contains(t, cfg.Plugins["null"], "MyBox")
	assert.NotContains(t, cfg.Plugins["null"], "mybox")
	box := cfg.Plugins["null"]["MyBox"]
	assert.Equal(t, "Shown", box.DisplayName("null"))
	assert.Equal(t, int64(2), box.Settings["Factor"])
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadKeepsKindCase(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[Null.a]\ntype = \"gauge\"\n"))
	require.NoError(t, err)
	assert.Contains(t, cfg.Plugins, "Null")
	assert.NotContains(t, cfg.Plugins, "null")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[null.a]\ntype = \"gauge\"\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultInterval, cfg.Interval)
	assert.Equal(t, "10", cfg.IntervalString())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"missing type":      "[null.a]\nname = \"x\"\n",
		"negative interval": "[null.a]\ntype = \"gauge\"\ninterval = -1\n",
		"zero global":       "interval = 0\n",
		"bad log level":     "[log]\nlevel = \"loud\"\n",
		"panic log level":   "[log]\nlevel = \"panic\"\n",
		"dpanic log level":  "[log]\nlevel = \"dpanic\"\n",
		"type with slash":   "[null.a]\ntype = \"a/b\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLogLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "fatal"} {
		l := NewDefaultConfig().Log
		l.Level = level
		assert.NoError(t, l.Validate(), level)
	}
	for _, level := range []string{"panic", "dpanic", "trace"} {
		l := NewDefaultConfig().Log
		l.Level = level
		assert.Error(t, l.Validate(), level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestCollectdEnvironment(t *testing.T) {
	t.Setenv("COLLECTD_INTERVAL", "2.5")
	t.Setenv("COLLECTD_HOSTNAME", "from-env")

	cfg, err := Load(writeConfig(t, sampleToml))
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Interval)
	assert.Equal(t, "2.5", cfg.IntervalString())
	assert.Equal(t, "from-env", cfg.Hostname)
}

func TestLoadConfigWithCli(t *testing.T) {
	path := writeConfig(t, sampleToml)

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringP("config", "c", "", "")
	cmd.Flags().Float64("interval", DefaultInterval, "")
	cmd.Flags().String("log.level", "info", "")
	require.NoError(t, cmd.ParseFlags([]string{"-c", path, "--interval", "1"}))

	cfg, err := LoadConfigWithCli(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, cfg.Interval)
	// unchanged flag does not override the file
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestResolveHostname(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Hostname = "pinned"
	name, err := cfg.ResolveHostname()
	require.NoError(t, err)
	assert.Equal(t, "pinned", name)

	cfg.Hostname = ""
	name, err = cfg.ResolveHostname()
	require.NoError(t, err)
	assert.NotEmpty(t, name)
}

func TestDefaultConfigPath(t *testing.T) {
	assert.Equal(t, "collectd-shrimp.toml", filepath.Base(DefaultConfigPath()))
}
