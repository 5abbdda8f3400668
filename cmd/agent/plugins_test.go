package agent

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPluginsCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"plugins"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	for _, kind := range []string{"[null]", "[sysctl_temp]", "[http_latency]", "[snmp_factor]"} {
		assert.Contains(t, out.String(), kind)
	}
}

func TestRootFlags(t *testing.T) {
	for _, name := range []string{"config", "interval", "hostname", "once", "banner", "log.level", "log.path", "metrics.textfile"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}
