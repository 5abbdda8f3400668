package plugins

import (
	"time"

	"github.com/collectd-shrimp/pkg/config"
	"github.com/collectd-shrimp/pkg/plugin"
	"github.com/collectd-shrimp/pkg/source"
)

type telnetSettings struct {
	Query   *string  `mapstructure:"query"`
	Expect  *string  `mapstructure:"expect"`
	Timeout *float32 `mapstructure:"timeout" validate:"omitempty,gt=0"`
}

// readMode what to read after connecting
type readMode int

const (
	readFirstByte readMode = iota
	readExpected
)

type telnetState struct {
	mode    readMode
	query   []byte
	expect  []byte
	timeout time.Duration
}

// TelnetLatency TCP connect-and-read latency.
type TelnetLatency struct{}

func (TelnetLatency) Name() string { return "telnet_latency" }

func (TelnetLatency) Desc() string {
	return `Connect over TCP to each target (host:port), optionally send settings.query,
and report the time in seconds until the first byte arrives, or until as many
bytes as settings.expect have been read and compared.
Error values:
  -1  connection or IO error (including timeout)
  -2  received bytes differ from expect`
}

func (TelnetLatency) Pre(instance string, conf *config.PluginConfig, targets []string) error {
	if err := plugin.RequireTargets(instance, targets); err != nil {
		return err
	}
	var s telnetSettings
	return plugin.DecodeSettings(instance, conf, &s)
}

func (TelnetLatency) NewState(instance string, conf *config.PluginConfig, _ []string) (telnetState, error) {
	var s telnetSettings
	if err := plugin.DecodeSettings(instance, conf, &s); err != nil {
		return telnetState{}, err
	}
	st := telnetState{mode: readFirstByte}
	if s.Query != nil {
		st.query = []byte(*s.Query)
	}
	if s.Expect != nil {
		st.mode = readExpected
		st.expect = []byte(*s.Expect)
	}
	if s.Timeout != nil {
		st.timeout = time.Duration(float64(*s.Timeout) * float64(time.Second))
	}
	return st, nil
}

func (TelnetLatency) Exec(_ string, _ *config.PluginConfig, state *telnetState, targets []string) ([]plugin.Result, error) {
	out := make([]plugin.Result, 0, len(targets))
	for _, target := range targets {
		at := now()
		start := time.Now()
		ok, err := source.QueryTCP(target, state.timeout, state.query, state.expect, state.mode == readExpected)

		var v string
		switch {
		case err != nil:
			v = plugin.SentinelTransport
		case !ok:
			v = plugin.SentinelMismatch
		default:
			v = plugin.FormatSeconds(time.Since(start))
		}
		out = append(out, plugin.Result{Time: at, Value: v, Target: target})
	}
	return out, nil
}
