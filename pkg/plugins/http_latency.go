package plugins

import (
	"strconv"
	"strings"
	"time"

	"github.com/collectd-shrimp/pkg/config"
	"github.com/collectd-shrimp/pkg/plugin"
	"github.com/collectd-shrimp/pkg/source"
)

type httpSettings struct {
	Expect    *string  `mapstructure:"expect"`
	Timeout   *float32 `mapstructure:"timeout" validate:"omitempty,gt=0"`
	UserAgent string   `mapstructure:"user_agent"`
}

type httpState struct {
	probe   *source.HTTPProbe
	expect  *string
	timeout time.Duration
	// timeoutText value reported when the request took longer than timeout
	timeoutText string
}

// HTTPLatency GET latency with status and body checks.
type HTTPLatency struct{}

func (HTTPLatency) Name() string { return "http_latency" }

func (HTTPLatency) Desc() string {
	return `Fetch each target URL with HTTP GET and report the time taken in seconds.
Settings: expect (trimmed body must match), timeout (seconds), user_agent.
Error values:
  -1    transport error
  -2    body differs from expect
  -3    body could not be read
  -xxx  HTTP error status (404, 503, ...)
A request slower than timeout reports the timeout value.`
}

func (HTTPLatency) Pre(instance string, conf *config.PluginConfig, targets []string) error {
	if err := plugin.RequireTargets(instance, targets); err != nil {
		return err
	}
	var s httpSettings
	return plugin.DecodeSettings(instance, conf, &s)
}

func (HTTPLatency) NewState(instance string, conf *config.PluginConfig, _ []string) (httpState, error) {
	var s httpSettings
	if err := plugin.DecodeSettings(instance, conf, &s); err != nil {
		return httpState{}, err
	}
	st := httpState{expect: s.Expect}
	if s.Timeout != nil {
		st.timeout = time.Duration(float64(*s.Timeout) * float64(time.Second))
		st.timeoutText = strconv.FormatFloat(float64(*s.Timeout), 'f', -1, 32)
	}
	st.probe = source.NewHTTPProbe(st.timeout, s.UserAgent)
	return st, nil
}

func (HTTPLatency) Exec(_ string, _ *config.PluginConfig, state *httpState, targets []string) ([]plugin.Result, error) {
	out := make([]plugin.Result, 0, len(targets))
	for _, url := range targets {
		at := now()
		res := state.probe.Fetch(url, state.expect != nil)
		out = append(out, plugin.Result{Time: at, Value: state.value(res), Target: url})
	}
	return out, nil
}

func (st *httpState) value(res source.HTTPResult) string {
	if st.timeout > 0 && res.Elapsed > st.timeout {
		return st.timeoutText
	}
	switch {
	case res.Err != nil:
		return plugin.SentinelTransport
	case res.Status >= 400:
		return plugin.StatusSentinel(res.Status)
	case st.expect == nil:
		return plugin.FormatSeconds(res.Elapsed)
	case res.BodyErr != nil:
		return plugin.SentinelBody
	case strings.TrimSpace(res.Body) != *st.expect:
		return plugin.SentinelMismatch
	default:
		return plugin.FormatSeconds(res.Elapsed)
	}
}
