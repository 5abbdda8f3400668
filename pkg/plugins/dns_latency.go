package plugins

import (
	"slices"
	"strconv"
	"time"

	"github.com/miekg/dns"

	"github.com/collectd-shrimp/pkg/config"
	"github.com/collectd-shrimp/pkg/plugin"
	"github.com/collectd-shrimp/pkg/source"
)

type dnsSettings struct {
	Server   string   `mapstructure:"server" validate:"required"`
	Protocol string   `mapstructure:"protocol" validate:"omitempty,oneof=udp tcp tcp-tls"`
	Record   string   `mapstructure:"record"`
	Expect   *string  `mapstructure:"expect"`
	Timeout  *float32 `mapstructure:"timeout" validate:"omitempty,gt=0"`
}

type dnsState struct {
	probe       *source.DNSProbe
	expect      *string
	timeout     time.Duration
	timeoutText string
}

// DNSLatency resolver round-trip time.
type DNSLatency struct{}

func (DNSLatency) Name() string { return "dns_latency" }

func (DNSLatency) Desc() string {
	return `Resolve each target name against settings.server and report the round-trip
time in seconds. Settings: server (required), protocol (udp, tcp, tcp-tls),
record (A by default), expect (one answer must match), timeout (seconds).
Error values:
  -1  transport error
  -2  no answer matches expect
  -3  response code other than NOERROR
A query slower than timeout reports the timeout value.`
}

func (DNSLatency) Pre(instance string, conf *config.PluginConfig, targets []string) error {
	if err := plugin.RequireSettings(instance, conf); err != nil {
		return err
	}
	if err := plugin.RequireTargets(instance, targets); err != nil {
		return err
	}
	var s dnsSettings
	return plugin.DecodeSettings(instance, conf, &s)
}

func (DNSLatency) NewState(instance string, conf *config.PluginConfig, _ []string) (dnsState, error) {
	var s dnsSettings
	if err := plugin.DecodeSettings(instance, conf, &s); err != nil {
		return dnsState{}, err
	}
	if s.Protocol == "" {
		s.Protocol = "udp"
	}
	if s.Record == "" {
		s.Record = "A"
	}

	st := dnsState{expect: s.Expect}
	if s.Timeout != nil {
		st.timeout = time.Duration(float64(*s.Timeout) * float64(time.Second))
		st.timeoutText = strconv.FormatFloat(float64(*s.Timeout), 'f', -1, 32)
	}
	probe, err := source.NewDNSProbe(s.Server, s.Protocol, s.Record, st.timeout)
	if err != nil {
		return dnsState{}, err
	}
	st.probe = probe
	return st, nil
}

func (DNSLatency) Exec(_ string, _ *config.PluginConfig, state *dnsState, targets []string) ([]plugin.Result, error) {
	out := make([]plugin.Result, 0, len(targets))
	for _, name := range targets {
		at := now()
		res := state.probe.Query(name)
		out = append(out, plugin.Result{Time: at, Value: state.value(res), Target: name})
	}
	return out, nil
}

func (st *dnsState) value(res source.DNSResult) string {
	if st.timeout > 0 && res.RTT > st.timeout {
		return st.timeoutText
	}
	if res.Err != nil {
		return plugin.SentinelTransport
	}
	if res.Rcode != dns.RcodeSuccess {
		return plugin.SentinelBody
	}
	if st.expect != nil && !slices.Contains(res.Answers, *st.expect) {
		return plugin.SentinelMismatch
	}
	return plugin.FormatSeconds(res.RTT)
}
