package plugins

import (
	"time"

	"github.com/collectd-shrimp/pkg/config"
	"github.com/collectd-shrimp/pkg/plugin"
	"github.com/collectd-shrimp/pkg/source"
)

type snmpSettings struct {
	Host      string   `mapstructure:"host" validate:"required"`
	Port      uint16   `mapstructure:"port"`
	Community string   `mapstructure:"community"`
	Version   string   `mapstructure:"version" validate:"omitempty,oneof=1 2 2c"`
	Timeout   *float32 `mapstructure:"timeout" validate:"omitempty,gt=0"`
	Retries   int      `mapstructure:"retries" validate:"gte=0"`
	Factor    *float64 `mapstructure:"factor"`
}

type snmpState struct {
	probe  *source.SNMPProbe
	factor float64
}

// snmpGet 测试时可替换
var snmpGet = (*source.SNMPProbe).GetNumeric

// SNMPFactor numeric SNMP object scaled by a factor.
type SNMPFactor struct{}

func (SNMPFactor) Name() string { return "snmp_factor" }

func (SNMPFactor) Desc() string {
	return `GET each target OID from settings.host (SNMP v1/v2c) in a single request and
report its numeric value multiplied by settings.factor (default 1).
Settings: host (required), port (161), community (public), version (2c),
timeout (seconds, default 5), retries, factor.
Error values:
  -1  transport error
  -2  object missing or not numeric`
}

func (SNMPFactor) Pre(instance string, conf *config.PluginConfig, targets []string) error {
	if err := plugin.RequireSettings(instance, conf); err != nil {
		return err
	}
	if err := plugin.RequireTargets(instance, targets); err != nil {
		return err
	}
	var s snmpSettings
	return plugin.DecodeSettings(instance, conf, &s)
}

func (SNMPFactor) NewState(instance string, conf *config.PluginConfig, _ []string) (snmpState, error) {
	var s snmpSettings
	if err := plugin.DecodeSettings(instance, conf, &s); err != nil {
		return snmpState{}, err
	}
	version, err := source.ParseSNMPVersion(s.Version)
	if err != nil {
		return snmpState{}, err
	}

	p := &source.SNMPProbe{
		Host:      s.Host,
		Port:      161,
		Community: "public",
		Version:   version,
		Timeout:   5 * time.Second,
		Retries:   s.Retries,
	}
	if s.Port != 0 {
		p.Port = s.Port
	}
	if s.Community != "" {
		p.Community = s.Community
	}
	if s.Timeout != nil {
		p.Timeout = time.Duration(float64(*s.Timeout) * float64(time.Second))
	}

	st := snmpState{probe: p, factor: 1}
	if s.Factor != nil {
		st.factor = *s.Factor
	}
	return st, nil
}

func (SNMPFactor) Exec(_ string, _ *config.PluginConfig, state *snmpState, targets []string) ([]plugin.Result, error) {
	at := now()
	values, err := snmpGet(state.probe, targets)

	byOID := make(map[string]source.SNMPValue, len(values))
	for _, v := range values {
		byOID[source.NormalizeOID(v.OID)] = v
	}

	out := make([]plugin.Result, 0, len(targets))
	for _, oid := range targets {
		r := plugin.Result{Time: at, Target: oid}
		v, found := byOID[source.NormalizeOID(oid)]
		switch {
		case err != nil:
			r.Value = plugin.SentinelTransport
		case !found || v.Err != nil:
			r.Value = plugin.SentinelMismatch
		default:
			r.Value = plugin.FormatFloat(v.Value * state.factor)
		}
		out = append(out, r)
	}
	return out, nil
}
