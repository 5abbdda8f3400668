package plugins

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/collectd-shrimp/pkg/config"
	"github.com/collectd-shrimp/pkg/plugin"
	"github.com/collectd-shrimp/pkg/source"
)

// Scale output temperature scale
type Scale int

const (
	Celsius Scale = iota
	Kelvin
	Fahrenheit
)

func ParseScale(s string) (Scale, error) {
	switch strings.ToLower(s) {
	case "", "celsius", "c":
		return Celsius, nil
	case "kelvin", "k":
		return Kelvin, nil
	case "fahrenheit", "f":
		return Fahrenheit, nil
	}
	return 0, fmt.Errorf("unknown temperature scale %q", s)
}

func (s Scale) Convert(t source.Temperature) float32 {
	switch s {
	case Kelvin:
		return float32(t.Kelvin())
	case Fahrenheit:
		return float32(t.Fahrenheit())
	default:
		return float32(t.Celsius())
	}
}

// Precision 格式化位数；Shortest 为最短可还原表示
type Precision int

const Shortest Precision = -1

// NewPrecision nil -> Shortest; 0..7 fixed; anything larger -> 8
func NewPrecision(p *int) Precision {
	switch {
	case p == nil:
		return Shortest
	case *p > 7:
		return 8
	default:
		return Precision(*p)
	}
}

func (p Precision) Format(v float32) string {
	if p == Shortest {
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return strconv.FormatFloat(float64(v), 'f', int(p), 32)
}

type tempSettings struct {
	Scale     string `mapstructure:"scale"`
	Precision *int   `mapstructure:"precision" validate:"omitempty,gte=0"`
}

type temperatureReader interface {
	Read() ([]source.Temperature, error)
}

type tempState struct {
	scale     Scale
	precision Precision
	reader    temperatureReader
}

// SysctlTemp sysctl or sensor temperature in the configured scale.
type SysctlTemp struct{}

func (SysctlTemp) Name() string { return "sysctl_temp" }

func (SysctlTemp) Desc() string {
	return "Read a temperature (sysctl key or hardware sensor key) and report it in " +
		"settings.scale (kelvin, celsius or fahrenheit; default celsius) with optional " +
		"settings.precision decimals. An unreadable or unparsable value stops the sampler."
}

func (SysctlTemp) Pre(instance string, conf *config.PluginConfig, targets []string) error {
	if err := plugin.RequireTargets(instance, targets); err != nil {
		return err
	}
	_, err := newTempState(instance, conf)
	return err
}

// NewState resolves each target to a sensor or a sysctl once
func (SysctlTemp) NewState(instance string, conf *config.PluginConfig, targets []string) (tempState, error) {
	st, err := newTempState(instance, conf)
	if err != nil {
		return tempState{}, err
	}
	st.reader = newTemperatureReader(targets)
	return st, nil
}

func newTempState(instance string, conf *config.PluginConfig) (tempState, error) {
	var s tempSettings
	if err := plugin.DecodeSettings(instance, conf, &s); err != nil {
		return tempState{}, err
	}
	scale, err := ParseScale(s.Scale)
	if err != nil {
		return tempState{}, fmt.Errorf("%w: instance %q: %v", plugin.ErrInvalidConfig, instance, err)
	}
	return tempState{scale: scale, precision: NewPrecision(s.Precision)}, nil
}

func (SysctlTemp) Exec(_ string, _ *config.PluginConfig, state *tempState, targets []string) ([]plugin.Result, error) {
	temps, err := state.reader.Read()
	if err != nil {
		return nil, err
	}
	at := now()
	out := make([]plugin.Result, 0, len(targets))
	for i, key := range targets {
		out = append(out, plugin.Result{
			Time:   at,
			Value:  state.precision.Format(state.scale.Convert(temps[i])),
			Target: key,
		})
	}
	return out, nil
}
