// Package plugins holds the measurement plugin kinds and builds configured
// instances of them.
package plugins

import (
	"fmt"
	"sort"
	"time"

	"github.com/collectd-shrimp/pkg/config"
	"github.com/collectd-shrimp/pkg/plugin"
	"github.com/collectd-shrimp/pkg/source"
)

// Info name and description of a kind
type Info struct {
	Name string
	Desc string
}

type builder func(conf *config.PluginConfig, hostname, instance string, interval float64) (plugin.Executable, error)

type kind struct {
	Info
	build builder
}

var (
	kinds  []kind
	byName = map[string]kind{}
)

// raw sources, replaced in tests
var (
	now           = time.Now
	readSysctl    = source.Sysctl
	readSysctlInt = source.SysctlInt
	readInt       = source.ReadInt

	newTemperatureReader = func(keys []string) temperatureReader { return source.NewTemperatureSource(keys) }
)

func register[S any](p plugin.Plugin[S]) {
	k := kind{
		Info: Info{Name: p.Name(), Desc: p.Desc()},
		build: func(conf *config.PluginConfig, hostname, instance string, interval float64) (plugin.Executable, error) {
			in, err := plugin.NewInstance[S](p, conf, hostname, instance, interval)
			if err != nil {
				return nil, err
			}
			return in, nil
		},
	}
	if _, dup := byName[k.Name]; dup {
		panic("plugins: duplicate kind " + k.Name)
	}
	kinds = append(kinds, k)
	byName[k.Name] = k
}

// registration order is execution order
func init() {
	register[plugin.EmptyState](Null{})
	register[plugin.EmptyState](Sysctl{})
	register[factorState](SysctlFactor{})
	register[tempState](SysctlTemp{})
	register[factorState](FileFactor{})
	register[httpState](HTTPLatency{})
	register[telnetState](TelnetLatency{})
	register[dnsState](DNSLatency{})
	register[snmpState](SNMPFactor{})
}

// Kinds all known kinds in execution order
func Kinds() []Info {
	out := make([]Info, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, k.Info)
	}
	return out
}

// Load builds one Executable per configured (kind, instance). Kinds run in
// registration order, instances sorted by name. Any invalid block or unknown
// kind fails the whole load.
func Load(cfg *config.Config, hostname string) ([]plugin.Executable, error) {
	unknown := make([]string, 0)
	for name := range cfg.Plugins {
		if _, ok := byName[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: unknown plugin kind(s) %v", plugin.ErrInvalidConfig, unknown)
	}

	var out []plugin.Executable
	for _, k := range kinds {
		instances := cfg.Plugins[k.Name]
		names := make([]string, 0, len(instances))
		for name := range instances {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			conf := instances[name]
			e, err := k.build(&conf, hostname, name, cfg.Interval)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
	}
	return out, nil
}
