package agent

import (
	"github.com/spf13/pflag"
)

func initSamplerFlags(f *pflag.FlagSet) {
	f.Float64("interval", defaultCfg.Interval, "-> Global sampling interval in seconds (overrides COLLECTD_INTERVAL) | 全局采样间隔（秒）")
	f.String("hostname", defaultCfg.Hostname, "-> Host name in PUTVAL identifiers (overrides COLLECTD_HOSTNAME) | PUTVAL 主机名")
	f.Bool("banner", defaultCfg.Banner, "-> Print the startup banner on stderr | 启动时打印 banner")
	f.BoolVar(&once, "once", false, "-> Run a single tick and exit | 只执行一次")
}
