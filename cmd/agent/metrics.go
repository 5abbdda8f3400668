package agent

import (
	"github.com/spf13/pflag"
)

func initMetricsFlags(f *pflag.FlagSet) {
	f.String("metrics.textfile", defaultCfg.Metrics.Textfile,
		"-> node_exporter textfile path for self metrics, empty disables | 自监控指标 textfile 路径")
}
