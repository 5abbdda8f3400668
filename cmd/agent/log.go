package agent

import (
	"github.com/spf13/pflag"
)

func initLogFlags(f *pflag.FlagSet) {
	logPrefix := "log."

	f.String(
		logPrefix+"level",
		defaultCfg.Log.Level,
		"-> Log level [debug,info,warn,error] | 日志级别")
	f.String(
		logPrefix+"format",
		defaultCfg.Log.Format,
		"-> stderr log format [console,json] | 日志格式 [console,json]")
	f.String(
		logPrefix+"path",
		defaultCfg.Log.Path,
		"-> Rotated log file directory, empty logs to stderr only | 日志路径")
	f.Int(
		logPrefix+"max_age_days",
		defaultCfg.Log.MaxAgeDays,
		"-> Maximum retention days of log files | 保存天数")
	f.Int(
		logPrefix+"rotation_hours",
		defaultCfg.Log.RotationHours,
		"-> Log file rotation period in hours | 轮转周期（小时）")
}
