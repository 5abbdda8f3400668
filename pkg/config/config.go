package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var valid = validator.New()

// DefaultInterval 默认全局采样间隔（秒）
const DefaultInterval = 10.0

// Config 全局配置结构体
// 除 interval/hostname/banner/log/metrics 之外的顶层表全部视为插件类型：[<kind>.<instance>]
type Config struct {
	Interval float64       `mapstructure:"interval" validate:"required,gt=0" comment:"全局采样间隔（秒）"`
	Hostname string        `mapstructure:"hostname" validate:"omitempty,hostname_rfc1123" comment:"PUTVAL 标识中的主机名"`
	Banner   bool          `mapstructure:"banner" comment:"启动时在 stderr 打印 banner"`
	Log      ZapLogConfig  `mapstructure:"log" comment:"日志配置"`
	Metrics  MetricsConfig `mapstructure:"metrics" comment:"自监控指标配置"`

	// Plugins kind -> instance -> block
	Plugins map[string]map[string]PluginConfig `mapstructure:"-" validate:"-"`

	// Rest 收集未识别的顶层键（viper 已转小写），解码后丢弃；插件表从文件原样解析
	Rest map[string]interface{} `mapstructure:",remain" validate:"-"`
}

// globalKeys 非插件的顶层键
var globalKeys = map[string]bool{
	"interval": true,
	"hostname": true,
	"banner":   true,
	"log":      true,
	"metrics":  true,
}

// ZapLogConfig 日志配置
type ZapLogConfig struct {
	Level         string `mapstructure:"level" env:"SHRIMP_LOG_LEVEL" validate:"required,oneof=debug info warn error fatal" comment:"日志级别" default:"info"`
	Format        string `mapstructure:"format" env:"SHRIMP_LOG_FORMAT" validate:"required,oneof=json console" comment:"stderr 日志格式（json/console）" default:"console"`
	Path          string `mapstructure:"path" env:"SHRIMP_LOG_PATH" comment:"日志文件目录，为空则只写 stderr" default:""`
	MaxAgeDays    int    `mapstructure:"max_age_days" env:"SHRIMP_LOG_MAX_AGE_DAYS" validate:"gte=0" comment:"日志文件最大保存天数" default:"7"`
	RotationHours int    `mapstructure:"rotation_hours" env:"SHRIMP_LOG_ROTATION_HOURS" validate:"gt=0" comment:"日志轮转周期（小时）" default:"24"`
}

// MetricsConfig 自监控指标配置
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile" env:"SHRIMP_METRICS_TEXTFILE" comment:"node_exporter textfile 输出路径，为空则关闭"`
}

// NewDefaultConfig 创建默认配置
func NewDefaultConfig() *Config {
	return &Config{
		Interval: DefaultInterval,
		Log: ZapLogConfig{
			Level:         "info",
			Format:        "console",
			Path:          "",
			MaxAgeDays:    7,
			RotationHours: 24,
		},
		Plugins: map[string]map[string]PluginConfig{},
	}
}

// DefaultConfigPath 默认配置文件路径
func DefaultConfigPath() string {
	etc := "/etc"
	if runtime.GOOS == "freebsd" {
		etc = "/usr/local/etc"
	}
	return filepath.Join(etc, "collectd-shrimp.toml")
}

// boundFlags flags that map onto config keys
var boundFlags = []string{
	"interval",
	"hostname",
	"banner",
	"log.level",
	"log.format",
	"log.path",
	"log.max_age_days",
	"log.rotation_hours",
	"metrics.textfile",
}

// LoadConfigWithCli (Flags + TOML + ENV)
// 配置文件路径优先级：位置参数 > --config > DefaultConfigPath
func LoadConfigWithCli(cmd *cobra.Command, args []string) (*Config, error) {
	v := viper.New()

	// 1. 绑定 Cobra Flags → Viper
	for _, key := range boundFlags {
		if f := cmd.Flags().Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", key, err)
			}
		}
	}

	// 2. 读取配置文件
	configFile, _ := cmd.Flags().GetString("config")
	if len(args) > 0 && args[0] != "" {
		configFile = args[0]
	}
	if configFile == "" {
		configFile = DefaultConfigPath()
	}

	return load(v, configFile)
}

// Load 从文件加载配置（无 CLI）
func Load(path string) (*Config, error) {
	return load(viper.New(), path)
}

func load(v *viper.Viper, path string) (*Config, error) {
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("toml")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	// 3. 环境变量：collectd exec 插件注入 COLLECTD_INTERVAL / COLLECTD_HOSTNAME
	_ = v.BindEnv("interval", "COLLECTD_INTERVAL")
	_ = v.BindEnv("hostname", "COLLECTD_HOSTNAME")
	v.SetEnvPrefix("SHRIMP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. 插件表：viper 会把键转成小写，实例名必须保留原始大小写
	tables, err := readPluginTables(path)
	if err != nil {
		return nil, err
	}

	cfg, err := decodeConfig(v.AllSettings(), tables)
	if err != nil {
		return nil, err
	}

	// 5. 校验配置
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// readPluginTables 直接用 go-toml 解析文件，返回除全局键外的顶层表（键保持原样）
func readPluginTables(path string) (map[string]interface{}, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	tables := map[string]interface{}{}
	if err := toml.Unmarshal(b, &tables); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	for key := range tables {
		if globalKeys[strings.ToLower(key)] {
			delete(tables, key)
		}
	}
	return tables, nil
}

// decodeConfig 全局键来自 viper settings，插件表来自 tables
func decodeConfig(settings map[string]interface{}, tables map[string]interface{}) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := decode(settings, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Rest = nil

	for kind, raw := range tables {
		instances := map[string]PluginConfig{}
		if err := decode(raw, &instances); err != nil {
			return nil, fmt.Errorf("decode plugin section [%s]: %w", kind, err)
		}
		cfg.Plugins[kind] = instances
	}
	return cfg, nil
}

func decode(input interface{}, result interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           result,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("new decoder: %w", err)
	}
	return decoder.Decode(input)
}

// IntervalDuration 全局采样间隔
func (c *Config) IntervalDuration() time.Duration {
	return time.Duration(c.Interval * float64(time.Second))
}

// IntervalString 协议中 interval= 字段的文本
func (c *Config) IntervalString() string {
	return FormatSeconds(c.Interval)
}

// FormatSeconds renders seconds as the shortest decimal that round-trips.
func FormatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

// Validate 配置校验
func (c *Config) Validate() error {
	if err := valid.Struct(c); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.validatePlugins(); err != nil {
		return err
	}
	return nil
}
