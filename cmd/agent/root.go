package agent

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/collectd-shrimp/pkg/config"
	"github.com/collectd-shrimp/pkg/logger"
	"github.com/collectd-shrimp/pkg/metrics"
	"github.com/collectd-shrimp/pkg/plugins"
	"github.com/collectd-shrimp/pkg/sampler"
	"github.com/collectd-shrimp/pkg/signal"
	"github.com/collectd-shrimp/pkg/util"
)

var (
	cfgFile    string
	once       bool
	defaultCfg = config.NewDefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "collectd-shrimp [config]",
	Short: "Periodic sampler emitting collectd PUTVAL lines for the exec plugin",
	Long: `collectd-shrimp runs the configured plugin instances every interval and
prints one collectd PUTVAL line per measurement on stdout. Logs go to stderr.

The configuration file is the first argument, else --config, else ` + config.DefaultConfigPath() + `.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfigWithCli(cmd, args)
		if err != nil {
			// 统一输出错误到 stderr，不返回给 cobra
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "check the configuration file path or pass it with -c\n")
			os.Exit(1)
		}
		return run(cmd.Context(), cfg)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "-> Configuration file path | 配置文件路径")
	// 注册分组 flag
	f := rootCmd.PersistentFlags()
	initSamplerFlags(f)
	initMetricsFlags(f)
	initLogFlags(f)

	rootCmd.AddCommand(pluginsCmd)
}

func run(ctx context.Context, cfg *config.Config) error {
	// 1. 初始化日志（stderr + 可选文件）
	zl, err := logger.InitLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	logger.SetDefaultComponent("sampler")

	if cfg.Banner {
		util.PrintBanner(os.Stderr, "collectd-shrimp", "cyan")
	}

	// 2. 主机名
	hostname, err := cfg.ResolveHostname()
	if err != nil {
		logger.Fatal("cannot resolve hostname", zap.Error(err))
	}

	// 3. 自监控指标（无 HTTP 服务，可选 textfile）
	sm := metrics.NewSamplerMetrics(
		metrics.NewMetricFactory(metrics.NewPromRegistry(nil)),
		cfg.Metrics.Textfile,
	)

	// 4. 加载插件实例，任何配置错误直接退出
	instances, err := plugins.Load(cfg, hostname)
	if err != nil {
		logger.Fatal("invalid plugin configuration", zap.Error(err))
	}

	s := sampler.NewSampler(cfg.IntervalDuration(), os.Stdout, sampler.WithMetrics(sm))
	for _, in := range instances {
		s.Register(in)
		logger.Debug("plugin instance loaded", zap.String("plugin", in.Kind()), zap.String("instance", in.Instance()))
	}
	logger.Info("plugins loaded",
		zap.String("hostname", hostname),
		zap.String("interval", cfg.IntervalString()),
		zap.Int("instances", len(instances)))

	if once {
		if err := s.Tick(time.Now()); err != nil {
			logger.Fatal("plugin execution failed", zap.Error(err))
		}
		return nil
	}

	// 5. 运行直到 SIGINT/SIGTERM
	ctx, cancel := signal.WithShutdown(ctx, zl)
	defer cancel()
	if err := s.Run(ctx); err != nil {
		logger.Fatal("plugin execution failed", zap.Error(err))
	}
	return nil
}
