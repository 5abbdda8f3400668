package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/collectd-shrimp/pkg/config"
)

type Logger = zap.Logger

var (
	baseLogger    *zap.Logger
	defaultFields = struct {
		Component string
	}{Component: "shrimp"}
	mu sync.RWMutex
)

// stdout 只输出 PUTVAL 协议行，所有日志写 stderr
var consoleSink zapcore.WriteSyncer = zapcore.Lock(os.Stderr)

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "dbg", "debug":
		return zapcore.DebugLevel
	case "war", "warn":
		return zapcore.WarnLevel
	case "err", "error":
		return zapcore.ErrorLevel
	case "pan", "panic":
		return zapcore.PanicLevel
	case "fat", "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// InitLogger 初始化全局日志：stderr 控制台 core + 可选 rotatelogs JSON 文件 core
func InitLogger(cfg *config.ZapLogConfig) (*zap.Logger, error) {
	level := parseLevel(cfg.Level)

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder(cfg.Format), consoleSink, level),
	}

	if cfg.Path != "" {
		if err := os.MkdirAll(cfg.Path, 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		maxAge := time.Duration(cfg.MaxAgeDays) * 24 * time.Hour
		rotation := time.Duration(cfg.RotationHours) * time.Hour
		if rotation <= 0 {
			rotation = 24 * time.Hour
		}
		opts := []rotatelogs.Option{rotatelogs.WithRotationTime(rotation)}
		if maxAge > 0 {
			opts = append(opts, rotatelogs.WithMaxAge(maxAge))
		}
		writer, err := rotatelogs.New(filepath.Join(cfg.Path, "collectd-shrimp-%Y%m%d.log"), opts...)
		if err != nil {
			return nil, fmt.Errorf("open rotated log: %w", err)
		}
		cores = append(cores, zapcore.NewCore(jsonEncoder(), zapcore.AddSync(writer), level))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))

	mu.Lock()
	baseLogger = l
	mu.Unlock()
	return l, nil
}

func consoleEncoder(format string) zapcore.Encoder {
	if format == "json" {
		return jsonEncoder()
	}

	// 控制台彩色时间
	timeEncoder := func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(fmt.Sprintf("\033[34m%s\033[0m", t.Format("2006-01-02 15:04:05.000 -07:00")))
	}

	levelEncoder := func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		var levelStr string
		switch level {
		case zapcore.DebugLevel:
			levelStr = "\033[36mDEBUG\033[0m"
		case zapcore.InfoLevel:
			levelStr = "\033[32mINFO \033[0m"
		case zapcore.WarnLevel:
			levelStr = "\033[33mWARN \033[0m"
		case zapcore.ErrorLevel:
			levelStr = "\033[31mERROR\033[0m"
		case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
			levelStr = "\033[35m" + level.CapitalString() + "\033[0m"
		default:
			levelStr = "UNK  "
		}
		enc.AppendString(levelStr)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.ConsoleSeparator = " "
	encCfg.EncodeLevel = levelEncoder
	encCfg.EncodeTime = timeEncoder

	// Caller 两级路径
	encCfg.EncodeCaller = func(c zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		rel := filepath.Join(filepath.Base(filepath.Dir(c.File)), filepath.Base(c.File))
		enc.AppendString(fmt.Sprintf("%s:%d", rel, c.Line))
	}
	return zapcore.NewConsoleEncoder(encCfg)
}

func jsonEncoder() zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05.000 -07:00"))
	}
	encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return zapcore.NewJSONEncoder(encCfg)
}

// SetDefaultComponent 设置默认 component 字段
func SetDefaultComponent(component string) {
	mu.Lock()
	defer mu.Unlock()
	defaultFields.Component = component
}

func GetDefaultComponent() string {
	mu.RLock()
	defer mu.RUnlock()
	return defaultFields.Component
}

func getGID() string {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	idField := strings.Fields(strings.TrimPrefix(string(buf[:n]), "goroutine "))
	if len(idField) > 0 {
		if id, err := strconv.Atoi(idField[0]); err == nil {
			return strconv.Itoa(id)
		}
	}
	return "0"
}

// GetGlobalLogger 未初始化时回退到 stderr 控制台 logger
func GetGlobalLogger() *zap.Logger {
	mu.RLock()
	l := baseLogger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if baseLogger == nil {
		core := zapcore.NewCore(consoleEncoder("console"), consoleSink, zapcore.InfoLevel)
		baseLogger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	}
	return baseLogger
}

func log(level zapcore.Level, msg string, fields ...zapcore.Field) {
	merged := append([]zapcore.Field{
		zap.String("component", GetDefaultComponent()),
		zap.String("goid", getGID()),
	}, fields...)

	l := GetGlobalLogger().WithOptions(zap.AddCallerSkip(1))
	switch level {
	case zapcore.DebugLevel:
		l.Debug(msg, merged...)
	case zapcore.InfoLevel:
		l.Info(msg, merged...)
	case zapcore.WarnLevel:
		l.Warn(msg, merged...)
	case zapcore.ErrorLevel:
		l.Error(msg, merged...)
	case zapcore.PanicLevel:
		l.Panic(msg, merged...)
	case zapcore.FatalLevel:
		l.Fatal(msg, merged...)
	}
}

func Debug(msg string, fields ...zapcore.Field) { log(zapcore.DebugLevel, msg, fields...) }
func Info(msg string, fields ...zapcore.Field)  { log(zapcore.InfoLevel, msg, fields...) }
func Warn(msg string, fields ...zapcore.Field)  { log(zapcore.WarnLevel, msg, fields...) }
func Error(msg string, fields ...zapcore.Field) { log(zapcore.ErrorLevel, msg, fields...) }
func Panic(msg string, fields ...zapcore.Field) { log(zapcore.PanicLevel, msg, fields...) }

// Fatal 记录日志后 os.Exit(1)
func Fatal(msg string, fields ...zapcore.Field) { log(zapcore.FatalLevel, msg, fields...) }

// Sync stderr 上的 Sync 可能返回 EINVAL，忽略
func Sync() error {
	mu.RLock()
	l := baseLogger
	mu.RUnlock()
	if l == nil {
		return nil
	}
	_ = l.Sync()
	return nil
}
