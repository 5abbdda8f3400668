package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//Validate 规则说明
//字段	已通过 tag 校验	额外业务校验
//Level	oneof 预校验	再转小写 lookup
//Format	oneof=json console	无
//Path	可为空	非空时必须是可创建的目录
//MaxAgeDays	gte=0	无
//RotationHours	gt=0	无

// Validate 日志配置校验
func (l *ZapLogConfig) Validate() error {

	// --- 基础 tag 校验 ---
	if err := valid.Struct(l); err != nil {
		return fmt.Errorf("invalid log config: %w", err)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}
	if !validLevels[strings.ToLower(l.Level)] {
		return fmt.Errorf("log.level invalid (valid: debug/info/warn/error/fatal), got %s", l.Level)
	}

	// 只写 stderr
	if l.Path == "" {
		return nil
	}
	abs, err := filepath.Abs(l.Path)
	if err != nil {
		return fmt.Errorf("log.path cannot be resolved, got %s: %w", l.Path, err)
	}
	if err := ensureDir(abs); err != nil {
		return fmt.Errorf("log.path is not a writable directory, got %s: %w", l.Path, err)
	}
	return nil
}

func ensureDir(path string) error {
	stat, err := os.Stat(path)
	if os.IsNotExist(err) {
		return os.MkdirAll(path, 0755)
	}
	if err != nil {
		return err
	}
	if !stat.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
