//go:build linux

package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ProcSysRoot procfs sysctl 根目录，测试时可替换
var ProcSysRoot = "/proc/sys"

// Sysctl reads a dotted sysctl key from /proc/sys (kernel.hostname ->
// /proc/sys/kernel/hostname). Values are whitespace trimmed.
func Sysctl(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || strings.ContainsRune(key, '/') {
		return "", fmt.Errorf("sysctl: invalid key %q", key)
	}
	path := filepath.Join(ProcSysRoot, strings.ReplaceAll(key, ".", string(filepath.Separator)))
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("sysctl %s: %w", key, err)
	}
	return strings.TrimSpace(string(b)), nil
}
