// Package source holds the raw measurement adapters used by the plugins:
// sysctl keys, temperatures, integer files and network probes.
package source

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnsupported sysctl is not available on this platform
var ErrUnsupported = errors.New("sysctl not supported on this platform")

// SysctlInt reads a sysctl key and parses it as a signed 64-bit integer.
func SysctlInt(key string) (int64, error) {
	raw, err := Sysctl(key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("sysctl %s: parse %q as integer: %w", key, raw, err)
	}
	return v, nil
}
