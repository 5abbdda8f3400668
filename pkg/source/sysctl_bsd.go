//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package source

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"golang.org/x/sys/unix"
)

// Sysctl reads a sysctl MIB by name. String nodes are returned as is,
// 4 and 8 byte nodes are rendered as decimal integers.
func Sysctl(key string) (string, error) {
	raw, err := sysctlRaw(key)
	if err != nil {
		return "", err
	}
	return renderSysctl(raw), nil
}

func sysctlRaw(key string) ([]byte, error) {
	raw, err := unix.SysctlRaw(key)
	if err != nil {
		return nil, fmt.Errorf("sysctl %s: %w", key, err)
	}
	return raw, nil
}

func renderSysctl(raw []byte) string {
	if s, ok := asText(raw); ok {
		return s
	}
	switch len(raw) {
	case 4:
		return strconv.FormatInt(int64(int32(binary.NativeEndian.Uint32(raw))), 10)
	case 8:
		return strconv.FormatInt(int64(binary.NativeEndian.Uint64(raw)), 10)
	}
	return string(raw)
}

// asText printable bytes terminated by NUL
func asText(raw []byte) (string, bool) {
	if len(raw) == 0 {
		return "", true
	}
	if raw[len(raw)-1] != 0 {
		return "", false
	}
	raw = raw[:len(raw)-1]
	for _, c := range raw {
		if c < 0x20 || c > 0x7e {
			return "", false
		}
	}
	return string(raw), true
}
