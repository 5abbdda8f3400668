//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package source

import "fmt"

func Sysctl(key string) (string, error) {
	return "", fmt.Errorf("sysctl %s: %w", key, ErrUnsupported)
}
