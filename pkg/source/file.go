package source

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadInt reads a whole file, trims surrounding whitespace and parses a
// signed 64-bit integer (sysfs style files such as thermal_zone0/temp).
func ReadInt(path string) (int64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	text := strings.TrimSpace(string(b))
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("read %s: parse %q as integer: %w", path, text, err)
	}
	return v, nil
}
