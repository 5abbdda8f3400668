//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package source

import "fmt"

func sensorReadings() map[string]float64 { return nil }

func readSysctlTemperature(key string) (Temperature, error) {
	return Temperature{}, fmt.Errorf("temperature %s: %w", key, ErrUnsupported)
}
