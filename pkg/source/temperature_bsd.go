//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package source

import (
	"encoding/binary"
	"fmt"
)

// no sensor enumeration; every key is a sysctl
func sensorReadings() map[string]float64 { return nil }

// readSysctlTemperature reads a temperature sysctl. Integer nodes use the kernel's
// "IK" format (tenths of a Kelvin, e.g. dev.cpu.0.temperature); text nodes
// are parsed with ParseTemperature.
func readSysctlTemperature(key string) (Temperature, error) {
	raw, err := sysctlRaw(key)
	if err != nil {
		return Temperature{}, err
	}
	if _, text := asText(raw); !text && len(raw) == 4 {
		deciKelvin := int32(binary.NativeEndian.Uint32(raw))
		return FromKelvin(float64(deciKelvin) / 10), nil
	}
	t, err := ParseTemperature(renderSysctl(raw))
	if err != nil {
		return Temperature{}, fmt.Errorf("temperature %s: %w", key, err)
	}
	return t, nil
}
