//go:build linux

package source

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/host"
)

// sensorsTemperatures 测试时可替换
var sensorsTemperatures = host.SensorsTemperatures

// sensorReadings hwmon/thermal sensors reported by gopsutil, keyed by
// SensorKey (e.g. "coretemp_package_id_0"), in Celsius.
func sensorReadings() map[string]float64 {
	// gopsutil returns partial results together with per-sensor warnings
	stats, _ := sensorsTemperatures()
	out := make(map[string]float64, len(stats))
	for _, st := range stats {
		out[st.SensorKey] = st.Temperature
	}
	return out
}

func readSysctlTemperature(key string) (Temperature, error) {
	raw, err := Sysctl(key)
	if err != nil {
		return Temperature{}, fmt.Errorf("temperature %s: %w", key, err)
	}
	return ParseTemperature(raw)
}
