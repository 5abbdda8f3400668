package source

import (
	"fmt"
	"strconv"
	"strings"
)

const zeroCelsius = 273.15

// Temperature absolute temperature, convertible to any scale
type Temperature struct {
	kelvin float64
}

func FromKelvin(k float64) Temperature  { return Temperature{kelvin: k} }
func FromCelsius(c float64) Temperature { return Temperature{kelvin: c + zeroCelsius} }
func FromFahrenheit(f float64) Temperature {
	return Temperature{kelvin: (f-32)*5/9 + zeroCelsius}
}

func (t Temperature) Kelvin() float64     { return t.kelvin }
func (t Temperature) Celsius() float64    { return t.kelvin - zeroCelsius }
func (t Temperature) Fahrenheit() float64 { return t.Celsius()*9/5 + 32 }

// ParseTemperature parses "45.0C", "318.15K", "113F" or a bare number
// (Celsius), as printed by sysctl(8) and hwmon-style sources.
func ParseTemperature(s string) (Temperature, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Temperature{}, fmt.Errorf("parse temperature: empty value")
	}
	unit := s[len(s)-1]
	num := s
	switch unit {
	case 'C', 'c', 'K', 'k', 'F', 'f':
		num = strings.TrimSpace(s[:len(s)-1])
	default:
		unit = 'C'
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Temperature{}, fmt.Errorf("parse temperature %q: %w", s, err)
	}
	switch unit {
	case 'K', 'k':
		return FromKelvin(v), nil
	case 'F', 'f':
		return FromFahrenheit(v), nil
	default:
		return FromCelsius(v), nil
	}
}

// TemperatureSource reads a fixed list of keys. Whether a key names a
// hardware sensor or a sysctl is decided once, when the source is built.
type TemperatureSource struct {
	keys    []string
	sensors map[string]bool
}

func NewTemperatureSource(keys []string) *TemperatureSource {
	s := &TemperatureSource{keys: keys, sensors: map[string]bool{}}
	if len(keys) == 0 {
		return s
	}
	current := sensorReadings()
	for _, k := range keys {
		if _, ok := current[k]; ok {
			s.sensors[k] = true
		}
	}
	return s
}

// IsSensor reports whether key was resolved to a hardware sensor.
func (s *TemperatureSource) IsSensor(key string) bool { return s.sensors[key] }

// Read returns one temperature per key, in key order. Sensors are walked at
// most once per call and only when a sensor key is configured.
func (s *TemperatureSource) Read() ([]Temperature, error) {
	var current map[string]float64
	if len(s.sensors) > 0 {
		current = sensorReadings()
	}
	out := make([]Temperature, 0, len(s.keys))
	for _, k := range s.keys {
		if s.sensors[k] {
			c, ok := current[k]
			if !ok {
				return nil, fmt.Errorf("temperature sensor %s no longer reported", k)
			}
			out = append(out, FromCelsius(c))
			continue
		}
		t, err := readSysctlTemperature(k)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
