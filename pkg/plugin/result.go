package plugin

import (
	"strconv"
	"time"
)

// Result 一次测量结果
type Result struct {
	Time  time.Time
	Value string
	// Target 产生该结果的目标，可为空
	Target string
	// TypeInstance 显式子标识，优先于 Target
	TypeInstance string
}

// SubID TypeInstance > Target > 空
func (r Result) SubID() string {
	if r.TypeInstance != "" {
		return r.TypeInstance
	}
	return r.Target
}

// 数据层哨兵值
const (
	SentinelTransport = "-1"
	SentinelMismatch  = "-2"
	SentinelBody      = "-3"
)

// StatusSentinel HTTP 状态码 >= 400 时的值：-<status>
func StatusSentinel(code int) string {
	return "-" + strconv.Itoa(code)
}

// FormatSeconds elapsed seconds at 32-bit float precision, shortest form.
func FormatSeconds(d time.Duration) string {
	return strconv.FormatFloat(float64(float32(d.Seconds())), 'f', -1, 32)
}

// FormatFloat shortest decimal that round-trips a float64.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
