// Package putval writes collectd plain-text protocol lines.
//
//	PUTVAL "<host>/<plugin>-<instance>/<type>"[-"<sub>"] interval=<interval> <time>:<value>
package putval

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Prefix builds the identifier part of a PUTVAL line. It is computed once per
// instance.
func Prefix(hostname, plugin, instance, typ string) string {
	return `PUTVAL "` + hostname + "/" + plugin + "-" + instance + "/" + typ + `"`
}

// Writer buffers PUTVAL lines until Flush.
type Writer struct {
	w     *bufio.Writer
	lines uint64
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Putval writes one line. An empty subID omits the type-instance suffix.
// subID is written verbatim.
func (w *Writer) Putval(prefix, interval string, t int64, value, subID string) error {
	buf := make([]byte, 0, len(prefix)+len(subID)+len(interval)+len(value)+40)
	buf = append(buf, prefix...)
	if subID != "" {
		buf = append(buf, `-"`...)
		buf = append(buf, subID...)
		buf = append(buf, '"')
	}
	buf = append(buf, " interval="...)
	buf = append(buf, interval...)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, t, 10)
	buf = append(buf, ':')
	buf = append(buf, value...)
	buf = append(buf, '\n')

	if _, err := w.w.Write(buf); err != nil {
		return fmt.Errorf("write putval: %w", err)
	}
	w.lines++
	return nil
}

func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("flush putval: %w", err)
	}
	return nil
}

// Lines total lines written since creation.
func (w *Writer) Lines() uint64 {
	return w.lines
}
