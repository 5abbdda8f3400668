package sampler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collectd-shrimp/pkg/metrics"
	"github.com/collectd-shrimp/pkg/plugin"
	"github.com/collectd-shrimp/pkg/putval"
)

// fakeInstance writes one line per run and records tick times.
type fakeInstance struct {
	name string
	err  error
	skip bool
	runs []time.Time
}

func (f *fakeInstance) Kind() string     { return "fake" }
func (f *fakeInstance) Instance() string { return f.name }

func (f *fakeInstance) Exec(now time.Time, w *putval.Writer) (bool, error) {
	if f.skip {
		return false, nil
	}
	f.runs = append(f.runs, now)
	if f.err != nil {
		return true, f.err
	}
	return true, w.Putval(putval.Prefix("h", "fake", f.name, "gauge"), "1", now.Unix(), "0", "")
}

var _ plugin.Executable = (*fakeInstance)(nil)

// syncBuffer bytes.Buffer safe for the Run goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestTickOrderAndFlush(t *testing.T) {
	var out bytes.Buffer
	s := NewSampler(time.Second, &out)
	a, b := &fakeInstance{name: "a"}, &fakeInstance{name: "b"}
	s.Register(a)
	s.Register(b)
	require.Equal(t, 2, s.Len())

	now := time.Unix(1700000000, 0)
	require.NoError(t, s.Tick(now))

	assert.Equal(t,
		`PUTVAL "h/fake-a/gauge" interval=1 1700000000:0`+"\n"+
			`PUTVAL "h/fake-b/gauge" interval=1 1700000000:0`+"\n",
		out.String())
	assert.Equal(t, []time.Time{now}, a.runs)
}

func TestTickFatalErrorStops(t *testing.T) {
	var out bytes.Buffer
	s := NewSampler(time.Second, &out)
	boom := errors.New("sysctl unreadable")
	first, broken, last := &fakeInstance{name: "a"}, &fakeInstance{name: "b", err: boom}, &fakeInstance{name: "c"}
	s.Register(first)
	s.Register(broken)
	s.Register(last)

	err := s.Tick(time.Unix(1700000000, 0))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, last.runs)
	// lines written before the failure still reach the output
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
}

func TestTickMetrics(t *testing.T) {
	m := metrics.NewSamplerMetrics(metrics.NewMetricFactory(metrics.NewPromRegistry(nil)), "")
	s := NewSampler(time.Second, &bytes.Buffer{}, WithMetrics(m))
	s.Register(&fakeInstance{name: "a"})
	s.Register(&fakeInstance{name: "b", skip: true})

	require.NoError(t, s.Tick(time.Unix(1700000000, 0)))

	assert.Equal(t, 1, executions(t, m, "a"))
	assert.Equal(t, 0, executions(t, m, "b"))
}

func executions(t *testing.T, m *metrics.SamplerMetrics, instance string) int {
	t.Helper()
	c, err := m.Executions.GetMetricWithLabelValues("fake", instance)
	require.NoError(t, err)
	var pb dto.Metric
	require.NoError(t, c.Write(&pb))
	return int(pb.GetCounter().GetValue())
}

func TestRunTicksUntilCancelled(t *testing.T) {
	out := &syncBuffer{}
	clock := time.Unix(1700000000, 0)
	s := NewSampler(10*time.Millisecond, out, WithClock(func() time.Time { return clock }))
	s.Register(&fakeInstance{name: "a"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "\n") >= 3
	}, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunSleepsBeforeFirstTick(t *testing.T) {
	out := &syncBuffer{}
	s := NewSampler(time.Hour, out)
	s.Register(&fakeInstance{name: "a"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, s.Run(ctx))
	assert.Empty(t, out.String())
}

func TestRunReturnsFatalError(t *testing.T) {
	boom := errors.New("clock")
	s := NewSampler(5*time.Millisecond, &bytes.Buffer{})
	s.Register(&fakeInstance{name: "a", err: boom})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.ErrorIs(t, s.Run(ctx), boom)
}

func TestRunRejectsNonPositiveInterval(t *testing.T) {
	assert.Error(t, NewSampler(0, &bytes.Buffer{}).Run(context.Background()))
}
