package source

import (
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemperature(t *testing.T) {
	tests := []struct {
		in      string
		celsius float64
	}{
		{"45.0C", 45},
		{"318.15K", 45},
		{"113F", 45},
		{" 21.5 ", 21.5},
	}
	for _, tt := range tests {
		got, err := ParseTemperature(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.celsius, got.Celsius(), 1e-9, tt.in)
	}

	_, err := ParseTemperature("warm")
	assert.Error(t, err)
	_, err = ParseTemperature("")
	assert.Error(t, err)
}

func TestTemperatureScales(t *testing.T) {
	temp := FromKelvin(318.15)
	assert.InDelta(t, 318.15, temp.Kelvin(), 1e-9)
	assert.InDelta(t, 45.0, temp.Celsius(), 1e-9)
	assert.InDelta(t, 113.0, temp.Fahrenheit(), 1e-9)
}

func TestReadInt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temp")
	require.NoError(t, os.WriteFile(path, []byte("32128\n"), 0o644))
	v, err := ReadInt(path)
	require.NoError(t, err)
	assert.Equal(t, int64(32128), v)

	require.NoError(t, os.WriteFile(path, []byte("n/a"), 0o644))
	_, err = ReadInt(path)
	assert.Error(t, err)

	_, err = ReadInt(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestHTTPProbe(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("ok\n"))
	}))
	defer srv.Close()

	p := NewHTTPProbe(time.Second, "")
	res := p.Fetch(srv.URL, true)
	require.NoError(t, res.Err)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "ok\n", res.Body)
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Positive(t, res.Elapsed)

	res = NewHTTPProbe(0, "probe/1").Fetch(srv.URL+"/missing", false)
	require.NoError(t, res.Err)
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, "probe/1", gotUA)

	res = p.Fetch("http://127.0.0.1:1/", false)
	assert.Error(t, res.Err)
}

func serveTCP(t *testing.T, reply string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				_, _ = c.Write([]byte(reply))
				time.Sleep(50 * time.Millisecond)
			}(conn)
		}
	}()
	return ln.Addr().String()
}

func TestQueryTCP(t *testing.T) {
	addr := serveTCP(t, "PONG")

	ok, err := QueryTCP(addr, time.Second, []byte("PING\n"), []byte("PONG"), true)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = QueryTCP(addr, time.Second, nil, []byte("PANG"), true)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = QueryTCP(addr, time.Second, nil, nil, false)
	require.NoError(t, err)
	assert.True(t, ok)

	// longer than what the server sends
	_, err = QueryTCP(addr, time.Second, nil, []byte("PONG!"), true)
	assert.Error(t, err)
}

func TestQueryTCPRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = QueryTCP(addr, time.Second, nil, nil, false)
	assert.Error(t, err)
}

func startDNS(t *testing.T, handler dns.HandlerFunc) string {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	srv := &dns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go func() { _ = srv.ActivateAndServe() }()
	t.Cleanup(func() { _ = srv.Shutdown() })
	<-started
	return pc.LocalAddr().String()
}

func TestDNSProbe(t *testing.T) {
	addr := startDNS(t, func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(r)
		if r.Question[0].Name == "example.test." {
			rr, _ := dns.NewRR("example.test. 60 IN A 192.0.2.1")
			m.Answer = append(m.Answer, rr)
		} else {
			m.Rcode = dns.RcodeNameError
		}
		_ = w.WriteMsg(m)
	})

	p, err := NewDNSProbe(addr, "udp", "a", time.Second)
	require.NoError(t, err)

	res := p.Query("example.test")
	require.NoError(t, res.Err)
	assert.Equal(t, dns.RcodeSuccess, res.Rcode)
	assert.Equal(t, []string{"192.0.2.1"}, res.Answers)

	res = p.Query("missing.test")
	require.NoError(t, res.Err)
	assert.Equal(t, dns.RcodeNameError, res.Rcode)
}

func TestNewDNSProbe(t *testing.T) {
	p, err := NewDNSProbe("192.0.2.53", "udp", "AAAA", 0)
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.53:53", p.Server())

	_, err = NewDNSProbe("192.0.2.53", "quic", "A", 0)
	assert.Error(t, err)
	_, err = NewDNSProbe("192.0.2.53", "udp", "BOGUS", 0)
	assert.Error(t, err)
}

func TestSNMPNumeric(t *testing.T) {
	v, err := Numeric(gosnmp.SnmpPDU{Name: ".1", Type: gosnmp.Counter64, Value: uint64(1 << 40)})
	require.NoError(t, err)
	assert.Equal(t, float64(1<<40), v)

	v, err = Numeric(gosnmp.SnmpPDU{Name: ".1", Type: gosnmp.Integer, Value: -7})
	require.NoError(t, err)
	assert.Equal(t, -7.0, v)

	v, err = Numeric(gosnmp.SnmpPDU{Name: ".1", Type: gosnmp.OctetString, Value: []byte("42.5")})
	require.NoError(t, err)
	assert.Equal(t, 42.5, v)

	_, err = Numeric(gosnmp.SnmpPDU{Name: ".1", Type: gosnmp.NoSuchObject})
	assert.ErrorIs(t, err, ErrNotNumeric)
	_, err = Numeric(gosnmp.SnmpPDU{Name: ".1", Type: gosnmp.OctetString, Value: []byte("eth0")})
	assert.ErrorIs(t, err, ErrNotNumeric)
}

func TestParseSNMPVersion(t *testing.T) {
	v, err := ParseSNMPVersion("")
	require.NoError(t, err)
	assert.Equal(t, gosnmp.Version2c, v)
	v, err = ParseSNMPVersion("1")
	require.NoError(t, err)
	assert.Equal(t, gosnmp.Version1, v)
	_, err = ParseSNMPVersion("3")
	assert.Error(t, err)
}
