package source

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"time"
)

// QueryTCP connects to target (host:port), optionally writes query, then
// reads either len(expect) bytes and compares them (expectSet) or a single
// byte. timeout bounds the connect and then the exchange; <= 0 is unbounded.
// It returns false when the received bytes differ from expect.
func QueryTCP(target string, timeout time.Duration, query []byte, expect []byte, expectSet bool) (bool, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.Dial("tcp", target)
	if err != nil {
		return false, fmt.Errorf("connect %s: %w", target, err)
	}
	defer conn.Close()

	if timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
			return false, err
		}
	}

	if len(query) > 0 {
		if _, err := conn.Write(query); err != nil {
			return false, fmt.Errorf("write %s: %w", target, err)
		}
	}

	n := 1
	if expectSet {
		n = len(expect)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(conn, buf); err != nil {
		return false, fmt.Errorf("read %s: %w", target, err)
	}
	if !expectSet {
		return true, nil
	}
	return bytes.Equal(buf, expect), nil
}
