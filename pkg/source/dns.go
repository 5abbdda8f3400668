package source

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// DNSProbe sends single-question queries to one resolver.
type DNSProbe struct {
	client *dns.Client
	server string
	qtype  uint16
}

// DNSResult RTT is the round-trip reported by the client, or the time spent
// before failing when Err is set.
type DNSResult struct {
	RTT     time.Duration
	Rcode   int
	Answers []string
	Err     error
}

// NewDNSProbe protocol is "udp", "tcp" or "tcp-tls"; record is an RR type
// mnemonic such as "A" or "AAAA". server without a port gets :53.
func NewDNSProbe(server, protocol, record string, timeout time.Duration) (*DNSProbe, error) {
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}
	qtype, ok := dns.StringToType[strings.ToUpper(record)]
	if !ok {
		return nil, fmt.Errorf("unknown dns record type %q", record)
	}
	switch protocol {
	case "udp", "tcp", "tcp-tls":
	default:
		return nil, fmt.Errorf("unknown dns protocol %q", protocol)
	}

	c := &dns.Client{Net: protocol}
	if timeout > 0 {
		c.Timeout = timeout
	}
	return &DNSProbe{client: c, server: server, qtype: qtype}, nil
}

// Query asks for name. Answers hold the RDATA text of every answer record
// (e.g. "192.0.2.1" for A).
func (p *DNSProbe) Query(name string) DNSResult {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), p.qtype)
	m.RecursionDesired = true

	start := time.Now()
	resp, rtt, err := p.client.Exchange(m, p.server)
	if err != nil {
		return DNSResult{RTT: time.Since(start), Err: err}
	}

	res := DNSResult{RTT: rtt, Rcode: resp.Rcode}
	for _, rr := range resp.Answer {
		res.Answers = append(res.Answers, strings.TrimPrefix(rr.String(), rr.Header().String()))
	}
	return res
}

// Server resolver address in host:port form
func (p *DNSProbe) Server() string {
	return p.server
}
