package source

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"
)

// ErrNotNumeric the varbind carries no numeric value
var ErrNotNumeric = errors.New("snmp value is not numeric")

// SNMPProbe community-based (v1/v2c) GET client parameters.
type SNMPProbe struct {
	Host      string
	Port      uint16
	Community string
	Version   gosnmp.SnmpVersion
	Timeout   time.Duration
	Retries   int
}

// ParseSNMPVersion "1", "2c" (default) or "2".
func ParseSNMPVersion(v string) (gosnmp.SnmpVersion, error) {
	switch strings.ToLower(v) {
	case "1":
		return gosnmp.Version1, nil
	case "", "2c", "2":
		return gosnmp.Version2c, nil
	default:
		return 0, fmt.Errorf("unsupported snmp version %q", v)
	}
}

// Get fetches oids in a single request over a fresh connection.
func (p *SNMPProbe) Get(oids []string) ([]gosnmp.SnmpPDU, error) {
	client := &gosnmp.GoSNMP{
		Target:    p.Host,
		Port:      p.Port,
		Community: p.Community,
		Version:   p.Version,
		Timeout:   p.Timeout,
		Retries:   p.Retries,
		MaxOids:   gosnmp.MaxOids,
	}
	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("snmp connect %s: %w", p.Host, err)
	}
	defer client.Conn.Close()

	pkt, err := client.Get(oids)
	if err != nil {
		return nil, fmt.Errorf("snmp get %s: %w", p.Host, err)
	}
	return pkt.Variables, nil
}

// SNMPValue numeric reading of one OID; Err wraps ErrNotNumeric when the
// object is missing or not a number.
type SNMPValue struct {
	OID   string
	Value float64
	Err   error
}

// GetNumeric Get followed by Numeric on every varbind.
func (p *SNMPProbe) GetNumeric(oids []string) ([]SNMPValue, error) {
	pdus, err := p.Get(oids)
	if err != nil {
		return nil, err
	}
	out := make([]SNMPValue, 0, len(pdus))
	for _, pdu := range pdus {
		v, err := Numeric(pdu)
		out = append(out, SNMPValue{OID: pdu.Name, Value: v, Err: err})
	}
	return out, nil
}

// NormalizeOID adds the leading dot gosnmp uses in responses.
func NormalizeOID(oid string) string {
	if strings.HasPrefix(oid, ".") {
		return oid
	}
	return "." + oid
}

// Numeric converts a varbind into a float. Octet strings holding a decimal
// number are accepted.
func Numeric(pdu gosnmp.SnmpPDU) (float64, error) {
	switch pdu.Type {
	case gosnmp.Integer, gosnmp.Counter32, gosnmp.Gauge32, gosnmp.TimeTicks,
		gosnmp.Counter64, gosnmp.Uinteger32:
		f, _ := new(big.Float).SetInt(gosnmp.ToBigInt(pdu.Value)).Float64()
		return f, nil
	case gosnmp.OpaqueFloat:
		if v, ok := pdu.Value.(float32); ok {
			return float64(v), nil
		}
	case gosnmp.OpaqueDouble:
		if v, ok := pdu.Value.(float64); ok {
			return v, nil
		}
	case gosnmp.OctetString:
		if b, ok := pdu.Value.([]byte); ok {
			if v, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64); err == nil {
				return v, nil
			}
		}
	}
	return 0, fmt.Errorf("%s (%s): %w", pdu.Name, pdu.Type, ErrNotNumeric)
}
