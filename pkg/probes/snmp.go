package probes

import (
	"context"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"
)

const (
	oidSysDescr = ".1.3.6.1.2.1.1.1.0"
	oidSysName  = ".1.3.6.1.2.1.1.5.0"
)

// SNMPInfo queries sysName and sysDescr over SNMPv2c. Hosts without an SNMP
// agent simply time out, so retries stay at zero to keep the probe cheap.
func SNMPInfo(ctx context.Context, host, community string, timeout time.Duration) (sysName, sysDescr string) {
	select {
	case <-ctx.Done():
		return "", ""
	default:
	}

	conn := &gosnmp.GoSNMP{
		Target:    host,
		Port:      161,
		Community: community,
		Version:   gosnmp.Version2c,
		Timeout:   timeout,
		Retries:   0,
		Transport: "udp",
	}
	if err := conn.Connect(); err != nil {
		return "", ""
	}
	defer func() {
		_ = conn.Conn.Close()
	}()

	result, err := conn.Get([]string{oidSysName, oidSysDescr})
	if err != nil {
		return "", ""
	}
	for _, variable := range result.Variables {
		value := pduString(variable)
		if value == "" {
			continue
		}
		switch variable.Name {
		case oidSysName:
			sysName = value
		case oidSysDescr:
			sysDescr = value
		}
	}
	return sysName, sysDescr
}

func pduString(pdu gosnmp.SnmpPDU) string {
	switch pdu.Type {
	case gosnmp.OctetString:
		if b, ok := pdu.Value.([]byte); ok {
			return strings.TrimSpace(string(b))
		}
	}
	return ""
}
