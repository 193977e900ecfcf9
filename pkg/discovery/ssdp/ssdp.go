// Package ssdp sends a one-shot SSDP discovery multicast and collects the
// unicast responses for a fixed window. Hosts that do not answer (or answer
// with something unparseable) are simply absent from the table.
package ssdp

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/projectdiscovery/gologger"

	"github.com/lanscout/lanscout/pkg/segment"
)

const (
	multicastAddr = "239.255.255.250:1900"
	searchTarget  = "ssdp:all"
)

// Service is what one responder advertised about itself.
type Service struct {
	Server       string
	USN          string
	SearchTarget string
}

// Table holds SSDP responses keyed by responder address.
type Table map[segment.Addr]Service

// Discover performs one M-SEARCH round and reads responses until the window
// closes. Best-effort: any failure yields an empty table.
func Discover(ctx context.Context, window time.Duration) Table {
	table := Table{}
	if window <= 0 {
		window = 3 * time.Second
	}

	dst, err := net.ResolveUDPAddr("udp4", multicastAddr)
	if err != nil {
		return table
	}
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		gologger.Verbose().Msgf("ssdp discovery unavailable: %v", err)
		return table
	}
	defer func() {
		_ = conn.Close()
	}()

	request := strings.Join([]string{
		"M-SEARCH * HTTP/1.1",
		"HOST: " + multicastAddr,
		"MAN: \"ssdp:discover\"",
		fmt.Sprintf("MX: %d", int(window/time.Second)+1),
		"ST: " + searchTarget,
		"", "",
	}, "\r\n")
	if _, err := conn.WriteTo([]byte(request), dst); err != nil {
		gologger.Verbose().Msgf("ssdp discovery send failed: %v", err)
		return table
	}

	deadline := time.Now().Add(window)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	buf := make([]byte, 8192)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return table
		default:
		}
		if err := conn.SetReadDeadline(time.Now().Add(250 * time.Millisecond)); err != nil {
			return table
		}
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			continue
		}
		addr, ok := segment.FromIP(src.IP)
		if !ok {
			continue
		}
		if svc, ok := parseResponse(string(buf[:n])); ok {
			table[addr] = svc
		}
	}
	return table
}

// parseResponse parses an SSDP response's "Key: value" header lines.
func parseResponse(raw string) (Service, bool) {
	var svc Service
	matched := false
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		switch key {
		case "server":
			svc.Server = value
			matched = true
		case "usn":
			svc.USN = value
			matched = true
		case "st":
			svc.SearchTarget = value
			matched = true
		}
	}
	return svc, matched
}
