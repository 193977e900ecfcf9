// Package neighbors reads the local system's neighbor (ARP) cache to map
// IPv4 addresses to hardware addresses. The lookup is one-shot, best-effort
// and never fatal: any failure yields an empty table.
package neighbors

import (
	"context"
	"regexp"
	"strings"

	"github.com/projectdiscovery/gologger"

	"github.com/lanscout/lanscout/pkg/segment"
)

// Table maps an address to its normalized hardware address.
type Table map[segment.Addr]string

// Reader is the capability interface over the platform's neighbor-table
// listing facility.
type Reader interface {
	Read(ctx context.Context) (Table, error)
}

// line shape: an IPv4 address anywhere before a MAC-like token
var neighborLine = regexp.MustCompile(`(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}).*?([0-9a-fA-F]{1,2}(?:[:-][0-9a-fA-F]{1,2}){5})`)

// Snapshot reads the neighbor table once, logging and swallowing any error.
func Snapshot(ctx context.Context, reader Reader) Table {
	table, err := reader.Read(ctx)
	if err != nil {
		gologger.Verbose().Msgf("neighbor table unavailable: %v", err)
		return Table{}
	}
	return table
}

// parseTable extracts IP to MAC pairs from neighbor-listing output. MAC
// separators are normalized to ":" and hex digits lowercased. Incomplete
// entries are skipped.
func parseTable(output string) Table {
	table := Table{}
	for _, line := range strings.Split(output, "\n") {
		matches := neighborLine.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		addr, err := segment.ParseAddr(matches[1])
		if err != nil {
			continue
		}
		mac := NormalizeMAC(matches[2])
		if mac == "" || mac == "00:00:00:00:00:00" {
			continue
		}
		table[addr] = mac
	}
	return table
}

// NormalizeMAC lowercases a hardware address and normalizes separators to
// ":". Returns "" for values that are not MAC-shaped.
func NormalizeMAC(raw string) string {
	mac := strings.ToLower(strings.TrimSpace(raw))
	mac = strings.ReplaceAll(mac, "-", ":")
	parts := strings.Split(mac, ":")
	if len(parts) != 6 {
		return ""
	}
	for i, part := range parts {
		if len(part) == 1 {
			parts[i] = "0" + part
		}
		if len(parts[i]) != 2 {
			return ""
		}
	}
	return strings.Join(parts, ":")
}
