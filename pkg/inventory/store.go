package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/lanscout/lanscout/pkg/segment"
)

// StoreHeader is the persisted inventory's column set: the cycle row columns
// minus segment and source.
var StoreHeader = []string{
	"ip", "segments", "name", "auto_name", "mac", "os_guess",
	"ssh_banner", "smb_banner", "cert_cn", "cert_san", "http_server",
	"http_powered_by", "http_www_auth", "favicon_hash", "mdns_services",
	"ssdp_server", "ssdp_usn", "snmp_sysname", "snmp_sysdescr",
}

// legacyColumns maps historical header spellings onto the current field
// names. Any header shape assembled from current or legacy names is
// accepted; anything else is rejected.
var legacyColumns = map[string]string{
	"address":       "ip",
	"network":       "segments",
	"hostname":      "name",
	"auto_hostname": "auto_name",
	"hwaddr":        "mac",
	"os":            "os_guess",
}

// normalizeHeader maps a parsed header row onto current column names,
// rejecting unknown columns and duplicate or missing required ones.
func normalizeHeader(header []string) ([]string, error) {
	known := make(map[string]struct{}, len(StoreHeader))
	for _, col := range StoreHeader {
		known[col] = struct{}{}
	}

	normalized := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, raw := range header {
		col := strings.ToLower(strings.TrimSpace(raw))
		if mapped, ok := legacyColumns[col]; ok {
			col = mapped
		}
		if _, ok := known[col]; !ok {
			return nil, fmt.Errorf("unknown inventory column %q", raw)
		}
		if _, dup := seen[col]; dup {
			return nil, fmt.Errorf("duplicate inventory column %q", raw)
		}
		seen[col] = struct{}{}
		normalized[i] = col
	}
	if _, ok := seen["ip"]; !ok {
		return nil, fmt.Errorf("inventory header is missing the ip column")
	}
	return normalized, nil
}

// Load reads the persisted inventory. A missing file is an empty inventory;
// a malformed header or row is fatal.
func Load(path string) (map[segment.Addr]*Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[segment.Addr]*Entry{}, nil
		}
		return nil, fmt.Errorf("failed to open inventory %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Read(f)
}

// Read parses inventory rows from r. Exposed separately from Load for
// testing against in-memory data.
func Read(r io.Reader) (map[segment.Addr]*Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse inventory: %w", err)
	}
	if len(rows) == 0 {
		return map[segment.Addr]*Entry{}, nil
	}

	columns, err := normalizeHeader(rows[0])
	if err != nil {
		return nil, err
	}

	entries := make(map[segment.Addr]*Entry, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("inventory row %d: %d fields, header has %d", i+2, len(row), len(columns))
		}
		entry := &Entry{}
		var ipText string
		for j, col := range columns {
			value := row[j]
			switch col {
			case "ip":
				ipText = value
			case "segments":
				entry.Segments = value
			case "name":
				entry.Name = value
			case "auto_name":
				entry.AutoName = value
			case "mac":
				entry.MAC = value
			case "os_guess":
				entry.OSGuess = value
			case "ssh_banner":
				entry.SSHBanner = value
			case "smb_banner":
				entry.SMBBanner = value
			case "cert_cn":
				entry.CertCN = value
			case "cert_san":
				entry.CertSAN = value
			case "http_server":
				entry.HTTPServer = value
			case "http_powered_by":
				entry.HTTPPoweredBy = value
			case "http_www_auth":
				entry.HTTPWWWAuth = value
			case "favicon_hash":
				entry.FaviconHash = value
			case "mdns_services":
				entry.MDNSServices = value
			case "ssdp_server":
				entry.SSDPServer = value
			case "ssdp_usn":
				entry.SSDPUSN = value
			case "snmp_sysname":
				entry.SNMPSysName = value
			case "snmp_sysdescr":
				entry.SNMPSysDescr = value
			}
		}
		addr, err := segment.ParseAddr(ipText)
		if err != nil {
			return nil, fmt.Errorf("inventory row %d: %w", i+2, err)
		}
		entry.Addr = addr
		entries[addr] = entry
	}
	return entries, nil
}

// Save rewrites the whole inventory sorted ascending by address.
func Save(path string, entries map[segment.Addr]*Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create inventory %s: %w", path, err)
	}
	if err := Write(f, entries); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Write serializes the inventory to w in StoreHeader order.
func Write(w io.Writer, entries map[segment.Addr]*Entry) error {
	addrs := make([]segment.Addr, 0, len(entries))
	for addr := range entries {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	writer := csv.NewWriter(w)
	if err := writer.Write(StoreHeader); err != nil {
		return fmt.Errorf("failed to write inventory header: %w", err)
	}
	for _, addr := range addrs {
		e := entries[addr]
		row := []string{
			addr.String(), e.Segments, e.Name, e.AutoName, e.MAC,
			e.OSGuess, e.SSHBanner, e.SMBBanner, e.CertCN, e.CertSAN,
			e.HTTPServer, e.HTTPPoweredBy, e.HTTPWWWAuth, e.FaviconHash,
			e.MDNSServices, e.SSDPServer, e.SSDPUSN, e.SNMPSysName,
			e.SNMPSysDescr,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write inventory row for %s: %w", addr, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
