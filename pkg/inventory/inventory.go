// Package inventory holds the per-cycle host records, the durable per-IP
// inventory entries, and the reconciliation between them.
package inventory

import "github.com/lanscout/lanscout/pkg/segment"

// Source tags where a host's display name came from. Exactly one value per
// record per cycle; "none" means no naming method succeeded.
type Source string

const (
	SourceManual  Source = "manual"
	SourceRDNS    Source = "rdns"
	SourceMDNS    Source = "mdns"
	SourceNetBIOS Source = "netbios"
	SourceHTTP    Source = "http"
	SourceCert    Source = "cert"
	SourceSSH     Source = "ssh"
	SourceNone    Source = "none"
)

// HostRecord is the cycle-scoped working record for one alive host. It is
// created once the host is confirmed alive, mutated in place by the
// enrichment probes and the naming resolver, and discarded after being
// emitted and merged. Each record is exclusively owned by the goroutine
// processing it, so no locking is involved.
type HostRecord struct {
	Segment  string
	Addr     segment.Addr
	Segments string
	Name     string
	AutoName string

	MAC           string
	OSGuess       string
	SSHBanner     string
	SMBBanner     string
	CertCN        string
	CertSAN       string
	HTTPServer    string
	HTTPPoweredBy string
	HTTPWWWAuth   string
	FaviconHash   string
	MDNSServices  string
	SSDPServer    string
	SSDPUSN       string
	SNMPSysName   string
	SNMPSysDescr  string

	Source Source

	// cycle-scoped working fields, not persisted
	TTL          int
	MDNSHostname string
	HTTPTitle    string
	HTTPName     string
}

// Entry is the durable per-IP inventory record. Name, once set, is never
// auto-overwritten; Segments is user-settable and only replaced when the
// overwrite toggle is on.
type Entry struct {
	Addr     segment.Addr
	Segments string
	Name     string
	AutoName string

	MAC           string
	OSGuess       string
	SSHBanner     string
	SMBBanner     string
	CertCN        string
	CertSAN       string
	HTTPServer    string
	HTTPPoweredBy string
	HTTPWWWAuth   string
	FaviconHash   string
	MDNSServices  string
	SSDPServer    string
	SSDPUSN       string
	SNMPSysName   string
	SNMPSysDescr  string
}

// RowHeader is the fixed column order for cycle output rows.
var RowHeader = []string{
	"segment", "ip", "segments", "name", "auto_name", "mac", "os_guess",
	"ssh_banner", "smb_banner", "cert_cn", "cert_san", "http_server",
	"http_powered_by", "http_www_auth", "favicon_hash", "mdns_services",
	"ssdp_server", "ssdp_usn", "snmp_sysname", "snmp_sysdescr", "source",
}

// Row renders the record in RowHeader order.
func (r *HostRecord) Row() []string {
	return []string{
		r.Segment, r.Addr.String(), r.Segments, r.Name, r.AutoName, r.MAC,
		r.OSGuess, r.SSHBanner, r.SMBBanner, r.CertCN, r.CertSAN,
		r.HTTPServer, r.HTTPPoweredBy, r.HTTPWWWAuth, r.FaviconHash,
		r.MDNSServices, r.SSDPServer, r.SSDPUSN, r.SNMPSysName,
		r.SNMPSysDescr, string(r.Source),
	}
}

// Seed copies the persisted fields of an entry into a fresh record so this
// cycle starts from what is already known.
func (r *HostRecord) Seed(e *Entry) {
	if e == nil {
		return
	}
	r.Segments = e.Segments
	r.Name = e.Name
	r.AutoName = e.AutoName
	r.MAC = e.MAC
	r.OSGuess = e.OSGuess
	r.SSHBanner = e.SSHBanner
	r.SMBBanner = e.SMBBanner
	r.CertCN = e.CertCN
	r.CertSAN = e.CertSAN
	r.HTTPServer = e.HTTPServer
	r.HTTPPoweredBy = e.HTTPPoweredBy
	r.HTTPWWWAuth = e.HTTPWWWAuth
	r.FaviconHash = e.FaviconHash
	r.MDNSServices = e.MDNSServices
	r.SSDPServer = e.SSDPServer
	r.SSDPUSN = e.SSDPUSN
	r.SNMPSysName = e.SNMPSysName
	r.SNMPSysDescr = e.SNMPSysDescr
}
