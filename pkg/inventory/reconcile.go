package inventory

import "github.com/lanscout/lanscout/pkg/segment"

// Reconcile merges one cycle's host records into the persisted inventory.
//
// Precedence is intentionally asymmetric: for the name field the persisted
// non-empty value wins (user intent), while for every other field a
// non-empty value from this cycle wins (freshness). Entries for IPs not
// seen this cycle are preserved unchanged; nothing is ever pruned here.
func Reconcile(existing map[segment.Addr]*Entry, cycle []*HostRecord, overwriteSegments bool) map[segment.Addr]*Entry {
	merged := make(map[segment.Addr]*Entry, len(existing)+len(cycle))
	for addr, entry := range existing {
		copied := *entry
		merged[addr] = &copied
	}

	for _, rec := range cycle {
		entry, ok := merged[rec.Addr]
		if !ok {
			merged[rec.Addr] = &Entry{
				Addr:          rec.Addr,
				Segments:      rec.Segment,
				Name:          rec.Name,
				AutoName:      rec.AutoName,
				MAC:           rec.MAC,
				OSGuess:       rec.OSGuess,
				SSHBanner:     rec.SSHBanner,
				SMBBanner:     rec.SMBBanner,
				CertCN:        rec.CertCN,
				CertSAN:       rec.CertSAN,
				HTTPServer:    rec.HTTPServer,
				HTTPPoweredBy: rec.HTTPPoweredBy,
				HTTPWWWAuth:   rec.HTTPWWWAuth,
				FaviconHash:   rec.FaviconHash,
				MDNSServices:  rec.MDNSServices,
				SSDPServer:    rec.SSDPServer,
				SSDPUSN:       rec.SSDPUSN,
				SNMPSysName:   rec.SNMPSysName,
				SNMPSysDescr:  rec.SNMPSysDescr,
			}
			continue
		}

		if entry.Name == "" {
			if rec.Name != "" {
				entry.Name = rec.Name
			} else {
				entry.Name = rec.AutoName
			}
		}
		if overwriteSegments {
			entry.Segments = rec.Segment
		}
		entry.AutoName = pick(entry.AutoName, rec.AutoName)
		entry.MAC = pick(entry.MAC, rec.MAC)
		entry.OSGuess = pick(entry.OSGuess, rec.OSGuess)
		entry.SSHBanner = pick(entry.SSHBanner, rec.SSHBanner)
		entry.SMBBanner = pick(entry.SMBBanner, rec.SMBBanner)
		entry.CertCN = pick(entry.CertCN, rec.CertCN)
		entry.CertSAN = pick(entry.CertSAN, rec.CertSAN)
		entry.HTTPServer = pick(entry.HTTPServer, rec.HTTPServer)
		entry.HTTPPoweredBy = pick(entry.HTTPPoweredBy, rec.HTTPPoweredBy)
		entry.HTTPWWWAuth = pick(entry.HTTPWWWAuth, rec.HTTPWWWAuth)
		entry.FaviconHash = pick(entry.FaviconHash, rec.FaviconHash)
		entry.MDNSServices = pick(entry.MDNSServices, rec.MDNSServices)
		entry.SSDPServer = pick(entry.SSDPServer, rec.SSDPServer)
		entry.SSDPUSN = pick(entry.SSDPUSN, rec.SSDPUSN)
		entry.SNMPSysName = pick(entry.SNMPSysName, rec.SNMPSysName)
		entry.SNMPSysDescr = pick(entry.SNMPSysDescr, rec.SNMPSysDescr)
	}

	return merged
}

// pick prefers the freshly observed value unless it is empty.
func pick(persisted, observed string) string {
	if observed != "" {
		return observed
	}
	return persisted
}
