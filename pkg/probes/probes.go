// Package probes enriches alive hosts over independent protocol probes.
// Every probe carries its own timeout and degrades to an empty result on
// failure; one host's timeout never affects another host or another probe.
package probes

import (
	"context"
	"fmt"
	"time"

	syncutil "github.com/projectdiscovery/utils/sync"

	"github.com/lanscout/lanscout/pkg/inventory"
)

// DefaultWidth is the default number of hosts enriched in flight, shared
// with the naming phase.
const DefaultWidth = 30

// Options carries per-probe toggles and timeouts. Immutable once built.
type Options struct {
	SSH     bool
	SMB     bool
	TLSCert bool
	HTTP    bool
	Favicon bool
	SNMP    bool

	SSHTimeout     time.Duration
	SMBTimeout     time.Duration
	TLSTimeout     time.Duration
	HTTPTimeout    time.Duration
	FaviconTimeout time.Duration
	SNMPTimeout    time.Duration
	SNMPCommunity  string
}

// DefaultOptions enables every probe with conservative timeouts.
func DefaultOptions() Options {
	return Options{
		SSH:            true,
		SMB:            true,
		TLSCert:        true,
		HTTP:           true,
		Favicon:        true,
		SNMP:           true,
		SSHTimeout:     3 * time.Second,
		SMBTimeout:     2 * time.Second,
		TLSTimeout:     3 * time.Second,
		HTTPTimeout:    5 * time.Second,
		FaviconTimeout: 5 * time.Second,
		SNMPTimeout:    2 * time.Second,
		SNMPCommunity:  "public",
	}
}

// Enrich fans the probe set out over the records with at most width hosts
// in flight. Each record is mutated only by the goroutine owning it.
func Enrich(ctx context.Context, records []*inventory.HostRecord, opts Options, width int) error {
	if width <= 0 {
		width = DefaultWidth
	}
	awg, err := syncutil.New(syncutil.WithSize(width))
	if err != nil {
		return fmt.Errorf("failed to create adaptive waitgroup: %w", err)
	}
	for _, rec := range records {
		awg.Add()
		go func(rec *inventory.HostRecord) {
			defer awg.Done()
			enrichOne(ctx, rec, opts)
		}(rec)
	}
	awg.Wait()
	return nil
}

func enrichOne(ctx context.Context, rec *inventory.HostRecord, opts Options) {
	// derived purely from the liveness TTL, before any network probe
	if guess := GuessOS(rec.TTL); guess != "" {
		rec.OSGuess = guess
	}

	host := rec.Addr.String()
	if opts.SSH {
		if banner := SSHBanner(ctx, host, opts.SSHTimeout); banner != "" {
			rec.SSHBanner = banner
		}
	}
	if opts.SMB {
		if banner := SMBPresence(ctx, host, opts.SMBTimeout); banner != "" {
			rec.SMBBanner = banner
		}
	}
	if opts.TLSCert {
		if cn, san := CertInfo(ctx, host, opts.TLSTimeout); cn != "" || san != "" {
			if cn != "" {
				rec.CertCN = cn
			}
			if san != "" {
				rec.CertSAN = san
			}
		}
	}
	if opts.HTTP {
		info := HTTPInfo(ctx, host, opts.HTTPTimeout)
		if info.Server != "" {
			rec.HTTPServer = info.Server
		}
		if info.PoweredBy != "" {
			rec.HTTPPoweredBy = info.PoweredBy
		}
		if info.WWWAuthenticate != "" {
			rec.HTTPWWWAuth = info.WWWAuthenticate
		}
		rec.HTTPTitle = info.Title
		rec.HTTPName = info.Name
	}
	if opts.Favicon {
		if hash := FaviconHash(ctx, host, opts.FaviconTimeout); hash != "" {
			rec.FaviconHash = hash
		}
	}
	if opts.SNMP {
		if sysName, sysDescr := SNMPInfo(ctx, host, opts.SNMPCommunity, opts.SNMPTimeout); sysName != "" || sysDescr != "" {
			if sysName != "" {
				rec.SNMPSysName = sysName
			}
			if sysDescr != "" {
				rec.SNMPSysDescr = sysDescr
			}
		}
	}
}
