// Package naming assigns each host one display name and its provenance via
// a fixed-priority fallback chain over the enrichment results and a couple
// of dedicated lookups.
package naming

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/projectdiscovery/gcache"
	syncutil "github.com/projectdiscovery/utils/sync"

	"github.com/lanscout/lanscout/pkg/discovery/mdns"
	"github.com/lanscout/lanscout/pkg/inventory"
	"github.com/lanscout/lanscout/pkg/segment"
)

// DefaultWidth bounds simultaneously in-flight name resolutions, shared
// with the enrichment pool width.
const DefaultWidth = 30

const (
	rdnsCacheSize = 4096
	rdnsCacheTTL  = 10 * time.Minute
)

// Options configures a Resolver.
type Options struct {
	// Timeout applies to each individual lookup, not the whole chain.
	Timeout time.Duration
}

// Resolver runs the naming chain over host records. One Resolver serves
// every cycle of a watch run: the reverse-DNS cache on it outlives cycles.
// The lookup functions are swappable so the chain order is testable without
// the network.
type Resolver struct {
	opts Options

	// reverse lookups repeat across watch cycles on stable networks, so
	// results, including misses, are cached
	rdnsCache gcache.Cache[segment.Addr, string]

	lookupRDNS    func(ctx context.Context, addr segment.Addr) string
	lookupMDNS    func(ctx context.Context, addr segment.Addr) string
	lookupNetBIOS func(ctx context.Context, addr segment.Addr) string
}

// New builds a Resolver backed by the real network lookups.
func New(opts Options) *Resolver {
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Second
	}
	r := &Resolver{
		opts: opts,
		rdnsCache: gcache.New[segment.Addr, string](rdnsCacheSize).
			LRU().
			Expiration(rdnsCacheTTL).
			Build(),
	}
	r.lookupRDNS = r.reverseDNS
	r.lookupMDNS = func(ctx context.Context, addr segment.Addr) string {
		return mdns.ReverseLookup(ctx, addr, r.opts.Timeout)
	}
	r.lookupNetBIOS = func(ctx context.Context, addr segment.Addr) string {
		ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
		return netbiosLookup(ctx, addr)
	}
	return r
}

// Run resolves names for all records with at most width in flight. The
// service table is the current cycle's accumulation from the discovery
// broadcasters, read-only here.
func (r *Resolver) Run(ctx context.Context, records []*inventory.HostRecord, services mdns.ServiceTable, width int) error {
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
			r.resolveOne(ctx, rec, services)
		}(rec)
	}
	awg.Wait()
	return nil
}

// resolveOne walks the chain and stops at the first method that yields a
// name. The zero-configuration reverse lookup always runs first because its
// service attachment happens whether or not it wins naming.
func (r *Resolver) resolveOne(ctx context.Context, rec *inventory.HostRecord, services mdns.ServiceTable) {
	mdnsHost := r.lookupMDNS(ctx, rec.Addr)
	if mdnsHost != "" {
		rec.MDNSHostname = mdnsHost
		if svcs := services.Lookup(mdnsHost); len(svcs) > 0 {
			rec.MDNSServices = strings.Join(svcs, ",")
		}
	}

	if name := Normalize(r.lookupRDNS(ctx, rec.Addr)); name != "" {
		rec.AutoName, rec.Source = name, inventory.SourceRDNS
		return
	}
	if name := Normalize(mdnsHost); name != "" {
		rec.AutoName, rec.Source = name, inventory.SourceMDNS
		return
	}
	if name := Normalize(r.lookupNetBIOS(ctx, rec.Addr)); name != "" {
		rec.AutoName, rec.Source = name, inventory.SourceNetBIOS
		return
	}
	if name := Normalize(rec.HTTPName); name != "" {
		rec.AutoName, rec.Source = name, inventory.SourceHTTP
		return
	}
	if name := Normalize(rec.CertCN); name != "" {
		rec.AutoName, rec.Source = name, inventory.SourceCert
		return
	}
	if name := Normalize(rec.CertSAN); name != "" {
		rec.AutoName, rec.Source = name, inventory.SourceCert
		return
	}
	if name := Normalize(rec.SSHBanner); name != "" {
		rec.AutoName, rec.Source = name, inventory.SourceSSH
		return
	}
	rec.AutoName, rec.Source = "", inventory.SourceNone
}

func (r *Resolver) reverseDNS(ctx context.Context, addr segment.Addr) string {
	if name, err := r.rdnsCache.Get(addr); err == nil {
		return name
	}
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	var name string
	if names, err := net.DefaultResolver.LookupAddr(ctx, addr.String()); err == nil && len(names) > 0 {
		name = names[0]
	}
	// misses are cached too, so dead space is not re-queried every cycle
	_ = r.rdnsCache.Set(addr, name)
	return name
}

// Finalize settles the persisted name against this cycle's resolution: an
// operator-assigned name always wins for display and is reported as manual,
// while auto_name keeps the chain's result for transparency.
func Finalize(rec *inventory.HostRecord) {
	if rec.Name == "" {
		rec.Name = rec.AutoName
		return
	}
	rec.Source = inventory.SourceManual
}
