package runner

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/projectdiscovery/gologger"
	"github.com/rs/xid"

	"github.com/lanscout/lanscout/pkg/discovery/mdns"
	"github.com/lanscout/lanscout/pkg/discovery/neighbors"
	"github.com/lanscout/lanscout/pkg/discovery/ssdp"
	"github.com/lanscout/lanscout/pkg/inventory"
	"github.com/lanscout/lanscout/pkg/naming"
	"github.com/lanscout/lanscout/pkg/probes"
	"github.com/lanscout/lanscout/pkg/segment"
	"github.com/lanscout/lanscout/pkg/sweep"
)

// Runner contains the internal logic of the program
type Runner struct {
	options  *Options
	segments []segment.Segment
	checker  sweep.Checker
	resolver *naming.Resolver
}

// NewRunner instance
func NewRunner(options *Options) (*Runner, error) {
	segments, err := loadSegments(options)
	if err != nil {
		return nil, err
	}

	var checker sweep.Checker = sweep.NewPingChecker(ms(options.PingTimeout))
	if options.RawICMP {
		checker = sweep.NewICMPChecker(ms(options.PingTimeout))
	}

	// one resolver for the whole run; its reverse-DNS cache spans cycles
	resolver := naming.New(naming.Options{Timeout: ms(options.NameTimeout)})

	return &Runner{options: options, segments: segments, checker: checker, resolver: resolver}, nil
}

func loadSegments(options *Options) ([]segment.Segment, error) {
	var segments []segment.Segment
	if options.SegmentsFile != "" {
		data, err := os.ReadFile(options.SegmentsFile)
		if err != nil {
			return nil, fmt.Errorf("could not read segments file: %w", err)
		}
		segments, err = segment.ParseList(string(data))
		if err != nil {
			return nil, err
		}
	}
	if options.AutoDiscover {
		discovered, err := segment.Autodiscover()
		if err != nil {
			return nil, err
		}
		for _, seg := range discovered {
			gologger.Info().Msgf("discovered segment %s (%s)", au.Cyan(seg.Name), seg.CIDR)
		}
		segments = append(segments, discovered...)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("no segments to survey")
	}
	return segments, nil
}

// Run executes one survey cycle, or keeps cycling when a watch interval is
// configured. Cycles never overlap: the sleep starts only after the whole
// cycle, reconciliation and persistence included, has finished.
func (r *Runner) Run(ctx context.Context) error {
	if r.options.WatchInterval <= 0 {
		return r.runCycle(ctx)
	}

	interval := time.Duration(r.options.WatchInterval) * time.Second
	for {
		if err := r.runCycle(ctx); err != nil {
			return err
		}
		gologger.Info().Msgf("next survey in %s", interval)
		select {
		case <-ctx.Done():
			gologger.Info().Msgf("interrupted, exiting")
			return nil
		case <-time.After(interval):
		}
	}
}

// Close the runner instance
func (r *Runner) Close() {
	if closer, ok := r.checker.(io.Closer); ok {
		_ = closer.Close()
	}
}

func (r *Runner) runCycle(ctx context.Context) error {
	cycle := xid.New().String()
	gologger.Info().Msgf("starting survey cycle %s over %d segments", cycle, len(r.segments))

	// reloaded fresh every cycle so external edits are picked up
	entries, err := inventory.Load(r.options.InventoryPath)
	if err != nil {
		return err
	}

	window := time.Duration(r.options.DiscoveryWindow) * time.Second
	neighborTable := neighbors.Snapshot(ctx, neighbors.NewSystemReader(5*time.Second))
	ssdpTable := ssdp.Discover(ctx, window)
	serviceTable := mdns.Enumerate(ctx, window)
	gologger.Verbose().Msgf("side tables: %d neighbors, %d ssdp responders, %d mdns hosts",
		len(neighborTable), len(ssdpTable), len(serviceTable))

	probeOpts := r.probeOptions()

	sink, closeSink, err := r.newSink()
	if err != nil {
		return err
	}
	defer closeSink()
	if err := sink.Write(inventory.RowHeader); err != nil {
		return fmt.Errorf("could not write header row: %w", err)
	}

	var cycleRecords []*inventory.HostRecord
	surveyed := make(map[segment.Addr]struct{})
	for _, seg := range r.segments {
		addrs, err := seg.Hosts()
		if err != nil {
			return err
		}
		// an address appearing in multiple segments is surveyed only once
		// per cycle, in the first segment listing it
		before := len(addrs)
		addrs = filterSurveyed(addrs, surveyed)
		if skipped := before - len(addrs); skipped > 0 {
			gologger.Verbose().Msgf("segment %s: %d addresses already surveyed this cycle", seg.Name, skipped)
		}
		gologger.Info().Msgf("segment %s (%s): probing %d addresses", seg.Name, seg.CIDR, len(addrs))

		results, err := sweep.Run(ctx, r.checker, addrs, r.options.LivenessWidth)
		if err != nil {
			return err
		}
		gologger.Info().Msgf("segment %s: %d hosts alive", seg.Name, len(results))

		records := make([]*inventory.HostRecord, 0, len(results))
		for _, res := range results {
			rec := &inventory.HostRecord{Segment: seg.Name, Addr: res.Addr, TTL: res.TTL}
			rec.Seed(entries[res.Addr])
			if rec.Segments == "" || r.options.OverwriteSegments {
				rec.Segments = seg.Name
			}
			if mac := neighborTable[res.Addr]; mac != "" {
				rec.MAC = mac
			}
			if svc, ok := ssdpTable[res.Addr]; ok {
				if svc.Server != "" {
					rec.SSDPServer = svc.Server
				}
				if svc.USN != "" {
					rec.SSDPUSN = svc.USN
				}
			}
			records = append(records, rec)
		}

		if err := probes.Enrich(ctx, records, probeOpts, r.options.EnrichWidth); err != nil {
			return err
		}
		if err := r.resolver.Run(ctx, records, serviceTable, r.options.EnrichWidth); err != nil {
			return err
		}

		for _, rec := range records {
			naming.Finalize(rec)
			if err := sink.Write(rec.Row()); err != nil {
				return fmt.Errorf("could not write row for %s: %w", rec.Addr, err)
			}
		}
		sink.Flush()
		if err := sink.Error(); err != nil {
			return err
		}
		cycleRecords = append(cycleRecords, records...)
	}

	merged := inventory.Reconcile(entries, cycleRecords, r.options.OverwriteSegments)
	if err := inventory.Save(r.options.InventoryPath, merged); err != nil {
		return err
	}
	gologger.Info().Msgf("cycle %s done: %s hosts alive, %d inventory entries", cycle, au.Bold(len(cycleRecords)), len(merged))
	return nil
}

// filterSurveyed drops addresses already seen this cycle and marks the
// survivors as seen.
func filterSurveyed(addrs []segment.Addr, surveyed map[segment.Addr]struct{}) []segment.Addr {
	kept := addrs[:0]
	for _, addr := range addrs {
		if _, ok := surveyed[addr]; ok {
			continue
		}
		surveyed[addr] = struct{}{}
		kept = append(kept, addr)
	}
	return kept
}

// newSink builds the cycle row writer: stdout, optionally duplicated to a
// file. Logging goes to stderr so stdout stays parseable.
func (r *Runner) newSink() (*csv.Writer, func(), error) {
	if r.options.OutputFile == "" {
		return csv.NewWriter(os.Stdout), func() {}, nil
	}
	f, err := os.Create(r.options.OutputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create output file: %w", err)
	}
	writer := csv.NewWriter(io.MultiWriter(os.Stdout, f))
	return writer, func() { _ = f.Close() }, nil
}

func (r *Runner) probeOptions() probes.Options {
	opts := probes.DefaultOptions()
	opts.SSH = !r.options.DisableSSH
	opts.SMB = !r.options.DisableSMB
	opts.TLSCert = !r.options.DisableTLS
	opts.HTTP = !r.options.DisableHTTP
	opts.Favicon = !r.options.DisableFavicon
	opts.SNMP = !r.options.DisableSNMP
	if r.options.SSHTimeout > 0 {
		opts.SSHTimeout = ms(r.options.SSHTimeout)
	}
	if r.options.SMBTimeout > 0 {
		opts.SMBTimeout = ms(r.options.SMBTimeout)
	}
	if r.options.TLSTimeout > 0 {
		opts.TLSTimeout = ms(r.options.TLSTimeout)
	}
	if r.options.HTTPTimeout > 0 {
		opts.HTTPTimeout = ms(r.options.HTTPTimeout)
	}
	if r.options.FaviconTimeout > 0 {
		opts.FaviconTimeout = ms(r.options.FaviconTimeout)
	}
	if r.options.SNMPTimeout > 0 {
		opts.SNMPTimeout = ms(r.options.SNMPTimeout)
	}
	if r.options.SNMPCommunity != "" {
		opts.SNMPCommunity = r.options.SNMPCommunity
	}
	return opts
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}
