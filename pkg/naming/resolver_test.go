package naming

import (
	"context"
	"testing"

	"github.com/lanscout/lanscout/pkg/discovery/mdns"
	"github.com/lanscout/lanscout/pkg/inventory"
	"github.com/lanscout/lanscout/pkg/segment"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"  printer.lan.  ", "printer.lan"},
		{"nas.local", "nas"},
		{"nas.LOCAL.", "nas"},
		{"router.example.com.", "router.example.com"},
		{"DNS:web.example.com, DNS:alt.example.com", "web.example.com"},
		{"dns:web.example.com", "web.example.com"},
		{"IP Address:192.168.1.1", "192.168.1.1"},
		{"first.example.com, second.example.com", "first.example.com"},
		// one trailing dot only
		{"odd..", "odd."},
	}
	for _, tc := range tests {
		if got := Normalize(tc.raw); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func testResolver(rdns, mdnsName, netbios string) (*Resolver, *[]string) {
	calls := &[]string{}
	r := New(Options{})
	r.lookupRDNS = func(context.Context, segment.Addr) string {
		*calls = append(*calls, "rdns")
		return rdns
	}
	r.lookupMDNS = func(context.Context, segment.Addr) string {
		*calls = append(*calls, "mdns")
		return mdnsName
	}
	r.lookupNetBIOS = func(context.Context, segment.Addr) string {
		*calls = append(*calls, "netbios")
		return netbios
	}
	return r, calls
}

func TestResolveChainOrder(t *testing.T) {
	addr, err := segment.ParseAddr("192.0.2.7")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		rdns       string
		mdns       string
		netbios    string
		rec        inventory.HostRecord
		wantName   string
		wantSource inventory.Source
	}{
		{
			name: "rdns wins over everything",
			rdns: "gateway.lan.", mdns: "gateway.local.", netbios: "GATEWAY",
			rec:      inventory.HostRecord{HTTPName: "Admin", CertCN: "gw", SSHBanner: "SSH-2.0"},
			wantName: "gateway.lan", wantSource: inventory.SourceRDNS,
		},
		{
			name: "mdns next",
			mdns: "printer.local.", netbios: "PRINTER",
			wantName: "printer", wantSource: inventory.SourceMDNS,
		},
		{
			name:    "netbios next",
			netbios: "FILESRV",
			rec:     inventory.HostRecord{HTTPName: "Acme NAS"},
			wantName: "FILESRV", wantSource: inventory.SourceNetBIOS,
		},
		{
			name:     "http next",
			rec:      inventory.HostRecord{HTTPName: "Acme Router 3000", CertCN: "router"},
			wantName: "Acme Router 3000", wantSource: inventory.SourceHTTP,
		},
		{
			name:     "cert cn before san",
			rec:      inventory.HostRecord{CertCN: "cam.example.com", CertSAN: "alt.example.com"},
			wantName: "cam.example.com", wantSource: inventory.SourceCert,
		},
		{
			name:     "cert san",
			rec:      inventory.HostRecord{CertSAN: "DNS:cam.example.com,DNS:alt"},
			wantName: "cam.example.com", wantSource: inventory.SourceCert,
		},
		{
			name:     "ssh last",
			rec:      inventory.HostRecord{SSHBanner: "SSH-2.0-OpenSSH_9.6"},
			wantName: "SSH-2.0-OpenSSH_9.6", wantSource: inventory.SourceSSH,
		},
		{
			name:     "nothing",
			wantName: "", wantSource: inventory.SourceNone,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := testResolver(tc.rdns, tc.mdns, tc.netbios)
			rec := tc.rec
			rec.Addr = addr
			r.resolveOne(context.Background(), &rec, nil)
			if rec.AutoName != tc.wantName || rec.Source != tc.wantSource {
				t.Errorf("got (%q, %s), want (%q, %s)", rec.AutoName, rec.Source, tc.wantName, tc.wantSource)
			}
		})
	}
}

func TestResolveShortCircuits(t *testing.T) {
	addr, err := segment.ParseAddr("192.0.2.8")
	if err != nil {
		t.Fatal(err)
	}
	r, calls := testResolver("gateway.lan.", "", "GATEWAY")
	rec := &inventory.HostRecord{Addr: addr}
	r.resolveOne(context.Background(), rec, nil)

	for _, call := range *calls {
		if call == "netbios" {
			t.Error("netbios consulted although reverse DNS already named the host")
		}
	}
}

func TestResolveAttachesServices(t *testing.T) {
	addr, err := segment.ParseAddr("192.0.2.9")
	if err != nil {
		t.Fatal(err)
	}
	services := mdns.ServiceTable{"printer.local": {"_ipp._tcp", "_http._tcp"}}
	// rdns wins naming, the service attachment must still happen
	r, _ := testResolver("printer.lan.", "Printer.local.", "")
	rec := &inventory.HostRecord{Addr: addr}
	r.resolveOne(context.Background(), rec, services)

	if rec.Source != inventory.SourceRDNS {
		t.Fatalf("Source = %s", rec.Source)
	}
	if rec.MDNSServices != "_ipp._tcp,_http._tcp" {
		t.Errorf("MDNSServices = %q", rec.MDNSServices)
	}
}

func TestReverseDNSServedFromCache(t *testing.T) {
	hit, err := segment.ParseAddr("192.0.2.20")
	if err != nil {
		t.Fatal(err)
	}
	miss, err := segment.ParseAddr("192.0.2.21")
	if err != nil {
		t.Fatal(err)
	}

	r := New(Options{})
	// the cache belongs to the Resolver, not to a cycle: entries written
	// in one cycle answer lookups in the next without touching the network
	if err := r.rdnsCache.Set(hit, "cached-host.lan."); err != nil {
		t.Fatal(err)
	}
	if err := r.rdnsCache.Set(miss, ""); err != nil {
		t.Fatal(err)
	}

	if got := r.reverseDNS(context.Background(), hit); got != "cached-host.lan." {
		t.Errorf("reverseDNS = %q, want cached value", got)
	}
	if got := r.reverseDNS(context.Background(), miss); got != "" {
		t.Errorf("cached miss re-resolved to %q", got)
	}
}

func TestFinalize(t *testing.T) {
	rec := &inventory.HostRecord{AutoName: "printer", Source: inventory.SourceMDNS}
	Finalize(rec)
	if rec.Name != "printer" || rec.Source != inventory.SourceMDNS {
		t.Errorf("empty name not filled: %+v", rec)
	}

	rec = &inventory.HostRecord{Name: "Office Printer", AutoName: "printer", Source: inventory.SourceMDNS}
	Finalize(rec)
	if rec.Name != "Office Printer" {
		t.Errorf("persisted name replaced: %q", rec.Name)
	}
	if rec.Source != inventory.SourceManual {
		t.Errorf("Source = %s, want manual", rec.Source)
	}
	if rec.AutoName != "printer" {
		t.Errorf("AutoName lost: %q", rec.AutoName)
	}
}

func TestParseNmblookup(t *testing.T) {
	output := `Looking up status of 192.0.2.7
	WORKGROUP       <00> - <GROUP> B <ACTIVE>
	PRINTER         <00> -         B <ACTIVE>
	PRINTER         <20> -         B <ACTIVE>
`
	if got := parseNmblookup(output); got != "PRINTER" {
		t.Errorf("parseNmblookup = %q", got)
	}
	if got := parseNmblookup("no name table"); got != "" {
		t.Errorf("parseNmblookup on garbage = %q", got)
	}
}

func TestParseNbtstat(t *testing.T) {
	output := `    NetBIOS Remote Machine Name Table

       Name               Type         Status
    ---------------------------------------------
    FILESRV        <00>  UNIQUE      Registered
    WORKGROUP      <00>  GROUP       Registered
`
	if got := parseNbtstat(output); got != "FILESRV" {
		t.Errorf("parseNbtstat = %q", got)
	}
}
