package mdns

import (
	"testing"

	"github.com/lanscout/lanscout/pkg/segment"
)

func TestReverseName(t *testing.T) {
	addr, err := segment.ParseAddr("192.168.1.42")
	if err != nil {
		t.Fatal(err)
	}
	if got := reverseName(addr); got != "42.1.168.192.in-addr.arpa." {
		t.Errorf("reverseName = %q, want %q", got, "42.1.168.192.in-addr.arpa.")
	}
}

func TestServiceName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Office Printer._ipp._tcp.local.", "_ipp._tcp"},
		{"_ipp._tcp.local.", "_ipp._tcp"},
		{"_workstation._tcp.local.", "_workstation._tcp"},
		{"My NAS._smb._tcp.local.", "_smb._tcp"},
	}
	for _, tt := range tests {
		if got := serviceName(tt.in); got != tt.want {
			t.Errorf("serviceName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestServiceTable(t *testing.T) {
	table := ServiceTable{}
	table.add("printer.local.", "_ipp._tcp")
	table.add("Printer.LOCAL", "_ipp._tcp")
	table.add("printer.local", "_http._tcp")

	services := table.Lookup("printer.local")
	if len(services) != 2 {
		t.Fatalf("Lookup = %v, want 2 distinct services", services)
	}
	if services[0] != "_ipp._tcp" || services[1] != "_http._tcp" {
		t.Errorf("Lookup = %v", services)
	}
	// Trailing dot and case tolerated on lookup too.
	if got := table.Lookup("PRINTER.local."); len(got) != 2 {
		t.Errorf("Lookup with dot/case = %v", got)
	}
}
