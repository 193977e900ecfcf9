package inventory

import (
	"testing"

	"github.com/lanscout/lanscout/pkg/segment"
)

func addr(t *testing.T, s string) segment.Addr {
	t.Helper()
	a, err := segment.ParseAddr(s)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestReconcileManualNameWins(t *testing.T) {
	ip := addr(t, "192.168.1.10")
	existing := map[segment.Addr]*Entry{
		ip: {Addr: ip, Name: "Router1", Segments: "lan"},
	}
	cycle := []*HostRecord{
		{Segment: "lan", Addr: ip, Name: "Router1", AutoName: "unknown-host", Source: SourceManual},
	}

	merged := Reconcile(existing, cycle, false)
	entry := merged[ip]
	if entry.Name != "Router1" {
		t.Errorf("persisted name overwritten: got %q, want Router1", entry.Name)
	}
	if entry.AutoName != "unknown-host" {
		t.Errorf("auto name not recorded: got %q", entry.AutoName)
	}
}

func TestReconcileFillsEmptyName(t *testing.T) {
	ip := addr(t, "192.168.1.11")
	existing := map[segment.Addr]*Entry{
		ip: {Addr: ip},
	}
	cycle := []*HostRecord{
		{Segment: "lan", Addr: ip, Name: "printer", AutoName: "printer", Source: SourceRDNS},
	}

	merged := Reconcile(existing, cycle, false)
	if merged[ip].Name != "printer" {
		t.Errorf("empty persisted name not filled: got %q", merged[ip].Name)
	}
}

// The merge precedence is asymmetric: name keeps the persisted value, every
// other field prefers the freshly observed one.
func TestReconcileAsymmetricPrecedence(t *testing.T) {
	ip := addr(t, "192.168.1.12")
	existing := map[segment.Addr]*Entry{
		ip: {Addr: ip, Name: "nas", MAC: "aa:aa:aa:aa:aa:aa", SSHBanner: "SSH-2.0-Old"},
	}
	cycle := []*HostRecord{
		{
			Segment:   "lan",
			Addr:      ip,
			Name:      "freshly-derived",
			AutoName:  "freshly-derived",
			MAC:       "bb:bb:bb:bb:bb:bb",
			SSHBanner: "",
		},
	}

	merged := Reconcile(existing, cycle, false)
	entry := merged[ip]
	if entry.Name != "nas" {
		t.Errorf("name should favor user intent: got %q", entry.Name)
	}
	if entry.MAC != "bb:bb:bb:bb:bb:bb" {
		t.Errorf("mac should favor freshness: got %q", entry.MAC)
	}
	if entry.SSHBanner != "SSH-2.0-Old" {
		t.Errorf("empty observation should not clear persisted value: got %q", entry.SSHBanner)
	}
}

func TestReconcileSegmentsOverwriteToggle(t *testing.T) {
	ip := addr(t, "192.168.1.13")
	existing := map[segment.Addr]*Entry{
		ip: {Addr: ip, Segments: "old-label"},
	}
	cycle := []*HostRecord{{Segment: "lan", Addr: ip}}

	if got := Reconcile(existing, cycle, false)[ip].Segments; got != "old-label" {
		t.Errorf("overwrite off: Segments = %q, want old-label", got)
	}
	if got := Reconcile(existing, cycle, true)[ip].Segments; got != "lan" {
		t.Errorf("overwrite on: Segments = %q, want lan", got)
	}
}

func TestReconcilePreservesUnseen(t *testing.T) {
	seen := addr(t, "10.0.0.1")
	unseen := addr(t, "10.0.0.2")
	existing := map[segment.Addr]*Entry{
		seen:   {Addr: seen, Name: "gw"},
		unseen: {Addr: unseen, Name: "offline-box", MAC: "cc:cc:cc:cc:cc:cc"},
	}
	cycle := []*HostRecord{{Segment: "lan", Addr: seen}}

	merged := Reconcile(existing, cycle, false)
	if len(merged) != 2 {
		t.Fatalf("merged has %d entries, want 2", len(merged))
	}
	if merged[unseen].Name != "offline-box" || merged[unseen].MAC != "cc:cc:cc:cc:cc:cc" {
		t.Errorf("unseen entry changed: %+v", merged[unseen])
	}
}

func TestReconcileCreatesNewEntry(t *testing.T) {
	ip := addr(t, "10.0.0.7")
	cycle := []*HostRecord{
		{Segment: "dmz", Addr: ip, AutoName: "web01", Name: "web01", HTTPServer: "nginx"},
	}
	merged := Reconcile(map[segment.Addr]*Entry{}, cycle, false)
	entry := merged[ip]
	if entry == nil {
		t.Fatal("entry not created")
	}
	if entry.Segments != "dmz" || entry.Name != "web01" || entry.HTTPServer != "nginx" {
		t.Errorf("new entry = %+v", entry)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	ip := addr(t, "192.168.1.20")
	existing := map[segment.Addr]*Entry{
		ip: {Addr: ip, Name: "Router1", MAC: "aa:bb:cc:dd:ee:ff"},
	}
	cycle := []*HostRecord{
		{Segment: "lan", Addr: ip, AutoName: "router.lan", MAC: "aa:bb:cc:dd:ee:ff"},
	}

	once := Reconcile(existing, cycle, false)
	twice := Reconcile(once, cycle, false)

	if len(once) != len(twice) {
		t.Fatalf("entry count changed: %d != %d", len(once), len(twice))
	}
	for a, e1 := range once {
		e2 := twice[a]
		if e2 == nil || *e1 != *e2 {
			t.Errorf("entry %s changed on second reconcile: %+v != %+v", a, e1, e2)
		}
	}
}
