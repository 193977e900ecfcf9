package neighbors

import (
	"context"
	"errors"
	"testing"

	"github.com/lanscout/lanscout/pkg/segment"
)

func TestParseTable(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   map[string]string
	}{
		{
			name: "proc net arp",
			output: `IP address       HW type     Flags       HW address            Mask     Device
192.168.1.1      0x1         0x2         AA:BB:CC:DD:EE:FF     *        eth0
192.168.1.7      0x1         0x0         00:00:00:00:00:00     *        eth0
`,
			want: map[string]string{"192.168.1.1": "aa:bb:cc:dd:ee:ff"},
		},
		{
			name: "bsd arp -a with dash separators",
			output: `? (10.0.0.1) at a4-83-e7-01-02-03 [ether] on en0
? (10.0.0.9) at (incomplete) on en0
`,
			want: map[string]string{"10.0.0.1": "a4:83:e7:01:02:03"},
		},
		{
			name:   "garbage",
			output: "no neighbors here\n\n",
			want:   map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := parseTable(tt.output)
			if len(table) != len(tt.want) {
				t.Fatalf("got %d entries, want %d: %v", len(table), len(tt.want), table)
			}
			for ip, mac := range tt.want {
				addr, err := segment.ParseAddr(ip)
				if err != nil {
					t.Fatal(err)
				}
				if got := table[addr]; got != mac {
					t.Errorf("table[%s] = %q, want %q", ip, got, mac)
				}
			}
		})
	}
}

func TestNormalizeMAC(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AA:BB:CC:DD:EE:FF", "aa:bb:cc:dd:ee:ff"},
		{"a4-83-e7-01-02-03", "a4:83:e7:01:02:03"},
		{"a:b:c:d:e:f", "0a:0b:0c:0d:0e:0f"},
		{"not-a-mac", ""},
		{"aa:bb:cc:dd:ee", ""},
	}
	for _, tt := range tests {
		if got := NormalizeMAC(tt.in); got != tt.want {
			t.Errorf("NormalizeMAC(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type failingReader struct{}

func (failingReader) Read(context.Context) (Table, error) {
	return nil, errors.New("command not found")
}

func TestSnapshotNeverFatal(t *testing.T) {
	table := Snapshot(context.Background(), failingReader{})
	if table == nil {
		t.Fatal("Snapshot returned nil table")
	}
	if len(table) != 0 {
		t.Fatalf("expected empty table, got %v", table)
	}
}
