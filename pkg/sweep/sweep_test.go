package sweep

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lanscout/lanscout/pkg/segment"
)

// countingChecker records the peak number of concurrently in-flight checks.
type countingChecker struct {
	inFlight int32
	peak     int32
	mu       sync.Mutex
	alive    map[segment.Addr]int
}

func (c *countingChecker) Available() error { return nil }

func (c *countingChecker) Check(ctx context.Context, addr segment.Addr) (bool, int) {
	cur := atomic.AddInt32(&c.inFlight, 1)
	defer atomic.AddInt32(&c.inFlight, -1)

	c.mu.Lock()
	if cur > c.peak {
		c.peak = cur
	}
	c.mu.Unlock()

	time.Sleep(2 * time.Millisecond)
	ttl, ok := c.alive[addr]
	return ok, ttl
}

func TestRunBoundsConcurrency(t *testing.T) {
	const width = 8
	checker := &countingChecker{alive: map[segment.Addr]int{}}

	var addrs []segment.Addr
	base, _ := segment.ParseAddr("10.0.0.0")
	for i := 0; i < 200; i++ {
		addrs = append(addrs, base+segment.Addr(i))
	}

	if _, err := Run(context.Background(), checker, addrs, width); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if checker.peak > width {
		t.Errorf("peak in-flight checks = %d, exceeds width %d", checker.peak, width)
	}
}

func TestRunCollectsAliveSorted(t *testing.T) {
	a1, _ := segment.ParseAddr("10.0.0.200")
	a2, _ := segment.ParseAddr("10.0.0.1")
	a3, _ := segment.ParseAddr("10.0.0.50")
	dead, _ := segment.ParseAddr("10.0.0.99")

	checker := &countingChecker{alive: map[segment.Addr]int{
		a1: 64,
		a2: 128,
		a3: 0,
	}}

	results, err := Run(context.Background(), checker, []segment.Addr{a1, a2, a3, dead}, 4)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d alive hosts, want 3", len(results))
	}
	// Re-sorted ascending by address regardless of completion order.
	if results[0].Addr != a2 || results[1].Addr != a3 || results[2].Addr != a1 {
		t.Errorf("results out of order: %v", results)
	}
	if results[0].TTL != 128 {
		t.Errorf("TTL hint lost: got %d, want 128", results[0].TTL)
	}
}

func TestParseTTL(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   int
	}{
		{"linux", "64 bytes from 192.168.1.1: icmp_seq=1 ttl=64 time=0.5 ms", 64},
		{"windows", "Reply from 192.168.1.1: bytes=32 time<1ms TTL=128", 128},
		{"no ttl", "Request timed out.", 0},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseTTL(tt.output); got != tt.want {
				t.Errorf("parseTTL(%q) = %d, want %d", tt.output, got, tt.want)
			}
		})
	}
}

func TestOrderByPriority(t *testing.T) {
	var addrs []segment.Addr
	base, _ := segment.ParseAddr("192.168.1.0")
	for i := 1; i <= 254; i++ {
		addrs = append(addrs, base+segment.Addr(i))
	}

	ordered := orderByPriority(addrs)
	if len(ordered) != len(addrs) {
		t.Fatalf("ordering changed length: %d != %d", len(ordered), len(addrs))
	}
	// Gateways first.
	if got := ordered[0].String(); got != "192.168.1.1" {
		t.Errorf("first probed = %s, want 192.168.1.1", got)
	}
	if got := ordered[1].String(); got != "192.168.1.254" {
		t.Errorf("second probed = %s, want 192.168.1.254", got)
	}
	// Input slice untouched.
	if addrs[0].String() != "192.168.1.1" || addrs[253].String() != "192.168.1.254" {
		t.Error("input slice was reordered")
	}
}
