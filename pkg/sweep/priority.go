package sweep

import (
	"sort"

	"github.com/lanscout/lanscout/pkg/segment"
)

// Priority tiers based on real-world address allocation patterns.
const (
	priorityGateway  = 100 // .1, .254
	priorityReserved = 90  // .2-.5, .250-.253
	priorityEarly    = 80  // .6-.10
	priorityPeak     = 70  // .50, .100, .150
	priorityPool     = 50  // main DHCP pool
	priorityLongTail = 20
)

type octetRange struct {
	start, end int
	priority   int
}

// /24-style last-octet distribution; for other subnet sizes the same last
// octet heuristic still beats probing in numeric order.
var octetPatterns = []octetRange{
	{1, 1, priorityGateway},
	{254, 254, priorityGateway},
	{2, 5, priorityReserved},
	{250, 253, priorityReserved},
	{6, 10, priorityEarly},
	{50, 50, priorityPeak},
	{100, 100, priorityPeak},
	{150, 150, priorityPeak},
	{51, 99, priorityPool},
	{101, 149, priorityPool},
	{151, 200, priorityPool},
}

// addrPriority scores an address (0-100); higher scores are more likely to
// answer and get probed first.
func addrPriority(addr segment.Addr) int {
	lastOctet := int(byte(addr))
	for _, p := range octetPatterns {
		if lastOctet >= p.start && lastOctet <= p.end {
			return p.priority
		}
	}
	return priorityLongTail
}

// orderByPriority returns addrs sorted by descending priority, ties broken
// by ascending address for a stable order. The input slice is not modified.
func orderByPriority(addrs []segment.Addr) []segment.Addr {
	ordered := make([]segment.Addr, len(addrs))
	copy(ordered, addrs)
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, pj := addrPriority(ordered[i]), addrPriority(ordered[j])
		if pi != pj {
			return pi > pj
		}
		return ordered[i] < ordered[j]
	})
	return ordered
}
