package segment

import (
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/projectdiscovery/mapcidr"
)

// Addr is an IPv4 address as a 32-bit unsigned integer. It is the sort and
// lookup key for every per-host table in the module.
type Addr uint32

// ParseAddr converts a dotted-quad string into an Addr.
func ParseAddr(s string) (Addr, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return 0, fmt.Errorf("invalid IPv4 address: %s", s)
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return 0, fmt.Errorf("not an IPv4 address: %s", s)
	}
	return Addr(uint32(ip4[0])<<24 | uint32(ip4[1])<<16 | uint32(ip4[2])<<8 | uint32(ip4[3])), nil
}

// FromIP converts a net.IP into an Addr. Returns false for non-IPv4 values.
func FromIP(ip net.IP) (Addr, bool) {
	ip4 := ip.To4()
	if ip4 == nil {
		return 0, false
	}
	return Addr(uint32(ip4[0])<<24 | uint32(ip4[1])<<16 | uint32(ip4[2])<<8 | uint32(ip4[3])), true
}

// IP returns the address as a net.IP.
func (a Addr) IP() net.IP {
	return net.IPv4(byte(a>>24), byte(a>>16), byte(a>>8), byte(a))
}

func (a Addr) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", byte(a>>24), byte(a>>16), byte(a>>8), byte(a))
}

// Segment is a named IPv4 range to survey. Immutable once parsed.
type Segment struct {
	Name    string
	CIDR    string
	Network Addr
	Prefix  int
}

// Parse parses a "<name> <cidr>" pair into a Segment.
func Parse(name, cidr string) (Segment, error) {
	ip, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return Segment{}, fmt.Errorf("invalid CIDR %q: %w", cidr, err)
	}
	if ip.To4() == nil {
		return Segment{}, fmt.Errorf("invalid CIDR %q: not IPv4", cidr)
	}
	ones, bits := ipnet.Mask.Size()
	if bits != 32 {
		return Segment{}, fmt.Errorf("invalid CIDR %q: not IPv4", cidr)
	}
	network, _ := FromIP(ipnet.IP)
	return Segment{
		Name:    name,
		CIDR:    ipnet.String(),
		Network: network,
		Prefix:  ones,
	}, nil
}

// Hosts expands the segment into the concrete host addresses to probe, in
// ascending order. /32 yields the address itself, /31 yields both addresses
// (point-to-point convention). For prefixes of /24 and wider the network and
// broadcast addresses are excluded; /25 through /30 keep the full range.
func (s Segment) Hosts() ([]Addr, error) {
	switch {
	case s.Prefix == 32:
		return []Addr{s.Network}, nil
	case s.Prefix == 31:
		return []Addr{s.Network, s.Network + 1}, nil
	}

	ips, err := mapcidr.IPAddresses(s.CIDR)
	if err != nil {
		return nil, fmt.Errorf("failed to expand CIDR %s: %w", s.CIDR, err)
	}

	hostBits := uint32(32 - s.Prefix)
	broadcast := s.Network | Addr((uint64(1)<<hostBits)-1)

	addrs := make([]Addr, 0, len(ips))
	for _, ipStr := range ips {
		addr, err := ParseAddr(ipStr)
		if err != nil {
			continue
		}
		// Exclusion of the boundary addresses applies only at /24 and
		// wider; narrower subnets keep the full range.
		if s.Prefix <= 24 && (addr == s.Network || addr == broadcast) {
			continue
		}
		addrs = append(addrs, addr)
	}

	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs, nil
}

// ParseList parses newline-delimited "<name> <cidr>" records. Blank lines are
// skipped; any malformed line fails with its line number.
func ParseList(data string) ([]Segment, error) {
	var segments []Segment
	for i, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"<name> <cidr>\", got %q", i+1, line)
		}
		seg, err := Parse(fields[0], fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		segments = append(segments, seg)
	}
	return segments, nil
}
