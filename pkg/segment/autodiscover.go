package segment

import (
	"fmt"
	"net"
	"strings"

	gonet "github.com/shirou/gopsutil/v3/net"
)

// Autodiscover derives segments from the local machine's non-loopback IPv4
// interfaces, one segment per interface network. Used when no segment list
// is configured.
func Autodiscover() ([]Segment, error) {
	ifaces, err := gonet.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate interfaces: %w", err)
	}

	var segments []Segment
	seen := make(map[string]struct{})
	for _, iface := range ifaces {
		if !hasFlag(iface.Flags, "up") || hasFlag(iface.Flags, "loopback") {
			continue
		}
		for _, addr := range iface.Addrs {
			ip, ipnet, err := net.ParseCIDR(addr.Addr)
			if err != nil || ip.To4() == nil {
				continue
			}
			if ip.IsLinkLocalUnicast() {
				continue
			}
			cidr := ipnet.String()
			if _, ok := seen[cidr]; ok {
				continue
			}
			seen[cidr] = struct{}{}
			seg, err := Parse(iface.Name, cidr)
			if err != nil {
				continue
			}
			segments = append(segments, seg)
		}
	}
	return segments, nil
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, want) {
			return true
		}
	}
	return false
}
