// Package mdns performs one-shot multicast DNS queries: zero-configuration
// service enumeration for a survey cycle and per-host reverse lookups.
//
// Enumeration walks the service hierarchy: the root service-enumeration name
// is queried for service types, every advertised type is queried for
// instances, and every instance is resolved to its target host. Whatever is
// not resolved before the window closes is omitted; nothing here is fatal.
package mdns

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/projectdiscovery/gologger"
	"golang.org/x/net/ipv4"

	"github.com/lanscout/lanscout/pkg/segment"
)

const (
	// root service-enumeration name (RFC 6763 section 9)
	serviceRoot = "_services._dns-sd._udp.local."
	localSuffix = ".local."
)

var mdnsGroup = &net.UDPAddr{IP: net.IPv4(224, 0, 0, 251), Port: 5353}

// ServiceTable maps a target hostname (canonicalized, without the trailing
// dot) to the distinct service names it advertises.
type ServiceTable map[string][]string

// Lookup returns the services advertised by hostname, tolerating trailing
// dots and case differences.
func (t ServiceTable) Lookup(hostname string) []string {
	return t[canonical(hostname)]
}

func canonical(name string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))
}

// Enumerate queries the root service-enumeration name and chases service
// types and instances for the duration of the window.
func Enumerate(ctx context.Context, window time.Duration) ServiceTable {
	table := ServiceTable{}
	if window <= 0 {
		window = 3 * time.Second
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		gologger.Verbose().Msgf("mdns enumeration unavailable: %v", err)
		return table
	}
	defer func() {
		_ = conn.Close()
	}()

	// Also join the multicast group: responders may answer the group
	// rather than the querier's port.
	mconn, err := net.ListenMulticastUDP("udp4", nil, mdnsGroup)
	if err == nil {
		_ = ipv4.NewPacketConn(mconn).SetMulticastLoopback(true)
		defer func() {
			_ = mconn.Close()
		}()
	}

	deadline := time.Now().Add(window)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	msgs := make(chan *dns.Msg, 64)
	go readLoop(conn, deadline, msgs)
	if mconn != nil {
		go readLoop(mconn, deadline, msgs)
	}

	sendQuery(conn, serviceRoot, dns.TypePTR)

	queriedTypes := map[string]struct{}{}
	queriedInstances := map[string]struct{}{}
	// instance name -> service type it was advertised under
	instanceService := map[string]string{}

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return table
		case <-timer.C:
			return table
		case msg, ok := <-msgs:
			if !ok {
				return table
			}
			for _, rr := range append(msg.Answer, msg.Extra...) {
				switch record := rr.(type) {
				case *dns.PTR:
					header := canonical(record.Hdr.Name)
					target := record.Ptr
					if header == canonical(serviceRoot) {
						// pointer to a concrete service type
						if _, done := queriedTypes[target]; !done {
							queriedTypes[target] = struct{}{}
							sendQuery(conn, target, dns.TypePTR)
						}
						continue
					}
					// pointer from a service type to an instance
					if strings.HasSuffix(strings.ToLower(target), localSuffix) {
						instanceService[canonical(target)] = serviceName(record.Hdr.Name)
						if _, done := queriedInstances[target]; !done {
							queriedInstances[target] = struct{}{}
							sendQuery(conn, target, dns.TypeSRV)
						}
					}
				case *dns.SRV:
					service := instanceService[canonical(record.Hdr.Name)]
					if service == "" {
						service = serviceName(record.Hdr.Name)
					}
					if service != "" {
						table.add(record.Target, service)
					}
				}
			}
		}
	}
}

// ReverseLookup resolves an address to its mDNS hostname via a PTR query
// against the reverse-mapping name. Returns "" when nothing answers within
// the timeout.
func ReverseLookup(ctx context.Context, addr segment.Addr, timeout time.Duration) string {
	if timeout <= 0 {
		timeout = time.Second
	}
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		return ""
	}
	defer func() {
		_ = conn.Close()
	}()

	name := reverseName(addr)
	sendQuery(conn, name, dns.TypePTR)

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	buf := make([]byte, 9000)
	for time.Now().Before(deadline) {
		if err := conn.SetReadDeadline(deadline); err != nil {
			return ""
		}
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			return ""
		}
		msg := new(dns.Msg)
		if err := msg.Unpack(buf[:n]); err != nil {
			continue
		}
		for _, rr := range msg.Answer {
			record, ok := rr.(*dns.PTR)
			if !ok {
				continue
			}
			if canonical(record.Hdr.Name) == canonical(name) {
				return strings.TrimSuffix(record.Ptr, ".")
			}
		}
	}
	return ""
}

// reverseName builds the reverse-mapping name by reversing the address
// octets and appending the standard reverse-lookup suffix.
func reverseName(addr segment.Addr) string {
	return fmt.Sprintf("%d.%d.%d.%d.in-addr.arpa.",
		byte(addr), byte(addr>>8), byte(addr>>16), byte(addr>>24))
}

// serviceName trims an instance or type name down to the bare service
// label, e.g. "Printer._ipp._tcp.local." -> "_ipp._tcp".
func serviceName(name string) string {
	name = canonical(name)
	name = strings.TrimSuffix(name, ".local")
	// instance names carry a leading instance label; type names start
	// with an underscore label already
	if !strings.HasPrefix(name, "_") {
		if idx := strings.Index(name, "._"); idx >= 0 {
			name = name[idx+1:]
		}
	}
	return name
}

func (t ServiceTable) add(hostname, service string) {
	key := canonical(hostname)
	if key == "" {
		return
	}
	for _, existing := range t[key] {
		if existing == service {
			return
		}
	}
	t[key] = append(t[key], service)
}

func sendQuery(conn *net.UDPConn, name string, qtype uint16) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = false
	packed, err := msg.Pack()
	if err != nil {
		return
	}
	if _, err := conn.WriteToUDP(packed, mdnsGroup); err != nil {
		gologger.Debug().Msgf("mdns query for %s failed: %v", name, err)
	}
}

func readLoop(conn *net.UDPConn, deadline time.Time, out chan<- *dns.Msg) {
	buf := make([]byte, 9000)
	for time.Now().Before(deadline) {
		if err := conn.SetReadDeadline(time.Now().Add(250 * time.Millisecond)); err != nil {
			return
		}
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return
		}
		msg := new(dns.Msg)
		if err := msg.Unpack(buf[:n]); err != nil {
			continue
		}
		select {
		case out <- msg:
		default:
			// window is closing and nobody is reading; drop
		}
	}
}
