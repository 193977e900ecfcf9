package sweep

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"

	"github.com/lanscout/lanscout/pkg/segment"
)

// ICMPChecker probes with raw-socket echo requests instead of shelling out
// to ping. Requires elevated privileges on most systems.
//
// All probes share one raw socket: a single reader goroutine drains replies
// and dispatches them to the probe waiting on the matching sequence number.
type ICMPChecker struct {
	Timeout time.Duration

	mu      sync.Mutex
	conn    *icmp.PacketConn
	p       *ipv4.PacketConn
	id      int
	pending map[int]pendingProbe
}

type pendingProbe struct {
	addr segment.Addr
	ch   chan int
}

// NewICMPChecker returns an ICMPChecker with the given per-probe timeout.
func NewICMPChecker(timeout time.Duration) *ICMPChecker {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &ICMPChecker{Timeout: timeout, pending: make(map[int]pendingProbe)}
}

// Available verifies a raw ICMP socket can be opened, keeping it open for
// the probes that follow.
func (c *ICMPChecker) Available() error {
	if err := c.ensureSocket(); err != nil {
		return fmt.Errorf("raw ICMP socket unavailable (requires privileges): %w", err)
	}
	return nil
}

// Close releases the shared socket and stops the reader.
func (c *ICMPChecker) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.p = nil
	return err
}

func (c *ICMPChecker) ensureSocket() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return nil
	}
	conn, err := icmp.ListenPacket("ip4:icmp", "0.0.0.0")
	if err != nil {
		return err
	}
	p := conn.IPv4PacketConn()
	_ = p.SetControlMessage(ipv4.FlagTTL, true)
	c.conn = conn
	c.p = p
	c.id = os.Getpid() & 0xffff
	go c.readLoop(p)
	return nil
}

// Check sends one echo request on the shared socket and waits for the
// reader to hand it the matching reply, with the TTL read from the reply's
// IP header.
func (c *ICMPChecker) Check(ctx context.Context, addr segment.Addr) (bool, int) {
	if err := c.ensureSocket(); err != nil {
		return false, 0
	}

	seq := int(addr & 0xffff)
	ch := make(chan int, 1)

	c.mu.Lock()
	if _, busy := c.pending[seq]; busy {
		// two in-flight addresses sharing the low 16 bits cannot be told
		// apart; the later one reports down rather than steal the reply
		c.mu.Unlock()
		return false, 0
	}
	c.pending[seq] = pendingProbe{addr: addr, ch: ch}
	conn := c.conn
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, seq)
		c.mu.Unlock()
	}()

	msg := &icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{
			ID:   c.id,
			Seq:  seq,
			Data: []byte("HELLO-R-U-THERE"),
		},
	}
	msgBytes, err := msg.Marshal(nil)
	if err != nil {
		return false, 0
	}
	if _, err := conn.WriteTo(msgBytes, &net.IPAddr{IP: addr.IP()}); err != nil {
		return false, 0
	}

	timer := time.NewTimer(c.Timeout)
	defer timer.Stop()

	select {
	case ttl := <-ch:
		return true, ttl
	case <-ctx.Done():
		return false, 0
	case <-timer.C:
		return false, 0
	}
}

func (c *ICMPChecker) readLoop(p *ipv4.PacketConn) {
	reply := make([]byte, 1500)
	for {
		n, cm, peer, err := p.ReadFrom(reply)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}
		peerAddr, ok := peer.(*net.IPAddr)
		if !ok {
			continue
		}
		rm, err := icmp.ParseMessage(ipv4.ICMPTypeEchoReply.Protocol(), reply[:n])
		if err != nil || rm.Type != ipv4.ICMPTypeEchoReply {
			continue
		}
		echo, ok := rm.Body.(*icmp.Echo)
		if !ok || echo.ID != c.id {
			continue
		}
		ttl := 0
		if cm != nil {
			ttl = cm.TTL
		}
		c.dispatch(peerAddr.IP, echo.Seq, ttl)
	}
}

// dispatch hands a reply to the probe registered for its sequence number.
// The raw socket sees every echo reply addressed to this host, so the
// sender must also match the probed address.
func (c *ICMPChecker) dispatch(peer net.IP, seq, ttl int) {
	c.mu.Lock()
	probe, ok := c.pending[seq]
	c.mu.Unlock()
	if !ok || !peer.Equal(probe.addr.IP()) {
		return
	}
	select {
	case probe.ch <- ttl:
	default:
	}
}
