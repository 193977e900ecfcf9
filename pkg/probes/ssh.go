package probes

import (
	"bufio"
	"context"
	"net"
	"strings"
	"time"
)

// SSHBanner grabs the identification line an SSH daemon sends on connect.
// Returns "" on refusal, timeout or an empty read.
func SSHBanner(ctx context.Context, host string, timeout time.Duration) string {
	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, "22"))
	if err != nil {
		return ""
	}
	defer func() {
		_ = conn.Close()
	}()

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return ""
	}
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}
