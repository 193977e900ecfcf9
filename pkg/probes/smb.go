package probes

import (
	"context"
	"net"
	"time"
)

// SMBPresence checks whether the SMB port accepts connections. A successful
// connect is presence evidence regardless of payload.
func SMBPresence(ctx context.Context, host string, timeout time.Duration) string {
	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, "445"))
	if err != nil {
		return ""
	}
	_ = conn.Close()
	return "smb"
}
