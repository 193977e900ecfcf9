package probes

import (
	"context"
	"crypto/tls"
	"net"
	"strings"
	"time"
)

// CertInfo reads the subject common name and subject alternative names from
// the certificate offered on the TLS port. The trust chain is not checked;
// self-signed device certificates are the common case on a LAN.
func CertInfo(ctx context.Context, host string, timeout time.Duration) (cn, san string) {
	dialer := &net.Dialer{Timeout: timeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", net.JoinHostPort(host, "443"), &tls.Config{
		InsecureSkipVerify: true,
	})
	if err != nil {
		return "", ""
	}
	defer func() {
		_ = conn.Close()
	}()

	certs := conn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return "", ""
	}
	leaf := certs[0]
	return leaf.Subject.CommonName, strings.Join(leaf.DNSNames, ",")
}
