//go:build !windows

package neighbors

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// SystemReader reads the neighbor cache from /proc/net/arp on Linux and
// falls back to the arp binary elsewhere.
type SystemReader struct {
	Timeout time.Duration
}

// NewSystemReader returns the platform neighbor-table reader.
func NewSystemReader(timeout time.Duration) *SystemReader {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SystemReader{Timeout: timeout}
}

func (r *SystemReader) Read(ctx context.Context) (Table, error) {
	if data, err := os.ReadFile("/proc/net/arp"); err == nil {
		return parseTable(string(data)), nil
	}

	cctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()
	output, err := exec.CommandContext(cctx, "arp", "-a").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list neighbor table: %w", err)
	}
	return parseTable(string(output)), nil
}
