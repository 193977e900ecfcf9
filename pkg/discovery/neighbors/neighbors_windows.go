//go:build windows

package neighbors

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// SystemReader reads the neighbor cache via "arp -a".
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
	cctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()
	output, err := exec.CommandContext(cctx, "arp", "-a").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list neighbor table: %w", err)
	}
	return parseTable(string(output)), nil
}
