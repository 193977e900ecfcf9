package sweep

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	"github.com/lanscout/lanscout/pkg/segment"
)

var ttlPattern = regexp.MustCompile(`(?i)ttl[=|](\d+)`)

// PingChecker delegates reachability to the operating system's ping binary.
// A per-host timeout or non-zero exit means "not alive"; only a missing
// binary is treated as an error.
type PingChecker struct {
	Timeout time.Duration
}

// NewPingChecker returns a PingChecker with the given per-probe timeout.
func NewPingChecker(timeout time.Duration) *PingChecker {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &PingChecker{Timeout: timeout}
}

// Available verifies the ping binary exists in PATH.
func (c *PingChecker) Available() error {
	if _, err := exec.LookPath("ping"); err != nil {
		return fmt.Errorf("ping binary not found: %w", err)
	}
	return nil
}

// Check sends a single echo request and parses the TTL from the textual
// output when the host answers.
func (c *PingChecker) Check(ctx context.Context, addr segment.Addr) (bool, int) {
	cctx, cancel := context.WithTimeout(ctx, c.Timeout+time.Second)
	defer cancel()

	var stdout bytes.Buffer
	cmd := pingCommand(cctx, addr.String(), c.Timeout)
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return false, 0
	}
	return true, parseTTL(stdout.String())
}

// parseTTL extracts the TTL hint from ping output; 0 when absent.
func parseTTL(output string) int {
	matches := ttlPattern.FindStringSubmatch(output)
	if len(matches) > 1 {
		if ttl, err := strconv.Atoi(matches[1]); err == nil {
			return ttl
		}
	}
	return 0
}
