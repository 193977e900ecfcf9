//go:build windows

package sweep

import (
	"context"
	"os/exec"
	"strconv"
	"time"
)

// pingCommand builds the single-packet ping invocation for windows, where
// -w takes milliseconds.
func pingCommand(ctx context.Context, ip string, timeout time.Duration) *exec.Cmd {
	ms := int(timeout / time.Millisecond)
	if ms < 1 {
		ms = 1000
	}
	return exec.CommandContext(ctx, "ping", "-n", "1", "-w", strconv.Itoa(ms), ip)
}
