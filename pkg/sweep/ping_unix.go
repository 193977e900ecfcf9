//go:build !windows

package sweep

import (
	"context"
	"os/exec"
	"strconv"
	"time"
)

// pingCommand builds the single-packet ping invocation for unix platforms.
// -W takes whole seconds; sub-second timeouts round up to 1.
func pingCommand(ctx context.Context, ip string, timeout time.Duration) *exec.Cmd {
	secs := int(timeout / time.Second)
	if secs < 1 {
		secs = 1
	}
	return exec.CommandContext(ctx, "ping", "-c", "1", "-W", strconv.Itoa(secs), ip)
}
