//go:build windows

package naming

import (
	"context"
	"os/exec"

	"github.com/lanscout/lanscout/pkg/segment"
)

func netbiosLookup(ctx context.Context, addr segment.Addr) string {
	output, err := exec.CommandContext(ctx, "nbtstat", "-A", addr.String()).Output()
	if err != nil {
		return ""
	}
	return parseNbtstat(string(output))
}
