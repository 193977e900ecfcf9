//go:build !windows

package naming

import (
	"context"
	"os/exec"

	"github.com/lanscout/lanscout/pkg/segment"
)

// netbiosLookup shells out to nmblookup when Samba tooling is installed.
// Hosts without it simply get no NetBIOS name.
func netbiosLookup(ctx context.Context, addr segment.Addr) string {
	path, err := exec.LookPath("nmblookup")
	if err != nil {
		return ""
	}
	output, err := exec.CommandContext(ctx, path, "-A", addr.String()).Output()
	if err != nil {
		return ""
	}
	return parseNmblookup(string(output))
}
