//go:build windows

package player

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// NewBackendCommand plays the file through the .NET SoundPlayer, which
// ships with every Windows install. PlaySync keeps the child alive for
// the duration of the track so the loop in Run paces correctly.
func NewBackendCommand(ctx context.Context, path string) (*exec.Cmd, error) {
	// Single quotes in a PowerShell single-quoted string are escaped by
	// doubling them.
	escaped := strings.ReplaceAll(path, "'", "''")
	script := fmt.Sprintf("(New-Object Media.SoundPlayer '%s').PlaySync()", escaped)
	// #nosec G204 -- fixed interpreter, path embedded as a quoted literal
	return exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", script), nil
}
