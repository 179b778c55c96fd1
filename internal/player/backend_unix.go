//go:build !windows

package player

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
)

// backend candidates, first found in PATH wins. Darwin ships afplay;
// on Linux the usual pulse/alsa/ffmpeg players are probed in order.
func backendCandidates() [][]string {
	if runtime.GOOS == "darwin" {
		return [][]string{{"afplay"}}
	}
	return [][]string{
		{"paplay"},
		{"aplay", "-q"},
		{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
		{"mpg123", "-q"},
	}
}

// NewBackendCommand builds one playback invocation of the first
// available audio backend. The command is context-bound so daemon
// shutdown kills an in-flight playback.
func NewBackendCommand(ctx context.Context, path string) (*exec.Cmd, error) {
	for _, cand := range backendCandidates() {
		bin, err := exec.LookPath(cand[0])
		if err != nil {
			continue
		}
		args := append(append([]string(nil), cand[1:]...), path)
		// #nosec G204 -- bin comes from the fixed candidate list
		return exec.CommandContext(ctx, bin, args...), nil
	}
	return nil, errors.New("player: no audio backend found (tried afplay/paplay/aplay/ffplay/mpg123)")
}
