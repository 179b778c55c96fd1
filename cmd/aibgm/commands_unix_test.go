//go:build !windows

package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aibgm/aibgm/internal/config"
	"github.com/aibgm/aibgm/internal/pidfile"
	"github.com/aibgm/aibgm/internal/proc"
)

// useTempConfig points the per-user config directory at a temp dir.
func useTempConfig(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	dir, err := config.Dir()
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func seedLibrary(t *testing.T, dir string) {
	t.Helper()
	raw := `{"default":{"work":["a.wav"]},"lofi":{"work":["b.wav"],"end":["c.wav"]}}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSelectUnknownName(t *testing.T) {
	dir := useTempConfig(t)
	seedLibrary(t, dir)

	var out bytes.Buffer
	err := command{}.Select(&out, "nope")
	if err == nil {
		t.Fatal("expected error for unknown selection")
	}
	if !strings.Contains(err.Error(), "lofi") {
		t.Errorf("error should list available selections, got %v", err)
	}
}

func TestSelectPersists(t *testing.T) {
	dir := useTempConfig(t)
	seedLibrary(t, dir)

	var out bytes.Buffer
	if err := (command{}).Select(&out, "lofi"); err != nil {
		t.Fatal(err)
	}
	selPath, err := config.SelectionPath()
	if err != nil {
		t.Fatal(err)
	}
	sel, err := config.LoadSelection(selPath)
	if err != nil {
		t.Fatal(err)
	}
	if sel.Selected != "lofi" {
		t.Fatalf("Selected = %q, want lofi", sel.Selected)
	}
}

func TestEnableDisablePersist(t *testing.T) {
	useTempConfig(t)

	var out bytes.Buffer
	if err := (command{}).SetEnabled(&out, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "disabled") {
		t.Errorf("output = %q, want mention of disabled", out.String())
	}
	selPath, err := config.SelectionPath()
	if err != nil {
		t.Fatal(err)
	}
	sel, err := config.LoadSelection(selPath)
	if err != nil {
		t.Fatal(err)
	}
	if sel.IsEnabled() {
		t.Fatal("disable did not persist")
	}

	out.Reset()
	if err := (command{}).SetEnabled(&out, true); err != nil {
		t.Fatal(err)
	}
	sel, _ = config.LoadSelection(selPath)
	if !sel.IsEnabled() {
		t.Fatal("enable did not persist")
	}
}

func TestToggleStopsRunningPlayer(t *testing.T) {
	useTempConfig(t)

	// Stand in for a running player with a process we control.
	child := exec.Command("/bin/sleep", "30")
	if err := child.Start(); err != nil {
		t.Fatal(err)
	}
	pid := child.Process.Pid
	go func() { _ = child.Wait() }()
	t.Cleanup(func() { _ = child.Process.Kill() })

	pidPath, err := config.PIDFilePath()
	if err != nil {
		t.Fatal(err)
	}
	rec := pidfile.Record{PID: pid, StartedUnix: proc.StartTimeUnix(pid)}
	if err := pidfile.New(pidPath).Write(rec); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := (command{}).Toggle(&out, 3*time.Second); err != nil {
		t.Fatal(err)
	}
	if proc.Alive(pid) {
		t.Fatalf("pid %d still alive after toggle", pid)
	}
	if _, err := pidfile.New(pidPath).Read(); err != pidfile.ErrNotFound {
		t.Fatalf("record after toggle: err = %v, want ErrNotFound", err)
	}
}

func TestToggleWhileDisabledDoesNotStart(t *testing.T) {
	useTempConfig(t)

	selPath, err := config.SelectionPath()
	if err != nil {
		t.Fatal(err)
	}
	if err := config.SetEnabled(selPath, false); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := (command{}).Toggle(&out, 0); err != nil {
		t.Fatal(err)
	}
	pidPath, err := config.PIDFilePath()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := pidfile.New(pidPath).Read(); err != pidfile.ErrNotFound {
		t.Fatalf("toggle spawned despite disabled flag: err = %v", err)
	}
}

func TestStopWithNothingRunning(t *testing.T) {
	useTempConfig(t)
	var out bytes.Buffer
	if err := (command{}).Stop(&out, 0); err != nil {
		t.Fatalf("stop with no player should be a no-op, got %v", err)
	}
	if !strings.Contains(out.String(), "nothing is playing") {
		t.Errorf("output = %q, want 'nothing is playing'", out.String())
	}
}

func TestPlayWhileDisabledWritesToOut(t *testing.T) {
	useTempConfig(t)
	selPath, err := config.SelectionPath()
	if err != nil {
		t.Fatal(err)
	}
	if err := config.SetEnabled(selPath, false); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := (command{}).Play(&out, config.CategoryWork, 1); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "disabled") {
		t.Errorf("output = %q, want disabled notice on the command writer", out.String())
	}
}

func TestStatusNotPlaying(t *testing.T) {
	useTempConfig(t)

	var out bytes.Buffer
	if err := (command{}).Status(&out, 0); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "not playing") {
		t.Errorf("output = %q, want 'not playing'", out.String())
	}
	if !strings.Contains(out.String(), "default") {
		t.Errorf("output = %q, want default selection", out.String())
	}
}
