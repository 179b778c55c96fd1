//go:build !windows

package proc

import (
	"os/exec"
	"syscall"
	"testing"
	"time"
)

// permissionErr feeds the fake table the same error the real one sees.
func permissionErr() error { return syscall.EPERM }

func waitUntil(limit, step time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(limit)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(step)
	}
	return cond()
}

func TestAliveAgainstRealProcess(t *testing.T) {
	cmd := exec.Command("sleep", "5")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start sleep: %v", err)
	}
	pid := cmd.Process.Pid
	defer func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	}()
	if !Alive(pid) {
		t.Fatalf("freshly started process should be alive")
	}
	_ = cmd.Process.Kill()
	_, _ = cmd.Process.Wait()
	if !waitUntil(time.Second, 20*time.Millisecond, func() bool { return !Alive(pid) }) {
		t.Fatalf("killed process still reported alive")
	}
}

func TestTerminateCooperativeProcess(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start sleep: %v", err)
	}
	pid := cmd.Process.Pid
	// Reap the child in the background so the pid leaves the table once
	// killed; Terminate polls the pid directly.
	done := make(chan struct{})
	go func() { _, _ = cmd.Process.Wait(); close(done) }()

	if r := Terminate(pid, true, 2*time.Second); r != Terminated {
		t.Fatalf("expected Terminated, got %v", r)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("child not reaped")
	}
}

func TestTerminateEscalatesWhenTermIgnored(t *testing.T) {
	// The child ignores SIGTERM, so the forceful phase must finish it.
	cmd := exec.Command("/bin/sh", "-c", `trap '' TERM; while :; do sleep 0.1; done`)
	if err := cmd.Start(); err != nil {
		t.Fatalf("start stubborn child: %v", err)
	}
	pid := cmd.Process.Pid
	done := make(chan struct{})
	go func() { _, _ = cmd.Process.Wait(); close(done) }()

	if r := Terminate(pid, true, 500*time.Millisecond); r != Terminated {
		t.Fatalf("expected Terminated after escalation, got %v", r)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("child not reaped after kill")
	}
}

func TestStartTimeUnixForSelf(t *testing.T) {
	ts := StartTimeUnix(syscall.Getpid())
	if ts <= 0 {
		t.Skipf("start time unavailable on this system")
	}
	now := time.Now().Unix()
	if ts > now+1 {
		t.Fatalf("start time %d is in the future (now %d)", ts, now)
	}
	// Anything more than a day old for a test process is a bogus read.
	if now-ts > 86400 {
		t.Fatalf("start time %d implausibly old (now %d)", ts, now)
	}
}

func TestStartTimeUnixInvalidPid(t *testing.T) {
	if StartTimeUnix(0) != 0 || StartTimeUnix(-5) != 0 {
		t.Fatalf("invalid pids must report 0")
	}
}
