package platform

import (
	"runtime"
	"testing"
)

func TestCurrentMatchesRuntime(t *testing.T) {
	got := Current()
	if runtime.GOOS == "windows" {
		if got != Windows {
			t.Fatalf("expected Windows, got %v", got)
		}
		if !IsWindows() {
			t.Fatalf("IsWindows should be true on windows")
		}
	} else {
		if got != POSIX {
			t.Fatalf("expected POSIX on %s, got %v", runtime.GOOS, got)
		}
		if IsWindows() {
			t.Fatalf("IsWindows should be false on %s", runtime.GOOS)
		}
	}
}

func TestCurrentIsStable(t *testing.T) {
	first := Current()
	for i := 0; i < 100; i++ {
		if Current() != first {
			t.Fatalf("Current changed between calls")
		}
	}
}

func TestKindString(t *testing.T) {
	if POSIX.String() != "posix" || Windows.String() != "windows" {
		t.Fatalf("unexpected Kind strings: %q %q", POSIX.String(), Windows.String())
	}
}
