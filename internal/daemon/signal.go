package daemon

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// shutdownState backs InstallShutdownHandler. The OS-level signal
// subscription is created once per process; re-installing a handler only
// swaps the callback.
var shutdownState struct {
	mu        sync.Mutex
	handler   func()
	installed bool
}

// InstallShutdownHandler arranges for fn to run once when the process
// receives SIGTERM or an interrupt. Installing again replaces the
// previous handler; handlers never stack. fn is expected to clean up
// and exit the process.
func InstallShutdownHandler(fn func()) {
	shutdownState.mu.Lock()
	defer shutdownState.mu.Unlock()
	shutdownState.handler = fn
	if shutdownState.installed {
		return
	}
	shutdownState.installed = true
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ch
		signal.Stop(ch)
		dispatchShutdown()
	}()
}

// dispatchShutdown invokes whichever handler is current at delivery time.
func dispatchShutdown() {
	shutdownState.mu.Lock()
	fn := shutdownState.handler
	shutdownState.mu.Unlock()
	if fn != nil {
		fn()
	}
}
