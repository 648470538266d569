package jobs

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// Flag records that some child may have changed state. The signal side
// only ever sets it; Reconcile clears it.
type Flag struct {
	v atomic.Bool
}

func (f *Flag) Set() { f.v.Store(true) }

// Take reports whether the flag was set and clears it.
func (f *Flag) Take() bool { return f.v.Swap(false) }

// Watch sets f on every SIGCHLD delivered to the process. It returns a
// function that stops the watch.
func Watch(f *Flag) func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGCHLD)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ch:
				f.Set()
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(ch)
		close(done)
	}
}
