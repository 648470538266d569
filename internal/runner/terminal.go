package runner

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Terminal is the controlling terminal an interactive shell owns.
type Terminal struct {
	Fd   int
	Pgid int

	sigs chan os.Signal
}

// InitShell claims the terminal on f for the calling process. It returns
// nil and no error when f is not a terminal, in which case job control is
// off.
//
// The shell waits until it is in the foreground, makes itself a process
// group leader, takes the terminal, and swallows the keyboard job-control
// signals. The signals are caught rather than ignored so that children
// start with default dispositions.
func InitShell(f *os.File) (*Terminal, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, nil
	}

	for {
		fg, err := unix.IoctlGetInt(fd, unix.TIOCGPGRP)
		if err != nil {
			return nil, &Error{Op: "tcgetpgrp", Err: err}
		}
		pgrp := unix.Getpgrp()
		if fg == pgrp {
			break
		}
		// Stopped here until a parent shell puts us in the foreground.
		if err := unix.Kill(-pgrp, unix.SIGTTIN); err != nil {
			return nil, &Error{Op: "kill", Err: err}
		}
	}

	t := &Terminal{Fd: fd, sigs: make(chan os.Signal, 8)}
	signal.Notify(t.sigs, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTSTP, syscall.SIGTTIN)
	go func() {
		for range t.sigs {
		}
	}()

	pid := unix.Getpid()
	// A session leader already leads its group, and setpgid would fail.
	if unix.Getpgrp() != pid {
		if err := unix.Setpgid(pid, pid); err != nil {
			t.Close()
			return nil, &Error{Op: "setpgid", Err: err}
		}
	}
	t.Pgid = unix.Getpgrp()

	if err := t.Reclaim(); err != nil {
		t.Close()
		return nil, err
	}
	return t, nil
}

// Reclaim makes the shell's group the terminal's foreground group again.
// SIGTTOU is ignored only for the duration of the call.
func (t *Terminal) Reclaim() error {
	signal.Ignore(syscall.SIGTTOU)
	defer signal.Reset(syscall.SIGTTOU)
	if err := unix.IoctlSetPointerInt(t.Fd, unix.TIOCSPGRP, t.Pgid); err != nil {
		return &Error{Op: "tcsetpgrp", Err: err}
	}
	return nil
}

// Close stops swallowing job-control signals.
func (t *Terminal) Close() {
	if t.sigs == nil {
		return
	}
	signal.Stop(t.sigs)
	close(t.sigs)
	t.sigs = nil
}
