package runner

import (
	"errors"
	"os/exec"
	"syscall"
)

// Error is an OS failure while creating or managing processes. It aborts
// the rest of the tree being executed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// launchErrnos are exec failures that belong to the program, not the shell.
var launchErrnos = []syscall.Errno{
	syscall.ENOENT,
	syscall.EACCES,
	syscall.EPERM,
	syscall.ENOEXEC,
	syscall.ENOTDIR,
	syscall.EISDIR,
	syscall.ELOOP,
	syscall.ENAMETOOLONG,
	syscall.ETXTBSY,
}

func isLaunchFailure(err error) bool {
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	for _, e := range launchErrnos {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// reportLaunch prints the diagnostic for a program that could not start.
func (r *Runner) reportLaunch(name string, err error) {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, syscall.ENOENT) {
		r.diag("command not found: %s", name)
		return
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		r.diag("%s: %s", name, errno.Error())
		return
	}
	r.diag("%s: %v", name, err)
}
