package runner

import (
	"golang.org/x/sys/unix"

	"github.com/marcelocantos/rush/internal/jobs"
)

// exitStatus maps a terminal wait status to a shell exit status.
func exitStatus(ws unix.WaitStatus) int {
	if ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return ws.ExitStatus()
}

// waitForeground blocks until pid exits or is killed. Stop and continue
// notifications are not terminal; the wait goes on.
func waitForeground(pid int) (int, error) {
	for {
		var ws unix.WaitStatus
		_, err := unix.Wait4(pid, &ws, unix.WUNTRACED, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, err
		}
		if ws.Exited() || ws.Signaled() {
			return exitStatus(ws), nil
		}
	}
}

// WaitProber queries a job's group leader with a non-blocking wait.
type WaitProber struct{}

func (WaitProber) Probe(pgid int) (jobs.Event, error) {
	var ws unix.WaitStatus
	for {
		pid, err := unix.Wait4(pgid, &ws, unix.WNOHANG|unix.WUNTRACED|unix.WCONTINUED, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return jobs.Event{}, err
		}
		if pid == 0 {
			return jobs.Event{Change: jobs.NoChange}, nil
		}
		break
	}
	switch {
	case ws.Exited():
		return jobs.Event{Change: jobs.Exited, Code: ws.ExitStatus()}, nil
	case ws.Signaled():
		return jobs.Event{Change: jobs.Signaled, Code: int(ws.Signal())}, nil
	case ws.Stopped():
		return jobs.Event{Change: jobs.StoppedBySignal, Code: int(ws.StopSignal())}, nil
	case ws.Continued():
		return jobs.Event{Change: jobs.Continued}, nil
	default:
		return jobs.Event{Change: jobs.NoChange}, nil
	}
}
