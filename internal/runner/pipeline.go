package runner

import (
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/marcelocantos/rush/internal/parser"
)

type pipe struct {
	r, w int
}

// runPipeline starts every stage left to right in one process group, with
// stage i's stdout wired to stage i+1's stdin, then waits for all of them.
func (r *Runner) runPipeline(src string, cmds []parser.SimpleCommand) error {
	if len(cmds) == 0 {
		return nil
	}

	// Resolve everything first so a bad stage never leaves others half
	// started.
	progs := make([]program, len(cmds))
	for i, c := range cmds {
		progs[i] = resolve(src, c)
	}

	pipes := make([]pipe, 0, len(cmds)-1)
	closePipes := func() {
		for _, p := range pipes {
			unix.Close(p.r)
			unix.Close(p.w)
		}
		pipes = nil
	}
	defer closePipes()
	for i := 0; i < len(cmds)-1; i++ {
		var fds [2]int
		if err := unix.Pipe2(fds[:], unix.O_CLOEXEC); err != nil {
			return &Error{Op: "pipe", Err: err}
		}
		pipes = append(pipes, pipe{r: fds[0], w: fds[1]})
	}

	statuses := make([]int, len(cmds))
	pids := make([]int, len(cmds))
	pgid := r.Pgid
	foreground := false
	var startErr error

	for i, p := range progs {
		if p.err != nil {
			r.reportLaunch(p.argv[0], p.err)
			statuses[i] = 127
			continue
		}

		stdin := r.Stdin.Fd()
		if i > 0 {
			stdin = uintptr(pipes[i-1].r)
		}
		stdout := r.Stdout.Fd()
		if i < len(cmds)-1 {
			stdout = uintptr(pipes[i].w)
		}

		sys := &syscall.SysProcAttr{Setpgid: true, Pgid: pgid}
		if r.Term != nil && pgid == 0 {
			sys.Foreground = true
			sys.Ctty = r.Term.Fd
		}
		pid, err := syscall.ForkExec(p.path, p.argv, &syscall.ProcAttr{
			Env:   r.env(),
			Files: r.files(stdin, stdout),
			Sys:   sys,
		})
		if err != nil {
			if isLaunchFailure(err) {
				r.reportLaunch(p.argv[0], err)
				statuses[i] = 127
				continue
			}
			startErr = &Error{Op: "fork", Err: err}
			break
		}
		if sys.Foreground {
			foreground = true
		}
		if pgid == 0 {
			pgid = pid
		}
		// The child has already joined the group by the time ForkExec
		// returns; this covers platforms where it has not. EACCES after
		// exec is expected.
		_ = unix.Setpgid(pid, pgid)
		pids[i] = pid
	}

	// Only the children need the pipe ends.
	closePipes()

	var waitErr error
	for i, pid := range pids {
		if pid == 0 {
			continue
		}
		status, err := waitForeground(pid)
		if err != nil && waitErr == nil {
			waitErr = &Error{Op: "wait", Err: err}
		}
		statuses[i] = status
	}

	if foreground {
		if err := r.Term.Reclaim(); err != nil && startErr == nil && waitErr == nil {
			waitErr = err
		}
	}

	if startErr != nil {
		return startErr
	}
	if waitErr != nil {
		return waitErr
	}
	r.setStatus(statuses...)
	return nil
}
