package runner

import (
	"errors"
	"os/exec"
	"syscall"

	"github.com/marcelocantos/rush/internal/parser"
)

// program is a command resolved to an executable path and argument vector
// before any process is created.
type program struct {
	path string
	argv []string
	err  error // lookup failure; the stage is not started
}

func resolve(src string, c parser.SimpleCommand) program {
	argv := c.Argv(src)
	path, err := exec.LookPath(argv[0])
	if errors.Is(err, exec.ErrDot) {
		err = nil
	}
	return program{path: path, argv: argv, err: err}
}

// runCommand starts one program with the shell's descriptors and process
// group, and waits for it. It is not registered as a job.
func (r *Runner) runCommand(src string, c parser.SimpleCommand) error {
	p := resolve(src, c)
	if p.err != nil {
		r.reportLaunch(p.argv[0], p.err)
		r.setStatus(127)
		return nil
	}

	pid, err := syscall.ForkExec(p.path, p.argv, &syscall.ProcAttr{
		Env:   r.env(),
		Files: r.files(r.Stdin.Fd(), r.Stdout.Fd()),
		Sys:   &syscall.SysProcAttr{},
	})
	if err != nil {
		if isLaunchFailure(err) {
			r.reportLaunch(p.argv[0], err)
			r.setStatus(127)
			return nil
		}
		return &Error{Op: "fork", Err: err}
	}

	status, err := waitForeground(pid)
	if err != nil {
		return &Error{Op: "wait", Err: err}
	}
	r.setStatus(status)
	return nil
}
