package runner

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/marcelocantos/rush/internal/jobs"
	"github.com/marcelocantos/rush/internal/parser"
)

// runBackground starts the job body in a re-executed subshell that leads
// its own process group, registers it as a running job and returns
// without waiting.
func (r *Runner) runBackground(src string, b *parser.BackgroundJob) error {
	text := b.Body.Render(src)
	id := r.Jobs.NextID()

	exe := r.Executable
	if exe == "" {
		var err error
		if exe, err = os.Executable(); err != nil {
			return &Error{Op: "executable", Err: err}
		}
	}

	env := append(append([]string(nil), r.env()...), SubshellEnv+"=1")
	pid, err := syscall.ForkExec(exe, []string{exe, "-c", text}, &syscall.ProcAttr{
		Env:   env,
		Files: r.files(r.Stdin.Fd(), r.Stdout.Fd()),
		Sys:   &syscall.SysProcAttr{Setpgid: true},
	})
	if err != nil {
		return &Error{Op: "fork", Err: err}
	}
	_ = unix.Setpgid(pid, pid)

	r.Jobs.Insert(jobs.Job{
		ID:      id,
		Pgid:    pid,
		Command: text,
		Status:  jobs.Status{State: jobs.Running},
	})
	fmt.Fprintf(r.Notices, "[%d] %d\n", id, pid)
	r.setStatus(0)
	return nil
}
