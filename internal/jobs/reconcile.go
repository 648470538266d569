package jobs

import (
	"fmt"
	"io"
	"sort"
)

// Change is what a non-blocking status query reported for a process group.
type Change int

const (
	NoChange Change = iota
	Exited
	Signaled
	StoppedBySignal
	Continued
)

// Event is a probe result. Code is the exit code for Exited and the signal
// number for Signaled.
type Event struct {
	Change Change
	Code   int
}

// Prober queries a job's process group without blocking.
type Prober interface {
	Probe(pgid int) (Event, error)
}

// Reconcile refreshes job statuses if f has been set since the last call,
// and writes one line to w for each job that completed during this pass.
// It returns the ids of those jobs in ascending order. Probe errors leave
// the job untouched. Done jobs stay in the table and are not probed again.
func (t *Table) Reconcile(f *Flag, p Prober, w io.Writer) []uint32 {
	if !f.Take() {
		return nil
	}

	t.mu.Lock()
	var completed []*Job
	for _, j := range t.jobs {
		if j.Status.State == Done {
			continue
		}
		ev, err := p.Probe(j.Pgid)
		if err != nil {
			continue
		}
		switch ev.Change {
		case Exited:
			j.Status = Status{State: Done, Code: ev.Code}
			completed = append(completed, j)
		case Signaled:
			j.Status = Status{State: Done, Code: 128 + ev.Code}
			completed = append(completed, j)
		case StoppedBySignal:
			j.Status = Status{State: Stopped}
		case Continued:
			j.Status = Status{State: Running}
		}
	}
	sort.Slice(completed, func(a, b int) bool { return completed[a].ID < completed[b].ID })
	ids := make([]uint32, len(completed))
	lines := make([]string, len(completed))
	for i, j := range completed {
		ids[i] = j.ID
		lines[i] = CompletionLine(*j)
	}
	t.mu.Unlock()

	for _, l := range lines {
		fmt.Fprint(w, l)
	}
	return ids
}

// CompletionLine formats the notice printed when a job finishes.
func CompletionLine(j Job) string {
	if j.Status.Code == 0 {
		return fmt.Sprintf("[%d] Done                    %s\n", j.ID, j.Command)
	}
	return fmt.Sprintf("[%d] Exit %d                %s\n", j.ID, j.Status.Code, j.Command)
}
