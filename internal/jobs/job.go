// Package jobs tracks background jobs: their process groups, the text they
// were launched from, and the status last reported by the kernel.
package jobs

import "fmt"

// State is the coarse lifecycle of a job.
type State int

const (
	Running State = iota
	Stopped
	Done
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case Stopped:
		return "Stopped"
	case Done:
		return "Done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Status is a job state plus, for Done, the exit code. A job killed by
// signal n reports Done with code 128+n.
type Status struct {
	State State
	Code  int
}

func (s Status) String() string {
	if s.State == Done {
		return fmt.Sprintf("Done(%d)", s.Code)
	}
	return s.State.String()
}

// Job is one entry in the table. Command is an owned copy of the source
// text, since the line it came from does not outlive the prompt.
type Job struct {
	ID         uint32
	Pgid       int
	Command    string
	Status     Status
	Foreground bool
}
