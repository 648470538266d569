package audit

import "time"

// Entry represents a single audit log record: one executed top-level line.
type Entry struct {
	Seq            uint64    `json:"seq"`
	Time           time.Time `json:"ts"`
	PrevHash       string    `json:"prev_hash"`
	Line           string    `json:"line"`                      // source text as entered
	ExitCode       int       `json:"exit_code"`                 // last foreground status
	PipeStatus     []int     `json:"pipe_status,omitempty"`     // per stage of the last foreground pipeline
	BackgroundJobs []uint32  `json:"background_jobs,omitempty"` // ids launched by this line
	Error          string    `json:"error,omitempty"`           // parse or execution error
	Duration       float64   `json:"duration_ms"`               // execution time in milliseconds
	Cwd            string    `json:"cwd"`                       // working directory
	Hash           string    `json:"hash"`                      // SHA-256 of this entry (with hash field empty)
}

// Record is what the shell reports about a line it ran.
type Record struct {
	Line           string
	ExitCode       int
	PipeStatus     []int
	BackgroundJobs []uint32
	Err            error
	Duration       time.Duration
	Cwd            string
}
