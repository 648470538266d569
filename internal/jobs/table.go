package jobs

import (
	"sort"
	"sync"
)

// Table is the shell's job registry. Ids start at 1, increase strictly and
// are never reused. Completed jobs stay in the table.
type Table struct {
	mu   sync.Mutex
	next uint32
	jobs map[uint32]*Job
}

func NewTable() *Table {
	return &Table{next: 1, jobs: make(map[uint32]*Job)}
}

// NextID reserves the next job id. An id reserved for a launch that then
// fails is simply skipped.
func (t *Table) NextID() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.next
	t.next++
	return id
}

// Insert registers j under j.ID, which must come from NextID.
func (t *Table) Insert(j Job) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.jobs[j.ID] = &j
}

// Get returns a copy of the job with the given id.
func (t *Table) Get(id uint32) (Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	j, ok := t.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

// List returns copies of all jobs ordered by id.
func (t *Table) List() []Job {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Job, 0, len(t.jobs))
	for _, j := range t.jobs {
		out = append(out, *j)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

// Len reports the number of jobs in the table. Finished jobs are never
// removed (see Reconcile), so this is also the number ever registered.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.jobs)
}
