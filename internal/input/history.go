package input

import (
	"fmt"
	"strings"
)

// ring is a term.History holding at most cap(entries) lines. Blank lines
// are not recorded.
type ring struct {
	entries []string
	head    int // index of the most recent entry
	size    int
}

func newRing(limit int) *ring {
	return &ring{entries: make([]string, limit), head: -1}
}

func (r *ring) Add(line string) {
	if len(r.entries) == 0 || strings.TrimSpace(line) == "" {
		return
	}
	r.head = (r.head + 1) % len(r.entries)
	r.entries[r.head] = line
	if r.size < len(r.entries) {
		r.size++
	}
}

func (r *ring) Len() int { return r.size }

// At returns the entry added idx calls ago; 0 is the most recent.
func (r *ring) At(idx int) string {
	if idx < 0 || idx >= r.size {
		panic(fmt.Sprintf("input: history index %d out of range [0,%d)", idx, r.size))
	}
	n := len(r.entries)
	return r.entries[(r.head-idx+n)%n]
}

// lines returns the entries oldest first.
func (r *ring) lines() []string {
	out := make([]string, r.size)
	for i := range out {
		out[i] = r.At(r.size - 1 - i)
	}
	return out
}

// noHistory disables line recall.
type noHistory struct{}

func (noHistory) Add(string)    {}
func (noHistory) Len() int      { return 0 }
func (noHistory) At(int) string { return "" }
