package catalog

import "sync"

// Job is a filter computation stamped with the generation that issued it.
// Run is pure and may execute on any goroutine.
type Job struct {
	Generation uint64
	Query      string
	Category   Category
	entries    []Entry
}

// Run computes the filtered result.
func (j Job) Run() Result {
	return Result{
		Generation: j.Generation,
		Query:      j.Query,
		Category:   j.Category,
		Entries:    Filter(j.entries, j.Query, j.Category),
	}
}

// Result is the output of a Job.
type Result struct {
	Generation uint64
	Query      string
	Category   Category
	Entries    []Entry
}

// View tracks the two stages of interactive filtering. Typed values change
// immediately on input; the committed result changes only when the job for
// the newest generation finishes. Results of superseded jobs are dropped.
type View struct {
	mu sync.Mutex

	entries  []Entry
	query    string
	category Category

	issued    uint64
	committed Result
}

// NewView returns a view over entries with an empty query and category All.
func NewView(entries []Entry) *View {
	return &View{
		entries:  entries,
		category: All,
		committed: Result{
			Category: All,
			Entries:  Filter(entries, "", All),
		},
	}
}

// Type records a new query and returns the job that recomputes the view.
func (v *View) Type(query string) Job {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = query
	return v.nextJob()
}

// Choose records a new category and returns the job that recomputes the view.
func (v *View) Choose(c Category) Job {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.category = c
	return v.nextJob()
}

// Replace swaps the underlying entries, e.g. once the manifest arrives.
func (v *View) Replace(entries []Entry) Job {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries = entries
	return v.nextJob()
}

func (v *View) nextJob() Job {
	v.issued++
	return Job{
		Generation: v.issued,
		Query:      v.query,
		Category:   v.category,
		entries:    v.entries,
	}
}

// Commit applies r if it belongs to the newest issued generation and reports
// whether it did.
func (v *View) Commit(r Result) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if r.Generation != v.issued {
		return false
	}
	v.committed = r
	return true
}

// Pending reports whether a recomputation is in flight.
func (v *View) Pending() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.committed.Generation != v.issued
}

// Typed returns the immediately visible query and category.
func (v *View) Typed() (string, Category) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query, v.category
}

// Visible returns the committed entries.
func (v *View) Visible() []Entry {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.committed.Entries
}

// Committed returns the last committed result.
func (v *View) Committed() Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.committed
}

// Total returns the number of unfiltered entries.
func (v *View) Total() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.entries)
}
