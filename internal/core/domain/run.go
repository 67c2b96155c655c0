package domain

import "time"

// PhaseEntry records the outcome of one category within a phase.
// Exactly one of RecordCount or Error is meaningful: a success carries the
// record count, a failure carries the error message.
type PhaseEntry struct {
	Category    Category `json:"category"`
	RecordCount int      `json:"record_count,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Phase aggregates the per-category outcomes of one orchestration stage.
type Phase struct {
	Duration  time.Duration `json:"duration"`
	Successes []PhaseEntry  `json:"successes"`
	Errors    []PhaseEntry  `json:"errors"`
}

// AddSuccess appends a successful category outcome.
func (p *Phase) AddSuccess(c Category, records int) {
	p.Successes = append(p.Successes, PhaseEntry{Category: c, RecordCount: records})
}

// AddError appends a failed category outcome.
func (p *Phase) AddError(c Category, err error) {
	p.Errors = append(p.Errors, PhaseEntry{Category: c, Error: err.Error()})
}

// RunResult is the externally visible artifact of one orchestration call for
// a single date. It is returned to the trigger surface and never persisted
// by the core.
type RunResult struct {
	RunID      string `json:"run_id"`
	BarID      string `json:"bar_id"`
	Date       Date   `json:"date"`
	Collection Phase  `json:"collection"`
	Processing Phase  `json:"processing"`

	// TotalCollected and TotalProcessed are aggregate record counts across
	// the successful entries of each phase.
	TotalCollected int `json:"total_collected"`
	TotalProcessed int `json:"total_processed"`

	// Skipped lists categories short-circuited because a raw report already
	// existed for the date.
	Skipped []Category `json:"skipped,omitempty"`
}

// ErrorCount returns the total number of per-category failures in the run.
func (r *RunResult) ErrorCount() int {
	return len(r.Collection.Errors) + len(r.Processing.Errors)
}

// BackfillResult summarises a range orchestration across [From, To].
type BackfillResult struct {
	RunID       string        `json:"run_id"`
	BarID       string        `json:"bar_id"`
	From        Date          `json:"from"`
	To          Date          `json:"to"`
	Days        []*RunResult  `json:"days"`
	DaysSkipped []Date        `json:"days_skipped,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// ErrorCount returns the total number of per-category failures across days.
func (b *BackfillResult) ErrorCount() int {
	n := 0
	for _, day := range b.Days {
		n += day.ErrorCount()
	}
	return n
}
