package domain

import (
	"strings"
	"time"
)

// Row is one scraped table row: either a header row carrying column names or a
// data row carrying cell text. Cells may contain embedded newlines (multi-line
// cells such as stacked ticket numbers).
type Row struct {
	Header bool
	Cells  []string
}

// Empty reports whether every cell is blank. The table parser discards such
// rows; a lone empty row is its "no tables found" sentinel.
func (r Row) Empty() bool {
	for _, cell := range r.Cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Result is the outcome of exactly one executor call. It is never mutated
// after return; the orchestrator only collects it.
type Result struct {
	TargetID   string
	Action     Action
	Success    bool
	StatusCode int
	Body       string
	Rows       []Row
	Message    string
	Elapsed    time.Duration
}

// AbortedMessage tags results for units skipped by a cooperative abort.
const AbortedMessage = "aborted"

// AbortedResult builds the result recorded for a unit that never started
// because the batch abort flag was already set.
func AbortedResult(op Operation) Result {
	return Result{
		TargetID: op.TargetID,
		Action:   op.Action,
		Success:  false,
		Message:  AbortedMessage,
	}
}

// Aborted reports whether this result came from a skipped unit.
func (r Result) Aborted() bool {
	return !r.Success && r.Message == AbortedMessage
}
