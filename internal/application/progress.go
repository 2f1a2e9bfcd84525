package application

import (
	"sync"

	"github.com/prajeetp/blackhole-cli/internal/domain"
)

// ProgressFunc receives monotone (processed, total) updates. It must be cheap;
// it runs on the harvesting path.
type ProgressFunc func(processed, total int)

// progressTracker serializes updates from completing workers. The lock guards
// only the counter updates and the callback dispatch ordering, never a network
// call.
type progressTracker struct {
	mu        sync.Mutex
	total     int
	processed int
	successes int
	failures  int
	aborted   int
	callback  ProgressFunc
}

func newProgressTracker(total int, callback ProgressFunc) *progressTracker {
	return &progressTracker{total: total, callback: callback}
}

func (p *progressTracker) complete(res domain.Result) (processed int) {
	p.mu.Lock()
	p.processed++
	switch {
	case res.Success:
		p.successes++
	case res.Aborted():
		p.aborted++
	default:
		p.failures++
	}
	processed = p.processed
	callback := p.callback
	total := p.total
	p.mu.Unlock()

	if callback != nil {
		callback(processed, total)
	}
	return processed
}

func (p *progressTracker) counts() (processed, successes, failures, aborted int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.processed, p.successes, p.failures, p.aborted
}
