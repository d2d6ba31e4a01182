package reembed

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker writes a single, rewritten status line for a long batch
// job. Work completed by an earlier, interrupted run can be credited with
// StartFrom so percentages cover the whole job while the rate and ETA only
// reflect the current run.
type ProgressTracker struct {
	mu sync.Mutex

	writer         io.Writer
	total          int
	reportInterval int
	now            func() time.Time

	started      bool
	startTime    time.Time
	offset       int // items done before this run
	done         int // items done in this run
	lastReported int
}

// NewProgressTracker creates a tracker for total items that reports every
// reportInterval items. Nothing is written until Start or StartFrom.
func NewProgressTracker(writer io.Writer, total, reportInterval int) *ProgressTracker {
	if reportInterval <= 0 {
		reportInterval = 1
	}
	return &ProgressTracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
		now:            time.Now,
	}
}

// Start begins tracking a fresh run.
func (p *ProgressTracker) Start() {
	p.StartFrom(0)
}

// StartFrom begins tracking a run that continues after done items.
func (p *ProgressTracker) StartFrom(done int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.started = true
	p.startTime = p.now()
	p.offset = min(max(done, 0), p.total)
	p.done = 0
	p.lastReported = p.offset
}

// Add records n more completed items.
func (p *ProgressTracker) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	p.done = min(p.done+n, p.total-p.offset)
	if p.position()-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.position()
	}
}

// Finish marks every item done and ends the status line.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	p.done = p.total - p.offset
	p.report()
	fmt.Fprintln(p.writer)
}

// Elapsed returns the time since the run started.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}
	return p.now().Sub(p.startTime)
}

// Rate returns items per second completed by this run.
func (p *ProgressTracker) Rate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rate()
}

func (p *ProgressTracker) position() int {
	return p.offset + p.done
}

func (p *ProgressTracker) rate() float64 {
	if !p.started {
		return 0
	}
	secs := p.now().Sub(p.startTime).Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(p.done) / secs
}

// report must be called with the lock held.
func (p *ProgressTracker) report() {
	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.position()) / float64(p.total) * 100.0
	}
	rate := p.rate()
	fmt.Fprintf(p.writer, "\rProgress: %d/%d (%.1f%%) - %.1f items/s%s",
		p.position(), p.total, percentage, rate, p.eta(rate))
}

// eta formats the estimated time remaining, or "" when unknown or done.
func (p *ProgressTracker) eta(rate float64) string {
	remaining := p.total - p.position()
	if remaining <= 0 || rate <= 0 {
		return ""
	}
	left := time.Duration(float64(remaining) / rate * float64(time.Second))
	return fmt.Sprintf(" - ETA %v", left.Round(time.Second))
}
