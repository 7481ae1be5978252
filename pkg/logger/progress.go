package logger

import (
	"fmt"
	"sync"
	"time"
)

// ProgressReporter provides simple progress reporting functionality
type ProgressReporter struct {
	mu          sync.Mutex
	total       int
	current     int
	description string
	startTime   time.Time
	logger      *Logger
}

// NewProgressReporter creates a progress reporter. Every update short of the
// total is logged; the final report comes from Complete.
func NewProgressReporter(total int, description string) *ProgressReporter {
	return &ProgressReporter{
		total:       total,
		description: description,
		startTime:   time.Now(),
		logger:      GetLogger().WithField("component", "progress"),
	}
}

// Update increments the progress counter and reports intermediate progress
func (pr *ProgressReporter) Update(increment int) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	pr.current += increment
	if pr.current < pr.total {
		pr.reportProgress()
	}
}

// Complete marks the progress as complete and reports final status
func (pr *ProgressReporter) Complete() {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	pr.current = pr.total
	pr.reportProgress()
}

// reportProgress logs the current progress (must be called with lock held)
func (pr *ProgressReporter) reportProgress() {
	percentage := pr.percentage()
	elapsed := time.Since(pr.startTime)

	var eta string
	if pr.current > 0 && pr.current < pr.total {
		avgTimePerItem := elapsed / time.Duration(pr.current)
		remaining := time.Duration(pr.total-pr.current) * avgTimePerItem
		eta = fmt.Sprintf(" (ETA: %s)", remaining.Round(time.Second))
	}

	pr.logger.WithFields(map[string]interface{}{
		"progress":    fmt.Sprintf("%.1f%%", percentage),
		"current":     pr.current,
		"total":       pr.total,
		"elapsed":     elapsed.Round(time.Second).String(),
		"description": pr.description,
	}).Info(fmt.Sprintf("%s: %d/%d (%.1f%%)%s", pr.description, pr.current, pr.total, percentage, eta))
}

func (pr *ProgressReporter) percentage() float64 {
	if pr.total == 0 {
		return 100
	}
	return float64(pr.current) / float64(pr.total) * 100
}
