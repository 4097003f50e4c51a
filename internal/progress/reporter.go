// Package progress reports per-run download progress to the console.
package progress

import (
	"sync"
	"time"

	"github.com/bstardust/snapchat-memories-downloader/internal/logger"
)

// Reporter tracks and reports download progress
type Reporter struct {
	mu        sync.Mutex
	total     int
	completed int
	skipped   int
	failed    int
	startTime time.Time
}

// New creates a new progress reporter
func New() *Reporter {
	return &Reporter{}
}

// Start initializes the reporter with the number of selected items.
func (r *Reporter) Start(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total = total
	r.completed = 0
	r.skipped = 0
	r.failed = 0
	r.startTime = time.Now()

	logger.Info("Processing %d memories", total)
}

// Complete marks an item as successfully downloaded.
func (r *Reporter) Complete(number int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
}

// Skip marks an item as skipped (already downloaded).
func (r *Reporter) Skip(number int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped++
	logger.Info("  #%d already downloaded, skipping", number)
}

// Fail marks an item as failed.
func (r *Reporter) Fail(number int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed++
	logger.Error("  #%d failed: %v", number, err)
}

// Finish prints the run summary and re-run hints.
func (r *Reporter) Finish(success, failed, pending, totalFiles int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	duration := time.Since(r.startTime).Round(time.Second)
	logger.Info("Run finished in %s: %d completed, %d skipped, %d failed this run",
		duration, r.completed, r.skipped, r.failed)
	logger.Info("Summary: %d successful, %d failed, %d pending, %d total files",
		success, failed, pending, totalFiles)

	if failed > 0 {
		logger.Info("To retry failed downloads, re-run with --retry-failed")
	}
	if pending > 0 {
		logger.Info("To resume incomplete downloads, re-run with --resume")
	}
}
