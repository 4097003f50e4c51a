// Package downloader drives the per-memory state machine: fetch,
// extract, composite, normalize, deduplicate, and persist progress.
package downloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bstardust/snapchat-memories-downloader/internal/config"
	"github.com/bstardust/snapchat-memories-downloader/internal/dedup"
	"github.com/bstardust/snapchat-memories-downloader/internal/fetch"
	"github.com/bstardust/snapchat-memories-downloader/internal/geotime"
	"github.com/bstardust/snapchat-memories-downloader/internal/journal"
	"github.com/bstardust/snapchat-memories-downloader/internal/logger"
	"github.com/bstardust/snapchat-memories-downloader/internal/naming"
	"github.com/bstardust/snapchat-memories-downloader/internal/progress"
	"github.com/bstardust/snapchat-memories-downloader/pkg/models"
)

// Downloader processes ledger entries strictly sequentially. It is
// the sole writer of the ledger: the ledger document is rewritten
// wholesale after every transition, which only stays safe with one
// writer.
type Downloader struct {
	ctx      context.Context
	cfg      *config.Config
	journal  *journal.Journal
	engine   *fetch.Engine
	resolver *geotime.Resolver
	progress *progress.Reporter
}

// New creates a Downloader. resolver may be nil when local-time
// normalization is disabled.
func New(ctx context.Context, cfg *config.Config, jnl *journal.Journal, engine *fetch.Engine,
	resolver *geotime.Resolver, reporter *progress.Reporter) *Downloader {
	return &Downloader{
		ctx:      ctx,
		cfg:      cfg,
		journal:  jnl,
		engine:   engine,
		resolver: resolver,
		progress: reporter,
	}
}

// Run processes every selected entry. Item-level failures are
// recorded and never abort the batch; only ledger persistence errors
// and context cancellation do.
func (d *Downloader) Run() error {
	selected := d.selectEntries()
	if len(selected) == 0 {
		logger.Info("No items to download")
		return nil
	}

	d.progress.Start(len(selected))

	for i, entry := range selected {
		if err := d.ctx.Err(); err != nil {
			return err
		}

		// Terminal state: never re-download completed work, even in
		// a normal run that selects everything.
		if entry.Status == journal.StatusSuccess && len(entry.Files) > 0 {
			d.progress.Skip(entry.Number)
			continue
		}

		logger.Info("[%d/%d] #%d %s %s (%s, %s)",
			i+1, len(selected), entry.Number, entry.Date, entry.MediaType, entry.Latitude, entry.Longitude)

		entry.Status = journal.StatusInProgress
		if err := d.journal.Save(); err != nil {
			return fmt.Errorf("persisting ledger: %w", err)
		}

		files, err := d.processEntry(entry)
		if err != nil {
			entry.Status = journal.StatusFailed
			entry.Error = err.Error()
			d.progress.Fail(entry.Number, err)
		} else {
			if files == nil {
				files = []models.FileRef{}
			}
			entry.Status = journal.StatusSuccess
			entry.Files = files
			entry.Error = ""
			d.progress.Complete(entry.Number)
		}

		if err := d.journal.Save(); err != nil {
			return fmt.Errorf("persisting ledger: %w", err)
		}
	}

	d.progress.Finish(d.journal.Stats())
	return nil
}

// selectEntries applies the run-mode selection policy.
func (d *Downloader) selectEntries() []*journal.Entry {
	switch {
	case d.cfg.Download.RetryFailed:
		return d.filterByStatus(journal.StatusFailed)
	case d.cfg.Download.Resume:
		return d.filterByStatus(journal.StatusPending, journal.StatusInProgress, journal.StatusFailed)
	default:
		return d.journal.Entries
	}
}

func (d *Downloader) filterByStatus(statuses ...string) []*journal.Entry {
	var selected []*journal.Entry
	for _, e := range d.journal.Entries {
		for _, s := range statuses {
			if e.Status == s {
				selected = append(selected, e)
				break
			}
		}
	}
	return selected
}

// processEntry runs one memory through fetch/extract, deduplication,
// and timestamp normalization, returning the files to record.
func (d *Downloader) processEntry(entry *journal.Entry) ([]models.FileRef, error) {
	stem := naming.Stem(entry.Date, d.cfg.Download.TimestampNames,
		naming.SequenceNumber(entry.Number, len(d.journal.Entries)))
	ext := naming.Extension(models.MediaType(entry.MediaType))

	opts := fetch.Options{
		MergeOverlays: d.cfg.Download.MergeOverlays,
		OverlaysOnly:  d.cfg.Download.OverlaysOnly,
		Date:          entry.Date,
		Latitude:      entry.Latitude,
		Longitude:     entry.Longitude,
	}

	outputDir := d.cfg.Download.OutputDir
	files, err := d.engine.DownloadAndExtract(d.ctx, entry.URL, outputDir, stem, ext, opts)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		logger.Info("  Nothing to save for #%d", entry.Number)
		return files, nil
	}

	// Stamp before the duplicate check: a dedup hit swaps in a file
	// owned by an earlier record, whose own capture time must stand.
	if ts, ok := d.resolver.Resolve(entry.Date, d.cfg.Download.LocalTime, entry.Latitude, entry.Longitude); ok {
		for _, f := range files {
			if err := geotime.SetFileTimestamp(filepath.Join(outputDir, f.Path), ts); err != nil {
				logger.Warn("Could not set timestamp on %s: %v", f.Path, err)
			}
		}
		logger.Debug("  Timestamp set to %s", entry.Date)
	}

	return d.dropDuplicate(files, outputDir), nil
}

// dropDuplicate replaces a single-file result with a reference to an
// existing content-identical file, removing the fresh copy. Paired
// main/overlay results are kept as-is; only one-file outputs have an
// unambiguous candidate to compare.
func (d *Downloader) dropDuplicate(files []models.FileRef, outputDir string) []models.FileRef {
	if !d.cfg.Download.SkipDuplicates || len(files) != 1 {
		return files
	}

	path := filepath.Join(outputDir, files[0].Path)
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Could not read %s for duplicate check: %v", files[0].Path, err)
		return files
	}

	existing := dedup.FindDuplicate(data, outputDir, true, files[0].Path)
	if existing == "" {
		return files
	}

	logger.Info("  Duplicate of %s, not storing a second copy", existing)
	if err := os.Remove(path); err != nil {
		logger.Warn("Could not remove duplicate %s: %v", files[0].Path, err)
		return files
	}

	return []models.FileRef{{Path: existing, Size: files[0].Size, Type: files[0].Type}}
}
