// Package journal persists per-memory download progress so an
// interrupted run can be resumed without losing or repeating work.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bstardust/snapchat-memories-downloader/internal/logger"
	"github.com/bstardust/snapchat-memories-downloader/pkg/models"
)

// FileName is the ledger document inside the output directory.
const FileName = "metadata.json"

// Entry statuses. External resume/retry tooling depends on these
// exact string values.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusSuccess    = "success"
	StatusFailed     = "failed"
)

// Entry tracks one memory through the pipeline. Number is assigned
// once at first creation and never changes across resumes.
type Entry struct {
	Number    int              `json:"number"`
	Date      string           `json:"date"`
	MediaType string           `json:"media_type"`
	Latitude  string           `json:"latitude"`
	Longitude string           `json:"longitude"`
	URL       string           `json:"url"`
	Status    string           `json:"status"`
	Files     []models.FileRef `json:"files"`
	Error     string           `json:"error,omitempty"`
}

// Journal is the ordered ledger, index-aligned with the input records.
// The downloader is its sole writer.
type Journal struct {
	path    string
	Entries []*Entry
}

// Load reads the ledger from outputDir, or seeds a fresh one with a
// pending entry per memory and persists it immediately. A ledger that
// exists but cannot be read or parsed is a fatal error: guessing at
// prior progress risks re-downloading or skipping items.
func Load(outputDir string, memories []models.Memory) (*Journal, error) {
	j := &Journal{path: filepath.Join(outputDir, FileName)}

	data, err := os.ReadFile(j.path)
	if err == nil {
		if err := json.Unmarshal(data, &j.Entries); err != nil {
			return nil, fmt.Errorf("parsing ledger %s: %w", j.path, err)
		}
		logger.Info("Loaded ledger with %d entries from %s", len(j.Entries), j.path)
		return j, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading ledger %s: %w", j.path, err)
	}

	logger.Info("Creating ledger for %d memories at %s", len(memories), j.path)
	j.Entries = make([]*Entry, 0, len(memories))
	for i, m := range memories {
		j.Entries = append(j.Entries, &Entry{
			Number:    i + 1,
			Date:      orUnknown(m.Date),
			MediaType: orUnknown(string(m.MediaType)),
			Latitude:  orUnknown(m.Latitude),
			Longitude: orUnknown(m.Longitude),
			URL:       m.URL,
			Status:    StatusPending,
			Files:     []models.FileRef{},
		})
	}

	if err := j.Save(); err != nil {
		return nil, err
	}
	return j, nil
}

// Save rewrites the whole ledger document. Called after every entry
// transition; its failure is fatal to the run.
func (j *Journal) Save() error {
	data, err := json.MarshalIndent(j.Entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling ledger: %w", err)
	}
	if err := os.WriteFile(j.path, data, 0o644); err != nil {
		return fmt.Errorf("writing ledger %s: %w", j.path, err)
	}
	return nil
}

// Stats returns per-status counts and the total number of files
// recorded by successful entries.
func (j *Journal) Stats() (success, failed, pending, totalFiles int) {
	for _, e := range j.Entries {
		switch e.Status {
		case StatusSuccess:
			success++
			totalFiles += len(e.Files)
		case StatusFailed:
			failed++
		case StatusPending:
			pending++
		}
	}
	return success, failed, pending, totalFiles
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
