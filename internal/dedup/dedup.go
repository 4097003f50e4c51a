// Package dedup detects content-identical files already present in
// the output directory.
package dedup

import (
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/bstardust/snapchat-memories-downloader/internal/journal"
	"github.com/bstardust/snapchat-memories-downloader/internal/logger"
	"github.com/zeebo/blake3"
)

// HashBytes returns the content hash of b as a fixed-length lowercase
// hex digest.
func HashBytes(b []byte) string {
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// FindDuplicate reports the name of an existing regular file in dir
// whose content hash equals the candidate's, or "" when there is
// none. When enabled is false it always reports no duplicate. The
// ledger document and any excluded names are never considered.
// Hashes are recomputed on every call: files may be renamed or
// replaced externally between runs.
func FindDuplicate(candidate []byte, dir string, enabled bool, exclude ...string) string {
	if !enabled {
		return ""
	}

	excluded := make(map[string]struct{}, len(exclude)+1)
	excluded[journal.FileName] = struct{}{}
	for _, name := range exclude {
		excluded[name] = struct{}{}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("Could not scan %s for duplicates: %v", dir, err)
		return ""
	}

	candidateHash := HashBytes(candidate)

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if _, ok := excluded[entry.Name()]; ok {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			logger.Warn("Could not read %s for duplicate check: %v", entry.Name(), err)
			continue
		}

		if HashBytes(data) == candidateHash {
			return entry.Name()
		}
	}

	return ""
}
