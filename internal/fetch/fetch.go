// Package fetch retrieves remote assets and splits bundled payloads
// into their main and overlay roles on disk.
package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bstardust/snapchat-memories-downloader/internal/compositor"
	"github.com/bstardust/snapchat-memories-downloader/internal/logger"
	"github.com/bstardust/snapchat-memories-downloader/internal/naming"
	"github.com/bstardust/snapchat-memories-downloader/pkg/common"
	"github.com/bstardust/snapchat-memories-downloader/pkg/models"
)

// EmbedFunc enriches image bytes with capture metadata.
// Implementations must return the original bytes on failure.
type EmbedFunc func(data []byte, date, latitude, longitude string) []byte

// Options control how one asset is persisted.
type Options struct {
	MergeOverlays bool
	OverlaysOnly  bool

	// Record metadata forwarded to the EXIF embedder.
	Date      string
	Latitude  string
	Longitude string
}

// Engine performs a single bounded GET per asset and writes the
// resulting file(s). It never retries; retry is a run-mode policy
// owned by the downloader.
type Engine struct {
	client      *http.Client
	userAgent   string
	videoMerger compositor.VideoMerger
	embed       EmbedFunc
}

// NewEngine creates an Engine. videoMerger handles video overlay
// compositing; embed may be nil to disable EXIF enrichment.
func NewEngine(timeout time.Duration, userAgent string, videoMerger compositor.VideoMerger, embed EmbedFunc) *Engine {
	return &Engine{
		client:      &http.Client{Timeout: timeout},
		userAgent:   userAgent,
		videoMerger: videoMerger,
		embed:       embed,
	}
}

// IsZip reports whether content starts with the ZIP magic signature.
func IsZip(content []byte) bool {
	return len(content) >= 2 && content[0] == 'P' && content[1] == 'K'
}

// DownloadAndExtract fetches url and persists it under baseDir as
// stem+ext (singleton) or stem-main/-overlay+ext (archive). It
// returns a FileRef per file actually left on disk; an empty result
// with nil error means the item was skipped (overlays-only mode).
func (e *Engine) DownloadAndExtract(ctx context.Context, url, baseDir, stem, ext string, opts Options) ([]models.FileRef, error) {
	content, err := e.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if IsZip(content) {
		return e.extractArchive(ctx, content, baseDir, stem, ext, opts)
	}

	if opts.OverlaysOnly {
		logger.Debug("Singleton payload has no overlay, skipping")
		return nil, nil
	}

	data := e.maybeEmbed(content, ext, opts)
	ref, err := writeAsset(baseDir, stem+ext, data, models.FileTypeSingle)
	if err != nil {
		return nil, err
	}
	return []models.FileRef{ref}, nil
}

func (e *Engine) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, common.NewTransportError("building request", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, common.NewTransportError("requesting asset", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, common.NewTransportError(fmt.Sprintf("unexpected status %s", resp.Status), nil)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, common.NewTransportError("reading response body", err)
	}
	return content, nil
}

// extractArchive splits archive members into main/overlay roles,
// classifying by the member name. If a role appears more than once
// the last member wins, matching the export's one-main-one-overlay
// bundle convention.
func (e *Engine) extractArchive(ctx context.Context, content []byte, baseDir, stem, ext string, opts Options) ([]models.FileRef, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, common.NewArchiveError("opening archive payload", err)
	}

	var mainData, overlayData []byte
	for _, member := range reader.File {
		data, err := readMember(member)
		if err != nil {
			return nil, common.NewArchiveError(fmt.Sprintf("reading member %s", member.Name), err)
		}
		if strings.Contains(strings.ToLower(member.Name), "-overlay") {
			overlayData = data
		} else {
			mainData = data
		}
	}

	if opts.OverlaysOnly {
		if overlayData == nil {
			logger.Debug("Archive has no overlay member, skipping")
			return nil, nil
		}
		ref, err := writeAsset(baseDir, naming.MemberName(stem, models.FileTypeOverlay, ext), overlayData, models.FileTypeOverlay)
		if err != nil {
			return nil, err
		}
		return []models.FileRef{ref}, nil
	}

	var files []models.FileRef
	if mainData != nil {
		data := e.maybeEmbed(mainData, ext, opts)
		ref, err := writeAsset(baseDir, naming.MemberName(stem, models.FileTypeMain, ext), data, models.FileTypeMain)
		if err != nil {
			return nil, err
		}
		files = append(files, ref)
	}
	if overlayData != nil {
		ref, err := writeAsset(baseDir, naming.MemberName(stem, models.FileTypeOverlay, ext), overlayData, models.FileTypeOverlay)
		if err != nil {
			return nil, err
		}
		files = append(files, ref)
	}

	if opts.MergeOverlays && mainData != nil && overlayData != nil {
		if merged, ok := e.mergeAssets(ctx, baseDir, stem, ext, mainData, overlayData, opts); ok {
			return []models.FileRef{merged}, nil
		}
		logger.Warn("Overlay merge failed, keeping main and overlay files")
	}

	return files, nil
}

// mergeAssets composites the already-extracted pair into a single
// stem+ext file and removes the intermediates. Merge failure is
// best-effort: false leaves the pair in place.
func (e *Engine) mergeAssets(ctx context.Context, baseDir, stem, ext string, mainData, overlayData []byte, opts Options) (models.FileRef, bool) {
	mainPath := filepath.Join(baseDir, naming.MemberName(stem, models.FileTypeMain, ext))
	overlayPath := filepath.Join(baseDir, naming.MemberName(stem, models.FileTypeOverlay, ext))
	mergedName := stem + ext
	mergedPath := filepath.Join(baseDir, mergedName)

	var size int64
	if ext == ".mp4" {
		if e.videoMerger == nil || !e.videoMerger.Merge(ctx, mainPath, overlayPath, mergedPath) {
			return models.FileRef{}, false
		}
		info, err := os.Stat(mergedPath)
		if err != nil {
			logger.Warn("Could not stat merged video: %v", err)
			return models.FileRef{}, false
		}
		size = info.Size()
	} else {
		merged, err := compositor.MergeImages(mainData, overlayData)
		if err != nil {
			logger.Warn("Image overlay merge failed: %v", err)
			return models.FileRef{}, false
		}
		merged = e.maybeEmbed(merged, ext, opts)
		if err := os.WriteFile(mergedPath, merged, 0o644); err != nil {
			logger.Warn("Could not write merged image: %v", err)
			return models.FileRef{}, false
		}
		size = int64(len(merged))
	}

	removeIntermediate(mainPath)
	removeIntermediate(overlayPath)

	return models.FileRef{Path: mergedName, Size: size, Type: models.FileTypeMain}, true
}

func (e *Engine) maybeEmbed(data []byte, ext string, opts Options) []byte {
	if e.embed == nil || ext != ".jpg" {
		return data
	}
	return e.embed(data, opts.Date, opts.Latitude, opts.Longitude)
}

func readMember(member *zip.File) ([]byte, error) {
	rc, err := member.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func writeAsset(baseDir, name string, data []byte, fileType string) (models.FileRef, error) {
	path := filepath.Join(baseDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return models.FileRef{}, common.NewStorageError(fmt.Sprintf("writing %s", name), err)
	}
	return models.FileRef{Path: name, Size: int64(len(data)), Type: fileType}, nil
}

func removeIntermediate(path string) {
	if err := os.Remove(path); err != nil {
		logger.Warn("Could not remove intermediate %s: %v", path, err)
	}
}
