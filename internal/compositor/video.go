package compositor

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/bstardust/snapchat-memories-downloader/internal/logger"
)

// VideoMerger composites an overlay (video or still image) over a
// main video for its full duration. Implementations report success as
// a boolean: video compositing is best-effort relative to the primary
// asset and must never abort the batch.
type VideoMerger interface {
	Merge(ctx context.Context, mainPath, overlayPath, outputPath string) bool
}

// FFmpeg merges videos by invoking the ffmpeg binary.
type FFmpeg struct {
	Binary  string
	Timeout time.Duration
}

// NewFFmpeg returns a merger using the ffmpeg found on PATH.
func NewFFmpeg() *FFmpeg {
	return &FFmpeg{
		Binary:  "ffmpeg",
		Timeout: 5 * time.Minute,
	}
}

// Merge overlays overlayPath onto mainPath, writing outputPath. A
// missing binary, non-zero exit, or timeout yields false; a partial
// output file is removed.
func (f *FFmpeg) Merge(ctx context.Context, mainPath, overlayPath, outputPath string) bool {
	if _, err := exec.LookPath(f.Binary); err != nil {
		logger.Warn("%s not found, skipping video overlay merge", f.Binary)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	// A still-image overlay holds its single frame for the whole
	// duration (ffmpeg's default eof_action=repeat).
	args := []string{
		"-y",
		"-i", mainPath,
		"-i", overlayPath,
		"-filter_complex", "[0:v][1:v]overlay=0:0",
		"-map", "0:a?",
		"-c:a", "copy",
		outputPath,
	}

	cmd := exec.CommandContext(ctx, f.Binary, args...)
	logger.Debug("exec %s", cmd.String())

	if output, err := cmd.CombinedOutput(); err != nil {
		logger.Warn("ffmpeg overlay merge failed: %v: %s", err, lastLine(output))
		os.Remove(outputPath)
		return false
	}

	return true
}

func lastLine(output []byte) string {
	const max = 200
	if len(output) > max {
		output = output[len(output)-max:]
	}
	return string(output)
}
