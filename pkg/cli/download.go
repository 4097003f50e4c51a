package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/bstardust/snapchat-memories-downloader/internal/adapter/snapexport"
	"github.com/bstardust/snapchat-memories-downloader/internal/compositor"
	"github.com/bstardust/snapchat-memories-downloader/internal/config"
	"github.com/bstardust/snapchat-memories-downloader/internal/downloader"
	"github.com/bstardust/snapchat-memories-downloader/internal/exifwriter"
	"github.com/bstardust/snapchat-memories-downloader/internal/fetch"
	"github.com/bstardust/snapchat-memories-downloader/internal/geotime"
	"github.com/bstardust/snapchat-memories-downloader/internal/journal"
	"github.com/bstardust/snapchat-memories-downloader/internal/logger"
	"github.com/bstardust/snapchat-memories-downloader/internal/progress"
	"github.com/spf13/cobra"
)

func newDownloadCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download [flags] <memories_history.html>",
		Short: "Download all memories from an export document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd.Context(), cfg, args[0])
		},
	}

	cmd.Flags().StringVarP(&cfg.Download.OutputDir, "output", "o", "memories", "Output directory")
	cmd.Flags().BoolVar(&cfg.Download.Resume, "resume", false, "Only process pending, in-progress and failed items")
	cmd.Flags().BoolVar(&cfg.Download.RetryFailed, "retry-failed", false, "Only process failed items")
	cmd.Flags().BoolVar(&cfg.Download.TimestampNames, "timestamp-names", false, "Name files by capture timestamp instead of sequence number")
	cmd.Flags().BoolVar(&cfg.Download.LocalTime, "local-time", false, "Resolve timestamps to the capture location's timezone")
	cmd.Flags().BoolVar(&cfg.Download.MergeOverlays, "merge-overlays", false, "Composite overlays onto their main asset")
	cmd.Flags().BoolVar(&cfg.Download.OverlaysOnly, "overlays-only", false, "Keep only overlay assets, skip everything else")
	cmd.Flags().BoolVar(&cfg.Download.SkipDuplicates, "skip-duplicates", false, "Skip storage when identical content already exists")
	cmd.Flags().BoolVar(&cfg.Download.EmbedEXIF, "embed-exif", false, "Embed capture time and GPS position into image metadata")
	cmd.Flags().IntVar(&cfg.Download.Limit, "limit", 0, "Process only the first N memories (0 = all)")
	cmd.Flags().DurationVar(&cfg.Download.Timeout, "timeout", cfg.Download.Timeout, "Per-request timeout")

	return cmd
}

func runDownload(ctx context.Context, cfg *config.Config, htmlPath string) error {
	logger.SetLevel(cfg.LogLevel)

	memories, err := snapexport.ParseFile(htmlPath)
	if err != nil {
		return fmt.Errorf("failed to parse export: %w", err)
	}
	if len(memories) == 0 {
		logger.Warn("No memories found in %s", htmlPath)
		return nil
	}

	if cfg.Download.Limit > 0 && len(memories) > cfg.Download.Limit {
		logger.Info("Limiting run to first %d of %d memories", cfg.Download.Limit, len(memories))
		memories = memories[:cfg.Download.Limit]
	}

	if err := os.MkdirAll(cfg.Download.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	jnl, err := journal.Load(cfg.Download.OutputDir, memories)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	var resolver *geotime.Resolver
	if cfg.Download.LocalTime {
		resolver, err = geotime.NewResolver()
		if err != nil {
			logger.Warn("Timezone resolution unavailable, keeping UTC: %v", err)
		}
	}

	var embed fetch.EmbedFunc
	if cfg.Download.EmbedEXIF {
		embed = exifwriter.New(resolver, cfg.Download.LocalTime).Embed
	}

	engine := fetch.NewEngine(cfg.Download.Timeout, cfg.Download.UserAgent, compositor.NewFFmpeg(), embed)
	dl := downloader.New(ctx, cfg, jnl, engine, resolver, progress.New())

	if err := dl.Run(); err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	return nil
}
