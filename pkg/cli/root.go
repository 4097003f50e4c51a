package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bstardust/snapchat-memories-downloader/internal/config"
	"github.com/bstardust/snapchat-memories-downloader/internal/logger"
	"github.com/spf13/cobra"
)

func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interruption signals
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		logger.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	rootCmd := &cobra.Command{
		Use:   "memories-download",
		Short: "Download Snapchat Memories into a local archive",
		Long: `A tool for migrating a Snapchat Memories export into a local,
normalized media archive: every memory is fetched, overlays are
composited, capture time and location are preserved, and progress is
tracked in a resumable ledger.`,
	}

	// Global flags
	cfg := config.New()
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	// Add commands
	rootCmd.AddCommand(newDownloadCommand(cfg))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("Error executing command: %v", err)
		os.Exit(1)
	}
}
