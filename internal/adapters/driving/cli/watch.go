package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ankitghanghas07/semantic-search/internal/logger"
)

var watchDir string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a directory and upload new files",
	Long: `Watches the uploads directory and registers every newly created file
for ingestion. Pair with a running worker to get end-to-end ingestion
of dropped files.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "directory to watch (default from config)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	dir := watchDir
	if dir == "" && cfg != nil {
		dir = cfg.UploadsDir
	}
	if dir == "" {
		return errors.New("no directory to watch; pass --dir or set uploads_dir in the config")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create watch directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s. Press Ctrl+C to stop.\n", dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
				continue
			}
			doc, err := ingestService.Upload(ctx, userID, filepath.Base(event.Name), event.Name)
			if err != nil {
				logger.Warn("could not upload %s: %v", event.Name, err)
				continue
			}
			cmd.Printf("Enqueued %s (%s)\n", doc.Filename, doc.ID)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}
