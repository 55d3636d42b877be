package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ankitghanghas07/semantic-search/internal/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the ingestion worker",
	Long: `Consumes the ingestion queue and processes documents until
interrupted. Jobs left running by a previous crash are requeued on
startup.`,
	Args: cobra.NoArgs,
	RunE: runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	if workerService == nil {
		return errors.New("worker not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if store != nil {
		n, err := store.RequeueStuckJobs(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("requeued %d interrupted jobs", n)
		}
	}

	cmd.Println("Worker running. Press Ctrl+C to stop.")
	if err := workerService.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
