package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a document for ingestion",
	Long: `Registers a document and enqueues it for ingestion. The file is
chunked, embedded and made searchable by a running worker.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

var reingestCmd = &cobra.Command{
	Use:   "reingest [doc-id]",
	Short: "Re-run ingestion for a document",
	Long: `Resets a ready or failed document back to processing, discards its
previous chunks and enqueues a fresh ingestion job.`,
	Args: cobra.ExactArgs(1),
	RunE: runReingest,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(reingestCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	doc, err := ingestService.Upload(cmd.Context(), userID, filepath.Base(path), path)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	cmd.Printf("Uploaded %s\n", doc.Filename)
	cmd.Printf("  ID:     %s\n", doc.ID)
	cmd.Printf("  Status: %s\n", doc.Status)
	cmd.Println("Run 'semantic-search worker' to process pending documents.")
	return nil
}

func runReingest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	docID := args[0]
	if err := ingestService.Reingest(cmd.Context(), docID); err != nil {
		return fmt.Errorf("reingest failed: %w", err)
	}

	cmd.Printf("Re-ingestion enqueued for %s\n", docID)
	return nil
}
