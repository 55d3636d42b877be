package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ankitghanghas07/semantic-search/internal/core/domain"
)

var documentsJSON bool

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage uploaded documents",
	Long:  `List documents or show a single document's ingestion state.`,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the user's documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsList,
}

var documentsGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsGet,
}

func init() {
	documentsCmd.PersistentFlags().BoolVar(&documentsJSON, "json", false, "output as JSON")

	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsGetCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	docs, err := documentStore.ListDocuments(cmd.Context(), userID)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	if documentsJSON {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(docs) == 0 {
		cmd.Println("No documents uploaded.")
		return nil
	}

	for i := range docs {
		printDocument(cmd, &docs[i])
		cmd.Println()
	}
	return nil
}

func runDocumentsGet(cmd *cobra.Command, args []string) error {
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	doc, err := documentStore.GetDocumentForUser(cmd.Context(), args[0], userID)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}

	if documentsJSON {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal document: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printDocument(cmd, doc)
	return nil
}

func printDocument(cmd *cobra.Command, doc *domain.Document) {
	cmd.Printf("%s  [%s]\n", doc.Filename, doc.Status)
	cmd.Printf("  ID:       %s\n", doc.ID)
	cmd.Printf("  Uploaded: %s\n", doc.UploadedAt.Format(time.RFC3339))
	if doc.ReadyAt != nil {
		cmd.Printf("  Ready:    %s\n", doc.ReadyAt.Format(time.RFC3339))
	}
	if doc.NumChunks != nil {
		cmd.Printf("  Chunks:   %d\n", *doc.NumChunks)
	}
	if doc.ErrorMessage != nil {
		cmd.Printf("  Error:    %s\n", *doc.ErrorMessage)
	}
}
