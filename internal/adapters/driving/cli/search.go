package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ankitghanghas07/semantic-search/internal/core/domain"
)

var (
	searchTopK     int
	searchDocument string
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search uploaded documents",
	Long: `Performs semantic search over the user's ready documents, ranking
chunks by cosine similarity to the query.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "maximum number of results (default 5)")
	searchCmd.Flags().StringVarP(&searchDocument, "document", "d", "", "restrict search to one document ID")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	query := args[0]
	results, err := searchService.Search(cmd.Context(), userID, query, searchDocument, defaultTopK(searchTopK))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchText(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		cmd.Printf("  [%d] %.3f  document %s\n", i+1, r.Score, r.DocumentID)
		cmd.Printf("      %s\n", snippet(r.Content, 160))
		cmd.Println()
	}
	return nil
}

// defaultTopK resolves an unset --top-k flag to the configured default.
// Zero falls through to the service's built-in default when no config
// is loaded.
func defaultTopK(flag int) int {
	if flag == 0 && cfg != nil {
		return cfg.Search.TopK
	}
	return flag
}

// snippet trims chunk content to a single presentable line.
func snippet(s string, n int) string {
	if len(s) > n {
		s = s[:n] + "..."
	}
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' {
			r = ' '
		}
		out = append(out, r)
	}
	return string(out)
}
