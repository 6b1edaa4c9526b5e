package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folio-labs/folio-cli/internal/core/domain"
	"github.com/folio-labs/folio-cli/internal/core/services"
)

var (
	searchLimit    int
	searchJSON     bool
	searchSemantic bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search portfolios and products",
	Long: `Searches the portfolio tree. Keyword queries use case-insensitive
substring matching; natural-language questions additionally rank
results by embedding similarity when the vector index is built.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of semantic results (0 = default)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchSemantic, "semantic", false, "force semantic ranking even for keyword queries")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := domain.SearchOptions{
		Limit:    searchLimit,
		Semantic: searchSemantic,
	}

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		r := &results[i]

		if r.SemanticScore != nil {
			cmd.Printf("  [%d] %s (%s, %.2f)\n", i+1, r.Name, r.MatchField, *r.SemanticScore)
		} else {
			cmd.Printf("  [%d] %s (%s)\n", i+1, r.Name, r.MatchField)
		}
		if r.Type == domain.ResultTypeProduct && r.PortfolioName != "" {
			cmd.Printf("      Portfolio: %s\n", r.PortfolioName)
		}
		if r.SemanticText != "" {
			cmd.Printf("      %s\n", services.PreviewText(r.SemanticText))
		} else if r.MatchValue != "" {
			cmd.Printf("      %s\n", services.PreviewText(r.MatchValue))
		}
		cmd.Println()
	}

	return nil
}
