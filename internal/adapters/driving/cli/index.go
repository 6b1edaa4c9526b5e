package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the semantic vector index",
	RunE:  runIndexStats,
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the vector index from the portfolio tree",
	RunE:  runIndexRebuild,
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector index status",
	RunE:  runIndexStats,
}

func init() {
	indexCmd.AddCommand(indexRebuildCmd)
	indexCmd.AddCommand(indexStatsCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexRebuild(cmd *cobra.Command, _ []string) error {
	if indexer == nil || portfolioStore == nil {
		return errors.New("indexer not configured")
	}

	portfolios, err := portfolioStore.GetPortfolios(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading portfolios: %w", err)
	}

	if err := indexer.Rebuild(cmd.Context(), portfolios); err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}

	cmd.Printf("Indexed %d entries from %d portfolios.\n", indexer.Len(), len(portfolios))
	return nil
}

func runIndexStats(cmd *cobra.Command, _ []string) error {
	if indexer == nil {
		return errors.New("indexer not configured")
	}

	status := "not built"
	if indexer.Ready() {
		status = "ready"
	}
	cmd.Printf("Status: %s\n", status)
	cmd.Printf("Entries: %d\n", indexer.Len())
	return nil
}
