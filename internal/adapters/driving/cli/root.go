// Package cli implements the cobra command tree for the folio binary.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/folio-labs/folio-cli/internal/core/ports/driven"
	"github.com/folio-labs/folio-cli/internal/core/ports/driving"
	"github.com/folio-labs/folio-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services the commands depend on. The composition root injects them
// before Execute.
var (
	searchService  driving.SearchService
	indexer        driving.Indexer
	portfolioStore driven.PortfolioStore
	configStore    driven.ConfigStore
)

// Services bundles everything the command tree needs.
type Services struct {
	Search    driving.SearchService
	Indexer   driving.Indexer
	Portfolio driven.PortfolioStore
	Config    driven.ConfigStore
}

// SetServices wires the command tree to its collaborators.
func SetServices(s Services) {
	searchService = s.Search
	indexer = s.Indexer
	portfolioStore = s.Portfolio
	configStore = s.Config
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Search your product portfolios from the terminal",
	Long: `Folio keeps a local tree of portfolios, products, goals, plans,
metrics, and release notes, and answers plain-English questions about
them using a hybrid of substring and semantic vector search.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
