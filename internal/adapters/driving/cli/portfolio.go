package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folio-labs/folio-cli/internal/core/domain"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Manage portfolios",
	RunE:  runPortfolioList,
}

var portfolioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List portfolios and their products",
	RunE:  runPortfolioList,
}

var portfolioAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new portfolio",
	Args:  cobra.ExactArgs(1),
	RunE:  runPortfolioAdd,
}

var portfolioRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a portfolio and all its products",
	Args:  cobra.ExactArgs(1),
	RunE:  runPortfolioRemove,
}

var productDescription string

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Manage products",
}

var productAddCmd = &cobra.Command{
	Use:   "add [portfolio-id] [name]",
	Short: "Add a product to a portfolio",
	Args:  cobra.ExactArgs(2),
	RunE:  runProductAdd,
}

var productRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductRemove,
}

func init() {
	portfolioCmd.AddCommand(portfolioListCmd)
	portfolioCmd.AddCommand(portfolioAddCmd)
	portfolioCmd.AddCommand(portfolioRemoveCmd)
	rootCmd.AddCommand(portfolioCmd)

	productAddCmd.Flags().StringVar(&productDescription, "description", "", "product description")
	productCmd.AddCommand(productAddCmd)
	productCmd.AddCommand(productRemoveCmd)
	rootCmd.AddCommand(productCmd)
}

func runPortfolioList(cmd *cobra.Command, _ []string) error {
	if portfolioStore == nil {
		return errors.New("portfolio store not configured")
	}

	portfolios, err := portfolioStore.GetPortfolios(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading portfolios: %w", err)
	}

	if len(portfolios) == 0 {
		cmd.Println("No portfolios yet. Add one with 'folio portfolio add [name]'.")
		return nil
	}

	for i := range portfolios {
		pf := &portfolios[i]
		cmd.Printf("%s (%s)\n", pf.Name, pf.ID)
		for j := range pf.Products {
			p := &pf.Products[j]
			cmd.Printf("  - %s (%s)", p.Name, p.ID)
			if p.Description != "" {
				cmd.Printf(": %s", p.Description)
			}
			cmd.Println()
		}
	}
	return nil
}

func runPortfolioAdd(cmd *cobra.Command, args []string) error {
	if portfolioStore == nil {
		return errors.New("portfolio store not configured")
	}

	pf := domain.Portfolio{Name: args[0]}
	if err := portfolioStore.AddPortfolio(cmd.Context(), pf); err != nil {
		return fmt.Errorf("adding portfolio: %w", err)
	}

	cmd.Printf("Added portfolio %q.\n", args[0])
	return nil
}

func runPortfolioRemove(cmd *cobra.Command, args []string) error {
	if portfolioStore == nil {
		return errors.New("portfolio store not configured")
	}

	if err := portfolioStore.DeletePortfolio(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("removing portfolio: %w", err)
	}

	cmd.Printf("Removed portfolio %s.\n", args[0])
	return nil
}

func runProductAdd(cmd *cobra.Command, args []string) error {
	if portfolioStore == nil {
		return errors.New("portfolio store not configured")
	}

	product := domain.Product{
		Name:        args[1],
		Description: productDescription,
	}
	if err := portfolioStore.AddProduct(cmd.Context(), args[0], product); err != nil {
		return fmt.Errorf("adding product: %w", err)
	}

	cmd.Printf("Added product %q to portfolio %s.\n", args[1], args[0])
	return nil
}

func runProductRemove(cmd *cobra.Command, args []string) error {
	if portfolioStore == nil {
		return errors.New("portfolio store not configured")
	}

	if err := portfolioStore.DeleteProduct(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("removing product: %w", err)
	}

	cmd.Printf("Removed product %s.\n", args[0])
	return nil
}
