// Command storefrontctl browses the catalog and previews storefront
// calculations without running the API.
package main

import (
	"fmt"
	"os"

	"github.com/nyumba-homes/storefront-api/internal/catalog"
	"github.com/spf13/cobra"
)

var catalogPath string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:           "storefrontctl",
	Short:         "Inspect the Nyumba storefront catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Listings file (default: embedded catalog)")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogTourCmd)
	cartCmd.AddCommand(cartTotalCmd)

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(mortgageCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}
