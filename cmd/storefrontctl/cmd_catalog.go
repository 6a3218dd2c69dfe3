package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nyumba-homes/storefront-api/internal/catalog"
	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/spf13/cobra"
)

var (
	searchLocation string
	searchType     string
	searchMaxPrice int64
)

// catalogCmd groups the read-only catalog commands
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the property listings",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every property in display order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		return printProperties(cmd.OutOrStdout(), cat.All())
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one property",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		p, ok := cat.Get(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrPropertyNotFound, args[0])
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", p.Title, p.ID)
		fmt.Fprintf(out, "  Location:  %s\n", p.Location)
		fmt.Fprintf(out, "  Price:     %s\n", p.Price)
		fmt.Fprintf(out, "  Bedrooms:  %d\n", p.Bedrooms)
		fmt.Fprintf(out, "  Bathrooms: %d\n", p.Bathrooms)
		fmt.Fprintf(out, "  Area:      %s\n", p.Area)
		fmt.Fprintf(out, "  Features:  %s\n", strings.Join(p.Features, ", "))
		if p.Description != "" {
			fmt.Fprintf(out, "\n%s\n", p.Description)
		}
		return nil
	},
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Filter properties by location, type and maximum price",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		return printProperties(cmd.OutOrStdout(), cat.Search(catalog.Filter{
			Location: searchLocation,
			Type:     searchType,
			MaxPrice: searchMaxPrice,
		}))
	},
}

var catalogTourCmd = &cobra.Command{
	Use:   "tour <id>",
	Short: "List the virtual tour stops for a property",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		stops, start, err := cat.Tour(args[0])
		if err != nil {
			return fmt.Errorf("%w: %s", err, args[0])
		}

		out := cmd.OutOrStdout()
		for i, stop := range stops {
			marker := " "
			if i == start {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %2d  %-28s %s\n", marker, i+1, stop.Image, stop.Description)
		}
		return nil
	},
}

func init() {
	catalogSearchCmd.Flags().StringVar(&searchLocation, "location", "", "Location substring")
	catalogSearchCmd.Flags().StringVar(&searchType, "type", "", "Property type, e.g. Villa")
	catalogSearchCmd.Flags().Int64Var(&searchMaxPrice, "max-price", 0, "Maximum price in Ksh (0 for any)")
}

func printProperties(out io.Writer, properties []domain.Property) error {
	t := newTable("ID", "TITLE", "LOCATION", "PRICE", "BEDS")
	for _, p := range properties {
		t.addRow(p.ID, p.Title, p.Location, p.Price, strconv.Itoa(p.Bedrooms))
	}
	return t.render(out)
}
