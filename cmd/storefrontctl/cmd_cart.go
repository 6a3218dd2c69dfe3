package main

import (
	"fmt"

	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/pricing"
	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Cart calculations",
}

var cartTotalCmd = &cobra.Command{
	Use:   "total <id>...",
	Short: "Price a cart of property ids",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		items := make([]domain.CartItem, 0, len(args))
		for _, id := range args {
			p, ok := cat.Get(id)
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrPropertyNotFound, id)
			}
			items = append(items, domain.NewCartItem(p))
		}

		out := cmd.OutOrStdout()
		t := newTable("ID", "TITLE", "PRICE")
		for _, item := range items {
			t.addRow(item.ID, item.Title, item.Price)
		}
		if err := t.render(out); err != nil {
			return err
		}
		fmt.Fprintf(out, "Total: %s\n", pricing.Format(pricing.Total(items)))
		return nil
	},
}
