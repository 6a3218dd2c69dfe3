package main

import (
	"fmt"

	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/recommend"
	"github.com/spf13/cobra"
)

var (
	recommendFavorites []string
	recommendCart      []string
	recommendSeed      uint64
	recommendSize      int
)

// recommendCmd previews the recommendations a visitor would see
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Preview recommendations for a set of favorites",
	Long: `Preview recommendations for a visitor with the given favorites and cart.

The last --favorite seeds the selection, as the most recently added favorite
does in the storefront. The same --seed always gives the same result.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		favorites := make([]domain.Property, 0, len(recommendFavorites))
		for _, id := range recommendFavorites {
			p, ok := cat.Get(id)
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrPropertyNotFound, id)
			}
			favorites = append(favorites, p)
		}

		cart := make([]domain.CartItem, 0, len(recommendCart))
		for _, id := range recommendCart {
			p, ok := cat.Get(id)
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrPropertyNotFound, id)
			}
			cart = append(cart, domain.NewCartItem(p))
		}

		engine := recommend.NewEngine(recommendSize, nil)
		recs := engine.RecommendSeeded(recommendSeed, cat.All(), cart, favorites)
		return printProperties(cmd.OutOrStdout(), recs)
	},
}

func init() {
	recommendCmd.Flags().StringSliceVar(&recommendFavorites, "favorite", nil, "Favorite property id (repeatable, oldest first)")
	recommendCmd.Flags().StringSliceVar(&recommendCart, "cart", nil, "Property id in the cart (repeatable)")
	recommendCmd.Flags().Uint64Var(&recommendSeed, "seed", 1, "Random seed")
	recommendCmd.Flags().IntVar(&recommendSize, "size", recommend.DefaultSize, "Number of recommendations")
}
