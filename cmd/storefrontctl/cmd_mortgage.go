package main

import (
	"fmt"

	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/pricing"
	"github.com/spf13/cobra"
)

var (
	mortgagePrice       float64
	mortgageProperty    string
	mortgageDownPayment float64
	mortgageRate        float64
	mortgageYears       float64
)

var mortgageCmd = &cobra.Command{
	Use:   "mortgage",
	Short: "Estimate the monthly mortgage payment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		price := mortgagePrice
		if mortgageProperty != "" {
			cat, err := loadCatalog()
			if err != nil {
				return err
			}
			p, ok := cat.Get(mortgageProperty)
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrPropertyNotFound, mortgageProperty)
			}
			price = float64(pricing.Normalize(p.Price))
		}

		estimate, err := pricing.Mortgage(price, mortgageDownPayment, mortgageRate, mortgageYears)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Price:         %s\n", pricing.FormatDecimal(estimate.Price))
		fmt.Fprintf(out, "Down payment:  %s\n", pricing.FormatDecimal(estimate.DownPayment))
		fmt.Fprintf(out, "Loan:          %s over %d payments\n", pricing.FormatDecimal(estimate.Principal), estimate.NumberOfPayments)
		fmt.Fprintf(out, "Monthly:       %s\n", estimate.FormattedMonthlyPayment)
		return nil
	},
}

func init() {
	mortgageCmd.Flags().Float64Var(&mortgagePrice, "price", 0, "Property price in Ksh")
	mortgageCmd.Flags().StringVar(&mortgageProperty, "property", "", "Use the price of this property id")
	mortgageCmd.Flags().Float64Var(&mortgageDownPayment, "down-payment", domain.DefaultDownPaymentPercent, "Down payment in percent")
	mortgageCmd.Flags().Float64Var(&mortgageRate, "rate", domain.DefaultInterestRate, "Annual interest rate in percent")
	mortgageCmd.Flags().Float64Var(&mortgageYears, "years", domain.DefaultLoanTermYears, "Loan term in years")
}
