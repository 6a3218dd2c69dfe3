package pricing

import (
	"math"

	"github.com/nyumba-homes/storefront-api/internal/domain"
)

// Mortgage estimates the monthly repayment of a fixed-rate loan on price after
// the down payment. A zero rate divides the principal evenly.
func Mortgage(price, downPaymentPercent, annualRatePercent, years float64) (domain.MortgageEstimateDTO, error) {
	for _, v := range []float64{price, downPaymentPercent, annualRatePercent, years} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.MortgageEstimateDTO{}, domain.NewValidationError("Please enter valid numbers.")
		}
	}
	if price < 0 || downPaymentPercent < 0 || downPaymentPercent > 100 || annualRatePercent < 0 ||
		years <= 0 || years > domain.MaxLoanTermYears {
		return domain.MortgageEstimateDTO{}, domain.NewValidationError("Please enter valid numbers.")
	}

	downPayment := price * (downPaymentPercent / 100)
	principal := price - downPayment
	monthlyRate := annualRatePercent / 100 / 12
	payments := years * 12

	var monthly float64
	if monthlyRate == 0 {
		monthly = principal / payments
	} else {
		growth := math.Pow(1+monthlyRate, payments)
		monthly = principal * (monthlyRate * growth / (growth - 1))
	}

	if math.IsNaN(monthly) || math.IsInf(monthly, 0) {
		return domain.MortgageEstimateDTO{}, domain.NewValidationError("Could not calculate. Please check your inputs.")
	}

	return domain.MortgageEstimateDTO{
		Price:                   price,
		DownPayment:             downPayment,
		Principal:               principal,
		NumberOfPayments:        int(math.Round(payments)),
		MonthlyPayment:          monthly,
		FormattedMonthlyPayment: FormatDecimal(monthly),
	}, nil
}
