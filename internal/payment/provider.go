// Package payment authorizes checkout payments. Only a mock provider exists.
package payment

import (
	"context"
	"time"

	"github.com/nyumba-homes/storefront-api/internal/domain"
	"go.uber.org/zap"
)

// Provider authorizes the payment of an order total
type Provider interface {
	Authorize(ctx context.Context, method domain.PaymentMethod, details domain.PaymentDetails, amount int64) error
}

// MockProvider approves every payment after a fixed delay.
// The delay is not cut short when ctx is cancelled.
type MockProvider struct {
	delay  time.Duration
	logger *zap.Logger
}

// NewMockProvider creates a mock provider that waits delay before approving
func NewMockProvider(delay time.Duration, logger *zap.Logger) *MockProvider {
	return &MockProvider{delay: delay, logger: logger}
}

// Authorize waits the configured delay and approves the payment
func (p *MockProvider) Authorize(ctx context.Context, method domain.PaymentMethod, details domain.PaymentDetails, amount int64) error {
	start := time.Now()

	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		<-timer.C
	}

	p.logger.Info("Mock payment approved",
		zap.String("method", string(method)),
		zap.Int64("amount", amount),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// Instructions returns the display-only panel shown for a payment method
func Instructions(method domain.PaymentMethod) domain.PaymentInstructionsDTO {
	switch method {
	case domain.PaymentMethodMpesa:
		return domain.PaymentInstructionsDTO{
			Method: method,
			Label:  "M-Pesa",
			Details: map[string]string{
				"paybill":       "123456",
				"accountNumber": "KENYAREALTY",
			},
			RequiredFields: []string{"mpesaCode"},
		}
	case domain.PaymentMethodCard:
		return domain.PaymentInstructionsDTO{
			Method:         method,
			Label:          "Credit/Debit Card",
			RequiredFields: []string{"cardNumber", "expiryDate", "cvv"},
		}
	case domain.PaymentMethodBank:
		return domain.PaymentInstructionsDTO{
			Method: method,
			Label:  "Bank Transfer",
			Details: map[string]string{
				"bank":          "Kenya National Bank",
				"accountName":   "Kenya Realty Ltd",
				"accountNumber": "0123456789",
				"swiftCode":     "KNBKENXXX",
			},
		}
	}
	return domain.PaymentInstructionsDTO{Method: method, Label: string(method)}
}

// AllInstructions lists the panels of every supported method in display order
func AllInstructions() []domain.PaymentInstructionsDTO {
	out := make([]domain.PaymentInstructionsDTO, 0, len(domain.PaymentMethods))
	for _, m := range domain.PaymentMethods {
		out = append(out, Instructions(m))
	}
	return out
}
