package payment_test

import (
	"context"
	"testing"
	"time"

	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/payment"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMockProvider_ApprovesAfterDelay(t *testing.T) {
	p := payment.NewMockProvider(30*time.Millisecond, zap.NewNop())

	start := time.Now()
	err := p.Authorize(context.Background(), domain.PaymentMethodBank, domain.PaymentDetails{}, 1000)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestMockProvider_IgnoresCancellation(t *testing.T) {
	p := payment.NewMockProvider(30*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := p.Authorize(ctx, domain.PaymentMethodMpesa, domain.PaymentDetails{MpesaCode: "QWE123"}, 1000)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestAllInstructions(t *testing.T) {
	all := payment.AllInstructions()
	if assert.Len(t, all, 3) {
		assert.Equal(t, "M-Pesa", all[0].Label)
		assert.Equal(t, "123456", all[0].Details["paybill"])
		assert.Equal(t, "KENYAREALTY", all[0].Details["accountNumber"])

		assert.Equal(t, "Credit/Debit Card", all[1].Label)
		assert.Equal(t, []string{"cardNumber", "expiryDate", "cvv"}, all[1].RequiredFields)

		assert.Equal(t, "Bank Transfer", all[2].Label)
		assert.Equal(t, "KNBKENXXX", all[2].Details["swiftCode"])
		assert.Empty(t, all[2].RequiredFields)
	}
}
