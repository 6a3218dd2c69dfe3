package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/mapper"
	"github.com/nyumba-homes/storefront-api/internal/payment"
	"github.com/nyumba-homes/storefront-api/internal/pricing"
	"github.com/nyumba-homes/storefront-api/internal/queue"
	"github.com/nyumba-homes/storefront-api/internal/storage"
	"go.uber.org/zap"
)

// Checkout notification texts
const (
	MsgCartEmpty       = "Your cart is empty. Add some properties first!"
	MsgCustomerInfo    = "Please fill in all customer information fields."
	MsgMpesaCode       = "Please enter M-Pesa confirmation code."
	MsgCardDetails     = "Please fill in all card details."
	MsgPaymentMethod   = "Please select a valid payment method."
	MsgPaymentDeclined = "Payment could not be completed. Please try again."
)

// OrderArchiver receives a copy of every completed order
type OrderArchiver interface {
	ArchiveOrder(ctx context.Context, sessionID string, order domain.Order) error
}

// OrderIDGenerator hands out ORD-<unix millis> ids that never repeat within the process
type OrderIDGenerator struct {
	mu   sync.Mutex
	last int64
}

// Next returns the id for an order placed at now
func (g *OrderIDGenerator) Next(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := now.UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return "ORD-" + strconv.FormatInt(ms, 10)
}

// CheckoutService turns a cart into a confirmed order
type CheckoutService struct {
	store      storage.Store
	dispatcher *queue.Dispatcher
	payments   payment.Provider
	archive    OrderArchiver
	ids        *OrderIDGenerator
	logger     *zap.Logger
	now        func() time.Time
}

// NewCheckoutService creates the checkout service. archive may be nil.
func NewCheckoutService(
	store storage.Store,
	dispatcher *queue.Dispatcher,
	payments payment.Provider,
	archive OrderArchiver,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		store:      store,
		dispatcher: dispatcher,
		payments:   payments,
		archive:    archive,
		ids:        &OrderIDGenerator{},
		logger:     logger,
		now:        time.Now,
	}
}

// ProceedToCheckout returns the checkout summary of a non-empty cart
func (s *CheckoutService) ProceedToCheckout(ctx context.Context) (*domain.CheckoutSummaryDTO, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}

	cart := clientState(s.store, sid, s.logger).LoadCart(ctx)
	if len(cart) == 0 {
		return nil, domain.NewValidationError(MsgCartEmpty)
	}

	summary := mapper.ToCheckoutSummary(cart, payment.AllInstructions())
	return &summary, nil
}

// CompletePurchase validates the checkout form, authorizes the payment, appends
// the order to the visitor's order log and clears the cart.
// The purchase keeps running when the caller goes away.
func (s *CheckoutService) CompletePurchase(ctx context.Context, req *domain.CompletePurchaseRequest) (*domain.PurchaseResponse, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}

	var resp domain.PurchaseResponse
	err = s.dispatcher.Do(ctx, sid, func(ctx context.Context) error {
		repo := clientState(s.store, sid, s.logger)
		cart, err := repo.LoadCartForUpdate(ctx)
		if err != nil {
			return err
		}
		if len(cart) == 0 {
			return domain.NewValidationError(MsgCartEmpty)
		}

		customer, method, err := validatePurchase(req)
		if err != nil {
			return err
		}

		total := pricing.Total(cart)
		if err := s.payments.Authorize(ctx, method, req.Payment, total); err != nil {
			s.logger.Warn("Payment authorization failed",
				zap.String("session_id", sid),
				zap.String("method", string(method)),
				zap.Error(err),
			)
			return domain.NewValidationError(MsgPaymentDeclined)
		}

		now := s.now()
		order := domain.Order{
			OrderID:       s.ids.Next(now),
			Customer:      customer,
			Items:         cart,
			TotalAmount:   total,
			PaymentMethod: method,
			OrderDate:     now.UTC(),
			Status:        domain.OrderStatusConfirmed,
		}

		if err := orderLog(s.store, sid, s.logger).Append(ctx, order); err != nil {
			return err
		}
		if err := repo.SaveCart(ctx, nil); err != nil {
			return err
		}

		s.logger.Info("Order completed",
			zap.String("session_id", sid),
			zap.String("order_id", order.OrderID),
			zap.String("payment_method", string(method)),
			zap.Int("items", len(order.Items)),
			zap.Int64("total", total),
			zap.String("customer_email", customer.Email),
		)

		if s.archive != nil {
			if err := s.archive.ArchiveOrder(ctx, sid, order); err != nil {
				s.logger.Warn("Order archive write failed, continuing",
					zap.String("order_id", order.OrderID),
					zap.Error(err),
				)
			}
		}

		resp = domain.PurchaseResponse{
			Notification: domain.Success(fmt.Sprintf("Order %s completed successfully! Total: %s", order.OrderID, pricing.Format(total))),
			Order:        order,
			Cart:         mapper.ToCartView(nil),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Orders returns the visitor's order log, oldest first
func (s *CheckoutService) Orders(ctx context.Context) ([]domain.OrderDTO, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.ToOrderDTOs(orderLog(s.store, sid, s.logger).List(ctx)), nil
}

// validatePurchase checks the form in the order the storefront reports problems:
// customer fields first, then the method specific payment fields
func validatePurchase(req *domain.CompletePurchaseRequest) (domain.Customer, domain.PaymentMethod, error) {
	customer := domain.Customer{
		Name:  strings.TrimSpace(req.Customer.Name),
		Email: strings.TrimSpace(req.Customer.Email),
		Phone: strings.TrimSpace(req.Customer.Phone),
	}
	if customer.Name == "" || customer.Email == "" || customer.Phone == "" {
		return domain.Customer{}, "", domain.NewValidationError(MsgCustomerInfo)
	}

	method := req.PaymentMethod
	if method == "" {
		method = domain.PaymentMethodMpesa
	}

	switch method {
	case domain.PaymentMethodMpesa:
		if strings.TrimSpace(req.Payment.MpesaCode) == "" {
			return domain.Customer{}, "", domain.NewValidationError(MsgMpesaCode)
		}
	case domain.PaymentMethodCard:
		p := req.Payment
		if strings.TrimSpace(p.CardNumber) == "" || strings.TrimSpace(p.ExpiryDate) == "" || strings.TrimSpace(p.CVV) == "" {
			return domain.Customer{}, "", domain.NewValidationError(MsgCardDetails)
		}
	case domain.PaymentMethodBank:
	default:
		return domain.Customer{}, "", domain.NewValidationError(MsgPaymentMethod)
	}

	return customer, method, nil
}
