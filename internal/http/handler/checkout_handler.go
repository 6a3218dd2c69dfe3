package handler

import (
	"net/http"

	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/payment"
	"github.com/nyumba-homes/storefront-api/internal/service"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	logger          *zap.Logger
}

func NewCheckoutHandler(checkoutService *service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// Proceed godoc
// @Summary Proceed to checkout
// @Description Summary of the cart with the available payment methods. An empty cart is rejected.
// @Tags Checkout
// @Produce json
// @Success 200 {object} domain.CheckoutSummaryDTO
// @Failure 400 {object} domain.APIError "Cart is empty"
// @Security BearerAuth
// @Router /checkout [get]
func (h *CheckoutHandler) Proceed(w http.ResponseWriter, r *http.Request) {
	summary, err := h.checkoutService.ProceedToCheckout(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Complete godoc
// @Summary Complete purchase
// @Description Authorizes the payment, records the order and clears the cart. The purchase completes even if the client disconnects.
// @Tags Checkout
// @Accept json
// @Produce json
// @Param request body domain.CompletePurchaseRequest true "Customer and payment details"
// @Success 201 {object} domain.PurchaseResponse
// @Failure 400 {object} domain.APIError
// @Failure 503 {object} domain.APIError
// @Security BearerAuth
// @Router /checkout [post]
func (h *CheckoutHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req domain.CompletePurchaseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.checkoutService.CompletePurchase(r.Context(), &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

// Orders godoc
// @Summary List orders
// @Description Every order completed in this session, oldest first
// @Tags Checkout
// @Produce json
// @Success 200 {array} domain.OrderDTO
// @Security BearerAuth
// @Router /orders [get]
func (h *CheckoutHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.checkoutService.Orders(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// PaymentMethods godoc
// @Summary List payment methods
// @Description Display-only instructions for M-Pesa, card and bank transfer
// @Tags Checkout
// @Produce json
// @Success 200 {array} domain.PaymentInstructionsDTO
// @Router /payment-methods [get]
func (h *CheckoutHandler) PaymentMethods(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, payment.AllInstructions())
}
