package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/service"
	"go.uber.org/zap"
)

type PropertyHandler struct {
	propertyService *service.PropertyService
	logger          *zap.Logger
}

func NewPropertyHandler(propertyService *service.PropertyService, logger *zap.Logger) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		logger:          logger,
	}
}

// List godoc
// @Summary List properties
// @Description Get every listing of the catalog in display order
// @Tags Properties
// @Produce json
// @Success 200 {object} domain.PropertyListDTO
// @Router /properties [get]
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.propertyService.List(r.Context()))
}

// Search godoc
// @Summary Search properties
// @Description Filter listings by location, property type and maximum price
// @Tags Properties
// @Produce json
// @Param location query string false "Location substring, case-insensitive"
// @Param type query string false "Property type, e.g. Villa or Apartment"
// @Param maxPrice query int false "Maximum price in Ksh"
// @Success 200 {object} domain.PropertyListDTO
// @Failure 400 {object} domain.APIError
// @Router /properties/search [get]
func (h *PropertyHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := domain.PropertySearchRequest{
		Location: q.Get("location"),
		Type:     q.Get("type"),
	}

	if raw := strings.TrimSpace(q.Get("maxPrice")); raw != "" {
		maxPrice, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "maxPrice must be a whole number")
			return
		}
		req.MaxPrice = maxPrice
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.propertyService.Search(r.Context(), &req))
}

// GetByID godoc
// @Summary Get property
// @Description Get one listing by id
// @Tags Properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} domain.Property
// @Failure 404 {object} domain.APIError
// @Router /properties/{id} [get]
func (h *PropertyHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	property, err := h.propertyService.GetByID(r.Context(), propertyID(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, property)
}

// Tour godoc
// @Summary Virtual tour
// @Description Images of every listing of the same type, starting at this listing
// @Tags Properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} domain.TourDTO
// @Failure 404 {object} domain.APIError
// @Router /properties/{id}/tour [get]
func (h *PropertyHandler) Tour(w http.ResponseWriter, r *http.Request) {
	tour, err := h.propertyService.Tour(r.Context(), propertyID(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, tour)
}

// Mortgage godoc
// @Summary Mortgage estimate for a listing
// @Description Monthly payment for the listing. Omitted fields use the calculator defaults and the listing price.
// @Tags Properties
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param request body domain.MortgageRequest true "Calculator input"
// @Success 200 {object} domain.MortgageEstimateDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /properties/{id}/mortgage [post]
func (h *PropertyHandler) Mortgage(w http.ResponseWriter, r *http.Request) {
	h.mortgage(w, r, propertyID(r))
}

// MortgageCalculator godoc
// @Summary Mortgage calculator
// @Description Monthly payment for an explicit price
// @Tags Properties
// @Accept json
// @Produce json
// @Param request body domain.MortgageRequest true "Calculator input"
// @Success 200 {object} domain.MortgageEstimateDTO
// @Failure 400 {object} domain.APIError
// @Router /mortgage [post]
func (h *PropertyHandler) MortgageCalculator(w http.ResponseWriter, r *http.Request) {
	h.mortgage(w, r, "")
}

func (h *PropertyHandler) mortgage(w http.ResponseWriter, r *http.Request, id string) {
	var req domain.MortgageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	estimate, err := h.propertyService.Mortgage(r.Context(), id, &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, estimate)
}

// BookViewing godoc
// @Summary Book a viewing
// @Description Request an in-person viewing of a listing
// @Tags Properties
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param request body domain.BookViewingRequest true "Viewing request"
// @Success 201 {object} domain.ViewingResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /properties/{id}/viewings [post]
func (h *PropertyHandler) BookViewing(w http.ResponseWriter, r *http.Request) {
	var req domain.BookViewingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.propertyService.BookViewing(r.Context(), propertyID(r), &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}
