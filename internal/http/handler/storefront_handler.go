package handler

import (
	"net/http"
	"strconv"

	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/service"
	"go.uber.org/zap"
)

// StorefrontHandler serves the visitor's cart, favorites, comparison set and theme
type StorefrontHandler struct {
	storefrontService     *service.StorefrontService
	recommendationService *service.RecommendationService
	logger                *zap.Logger
}

func NewStorefrontHandler(
	storefrontService *service.StorefrontService,
	recommendationService *service.RecommendationService,
	logger *zap.Logger,
) *StorefrontHandler {
	return &StorefrontHandler{
		storefrontService:     storefrontService,
		recommendationService: recommendationService,
		logger:                logger,
	}
}

// State godoc
// @Summary Get client state
// @Description Cart, favorites, comparison set, theme, user and recommendations for the page load
// @Tags Storefront
// @Produce json
// @Param Sec-CH-Prefers-Color-Scheme header string false "Preferred color scheme" Enums(light, dark)
// @Success 200 {object} domain.StateDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /state [get]
func (h *StorefrontHandler) State(w http.ResponseWriter, r *http.Request) {
	state, err := h.storefrontService.State(r.Context(), themeHint(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// Cart godoc
// @Summary Get cart
// @Tags Cart
// @Produce json
// @Success 200 {object} domain.CartView
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /cart [get]
func (h *StorefrontHandler) Cart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.storefrontService.Cart(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// AddToCart godoc
// @Summary Add a property to the cart
// @Description Adding a property that is already in the cart is rejected and leaves the cart unchanged
// @Tags Cart
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} domain.CartResponse
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 503 {object} domain.APIError
// @Security BearerAuth
// @Router /cart/items/{id} [post]
func (h *StorefrontHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	resp, err := h.storefrontService.AddToCart(r.Context(), propertyID(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// RemoveFromCart godoc
// @Summary Remove a property from the cart
// @Tags Cart
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} domain.CartResponse
// @Failure 503 {object} domain.APIError
// @Security BearerAuth
// @Router /cart/items/{id} [delete]
func (h *StorefrontHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	resp, err := h.storefrontService.RemoveFromCart(r.Context(), propertyID(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Favorites godoc
// @Summary Get favorites
// @Tags Favorites
// @Produce json
// @Success 200 {object} domain.FavoritesView
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /favorites [get]
func (h *StorefrontHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.storefrontService.Favorites(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, favorites)
}

// ToggleFavorite godoc
// @Summary Toggle a favorite
// @Description Adds the property to favorites or removes it, and returns fresh recommendations
// @Tags Favorites
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} domain.FavoritesResponse
// @Failure 404 {object} domain.APIError
// @Failure 503 {object} domain.APIError
// @Security BearerAuth
// @Router /favorites/{id}/toggle [post]
func (h *StorefrontHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	resp, err := h.storefrontService.ToggleFavorite(r.Context(), propertyID(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Recommendations godoc
// @Summary Get recommendations
// @Description Listings similar to the visitor's favorites, excluding anything in the cart or favorites
// @Tags Favorites
// @Produce json
// @Param seed query int false "Seed for a reproducible draw"
// @Success 200 {array} domain.Property
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /recommendations [get]
func (h *StorefrontHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	var seed *uint64
	if raw := r.URL.Query().Get("seed"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "seed must be a non-negative integer")
			return
		}
		seed = &v
	}

	recs, err := h.recommendationService.ForSession(r.Context(), seed)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, recs)
}

// Comparison godoc
// @Summary Get comparison set
// @Description Per-card indicators and the comparison toolbar
// @Tags Comparison
// @Produce json
// @Success 200 {object} domain.ComparisonView
// @Security BearerAuth
// @Router /comparison [get]
func (h *StorefrontHandler) Comparison(w http.ResponseWriter, r *http.Request) {
	view, err := h.storefrontService.Comparison(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// ComparisonTable godoc
// @Summary Side-by-side comparison
// @Tags Comparison
// @Produce json
// @Success 200 {object} domain.ComparisonTableDTO
// @Failure 400 {object} domain.APIError "Nothing to compare"
// @Security BearerAuth
// @Router /comparison/table [get]
func (h *StorefrontHandler) ComparisonTable(w http.ResponseWriter, r *http.Request) {
	table, err := h.storefrontService.ComparisonTable(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, table)
}

// AddToComparison godoc
// @Summary Add a property to the comparison set
// @Description At most three properties can be compared
// @Tags Comparison
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} domain.ComparisonResponse
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /comparison/{id} [post]
func (h *StorefrontHandler) AddToComparison(w http.ResponseWriter, r *http.Request) {
	resp, err := h.storefrontService.AddToComparison(r.Context(), propertyID(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// RemoveFromComparison godoc
// @Summary Remove a property from the comparison set
// @Tags Comparison
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} domain.ComparisonResponse
// @Security BearerAuth
// @Router /comparison/{id} [delete]
func (h *StorefrontHandler) RemoveFromComparison(w http.ResponseWriter, r *http.Request) {
	resp, err := h.storefrontService.RemoveFromComparison(r.Context(), propertyID(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// ToggleComparison godoc
// @Summary Toggle a property in the comparison set
// @Tags Comparison
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} domain.ComparisonResponse
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /comparison/{id}/toggle [post]
func (h *StorefrontHandler) ToggleComparison(w http.ResponseWriter, r *http.Request) {
	resp, err := h.storefrontService.ToggleComparison(r.Context(), propertyID(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// ClearComparison godoc
// @Summary Clear the comparison set
// @Tags Comparison
// @Produce json
// @Success 200 {object} domain.ComparisonResponse
// @Security BearerAuth
// @Router /comparison [delete]
func (h *StorefrontHandler) ClearComparison(w http.ResponseWriter, r *http.Request) {
	resp, err := h.storefrontService.ClearComparison(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Theme godoc
// @Summary Get theme
// @Description The stored theme, else the client hint, else light
// @Tags Theme
// @Produce json
// @Param Sec-CH-Prefers-Color-Scheme header string false "Preferred color scheme" Enums(light, dark)
// @Success 200 {object} domain.ThemeResponse
// @Security BearerAuth
// @Router /theme [get]
func (h *StorefrontHandler) Theme(w http.ResponseWriter, r *http.Request) {
	resp, err := h.storefrontService.Theme(r.Context(), themeHint(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// SetTheme godoc
// @Summary Set theme
// @Tags Theme
// @Accept json
// @Produce json
// @Param request body domain.SetThemeRequest true "Theme"
// @Success 200 {object} domain.ThemeResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /theme [put]
func (h *StorefrontHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req domain.SetThemeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.storefrontService.SetTheme(r.Context(), req.Theme)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// ToggleTheme godoc
// @Summary Toggle theme
// @Tags Theme
// @Produce json
// @Param Sec-CH-Prefers-Color-Scheme header string false "Preferred color scheme" Enums(light, dark)
// @Success 200 {object} domain.ThemeResponse
// @Security BearerAuth
// @Router /theme/toggle [post]
func (h *StorefrontHandler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	resp, err := h.storefrontService.ToggleTheme(r.Context(), themeHint(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
