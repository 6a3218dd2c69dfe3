package mapper

import (
	"strconv"
	"time"

	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/pricing"
)

// ToCartView converts the cart into the sidebar view: items, badge count and total
func ToCartView(cart []domain.CartItem) domain.CartView {
	items := make([]domain.CartItem, len(cart))
	copy(items, cart)

	total := pricing.Total(cart)
	return domain.CartView{
		Items:          items,
		Count:          len(cart),
		Total:          total,
		FormattedTotal: pricing.Format(total),
	}
}

// ToFavoritesView lists favorites with an indicator per favorited id
func ToFavoritesView(favorites []domain.Property) domain.FavoritesView {
	items := make([]domain.Property, len(favorites))
	copy(items, favorites)

	favorite := make(map[string]bool, len(favorites))
	for _, p := range favorites {
		favorite[p.ID] = true
	}
	return domain.FavoritesView{Items: items, Favorite: favorite}
}

// ToComparisonItemDTO converts a property into a toolbar entry
func ToComparisonItemDTO(p domain.Property) domain.ComparisonItemDTO {
	return domain.ComparisonItemDTO{ID: p.ID, Title: p.Title, Image: p.Image}
}

// ToComparisonView derives the per-card indicators for every catalog id and the
// toolbar from the same comparison set, so the two can never disagree
func ToComparisonView(catalog []domain.Property, comparison []domain.Property) domain.ComparisonView {
	inSet := make(map[string]bool, len(comparison))
	items := make([]domain.ComparisonItemDTO, 0, len(comparison))
	for _, p := range comparison {
		inSet[p.ID] = true
		items = append(items, ToComparisonItemDTO(p))
	}

	compared := make(map[string]bool, len(catalog)+len(comparison))
	for _, p := range catalog {
		compared[p.ID] = inSet[p.ID]
	}
	for id := range inSet {
		compared[id] = true
	}

	return domain.ComparisonView{
		Compared: compared,
		Toolbar: domain.ComparisonToolbarDTO{
			Visible: len(comparison) > 0,
			Count:   len(comparison),
			Items:   items,
		},
	}
}

// ToComparisonTable lays the comparison set out side by side, one column per property
func ToComparisonTable(comparison []domain.Property) domain.ComparisonTableDTO {
	columns := make([]domain.ComparisonItemDTO, 0, len(comparison))
	for _, p := range comparison {
		columns = append(columns, ToComparisonItemDTO(p))
	}

	row := func(label string, value func(domain.Property) string) domain.ComparisonRowDTO {
		values := make([]string, 0, len(comparison))
		for _, p := range comparison {
			values = append(values, value(p))
		}
		return domain.ComparisonRowDTO{Label: label, Values: values}
	}

	return domain.ComparisonTableDTO{
		Columns: columns,
		Rows: []domain.ComparisonRowDTO{
			row("Image", func(p domain.Property) string { return p.Image }),
			row("Price", func(p domain.Property) string { return p.Price }),
			row("Bedrooms", func(p domain.Property) string { return strconv.Itoa(p.Bedrooms) }),
			row("Bathrooms", func(p domain.Property) string { return strconv.Itoa(p.Bathrooms) }),
			row("Area", func(p domain.Property) string { return p.Area }),
		},
	}
}

// ToCheckoutSummary converts a non-empty cart into the checkout step content
func ToCheckoutSummary(cart []domain.CartItem, methods []domain.PaymentInstructionsDTO) domain.CheckoutSummaryDTO {
	view := ToCartView(cart)
	return domain.CheckoutSummaryDTO{
		Items:          view.Items,
		ItemCount:      view.Count,
		Total:          view.Total,
		FormattedTotal: view.FormattedTotal,
		PaymentMethods: methods,
	}
}

// ToOrderDTO adds the formatted total to an order
func ToOrderDTO(order domain.Order) domain.OrderDTO {
	return domain.OrderDTO{
		Order:          order,
		FormattedTotal: pricing.Format(order.TotalAmount),
	}
}

// ToOrderDTOs converts an order log, keeping its order
func ToOrderDTOs(orders []domain.Order) []domain.OrderDTO {
	dtos := make([]domain.OrderDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, ToOrderDTO(o))
	}
	return dtos
}

// ToSessionDTO describes a freshly issued session token
func ToSessionDTO(sessionID, token string, expiresAt time.Time) domain.SessionDTO {
	return domain.SessionDTO{
		SessionID: sessionID,
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}
}

// ToStateDTO projects the whole client state for the initial page load
func ToStateDTO(catalog []domain.Property, state domain.ClientState, theme domain.Theme, recommendations []domain.Property) domain.StateDTO {
	if recommendations == nil {
		recommendations = []domain.Property{}
	}
	return domain.StateDTO{
		Cart:            ToCartView(state.Cart),
		Favorites:       ToFavoritesView(state.Favorites),
		Comparison:      ToComparisonView(catalog, state.Comparison),
		Theme:           theme,
		User:            state.User,
		Recommendations: recommendations,
	}
}
