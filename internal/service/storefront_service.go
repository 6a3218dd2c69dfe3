package service

import (
	"context"
	"fmt"

	"github.com/nyumba-homes/storefront-api/internal/catalog"
	"github.com/nyumba-homes/storefront-api/internal/compare"
	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/mapper"
	"github.com/nyumba-homes/storefront-api/internal/queue"
	"github.com/nyumba-homes/storefront-api/internal/storage"
	"go.uber.org/zap"
)

// Notification texts of cart, favorites and theme actions
const (
	MsgCartDuplicate   = "Property already in cart!"
	MsgCartAdded       = "Property added to cart!"
	MsgCartRemoved     = "Property removed from cart!"
	MsgFavoriteAdded   = "Added to favorites!"
	MsgFavoriteRemoved = "Removed from favorites!"
)

// StorefrontService owns the cart, favorites, comparison set and theme of a visitor.
// Every mutation runs on the visitor's queue worker.
type StorefrontService struct {
	catalog         *catalog.Catalog
	store           storage.Store
	dispatcher      *queue.Dispatcher
	recommendations *RecommendationService
	logger          *zap.Logger
}

func NewStorefrontService(
	cat *catalog.Catalog,
	store storage.Store,
	dispatcher *queue.Dispatcher,
	recommendations *RecommendationService,
	logger *zap.Logger,
) *StorefrontService {
	return &StorefrontService{
		catalog:         cat,
		store:           store,
		dispatcher:      dispatcher,
		recommendations: recommendations,
		logger:          logger,
	}
}

// State returns the whole client state for the initial page load
func (s *StorefrontService) State(ctx context.Context, hint domain.Theme) (*domain.StateDTO, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}

	state := clientState(s.store, sid, s.logger).Load(ctx)
	theme := resolveTheme(state.Theme, hint)
	recs := s.recommendations.For(state.Cart, state.Favorites)

	dto := mapper.ToStateDTO(s.catalog.All(), state, theme, recs)
	return &dto, nil
}

// Cart returns the cart view
func (s *StorefrontService) Cart(ctx context.Context) (*domain.CartView, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	view := mapper.ToCartView(clientState(s.store, sid, s.logger).LoadCart(ctx))
	return &view, nil
}

// AddToCart appends the property to the cart unless it is already there
func (s *StorefrontService) AddToCart(ctx context.Context, propertyID string) (*domain.CartResponse, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	property, err := s.property(propertyID)
	if err != nil {
		return nil, err
	}

	var resp domain.CartResponse
	err = s.dispatcher.Do(ctx, sid, func(ctx context.Context) error {
		repo := clientState(s.store, sid, s.logger)
		cart, err := repo.LoadCartForUpdate(ctx)
		if err != nil {
			return err
		}

		for _, item := range cart {
			if item.ID == property.ID {
				return domain.NewDuplicateError(MsgCartDuplicate)
			}
		}

		cart = append(cart, domain.NewCartItem(property))
		if err := repo.SaveCart(ctx, cart); err != nil {
			return err
		}

		resp = domain.CartResponse{
			Notification: domain.Success(MsgCartAdded),
			Cart:         mapper.ToCartView(cart),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Property added to cart",
		zap.String("session_id", sid),
		zap.String("property_id", property.ID),
		zap.Int("cart_size", resp.Cart.Count),
	)
	return &resp, nil
}

// RemoveFromCart drops every cart item with the id. Removing an absent id is not an error.
func (s *StorefrontService) RemoveFromCart(ctx context.Context, propertyID string) (*domain.CartResponse, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}

	var resp domain.CartResponse
	err = s.dispatcher.Do(ctx, sid, func(ctx context.Context) error {
		repo := clientState(s.store, sid, s.logger)
		cart, err := repo.LoadCartForUpdate(ctx)
		if err != nil {
			return err
		}

		kept := cart[:0:0]
		for _, item := range cart {
			if item.ID != propertyID {
				kept = append(kept, item)
			}
		}

		if err := repo.SaveCart(ctx, kept); err != nil {
			return err
		}

		resp = domain.CartResponse{
			Notification: domain.Success(MsgCartRemoved),
			Cart:         mapper.ToCartView(kept),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Favorites returns the favorites view
func (s *StorefrontService) Favorites(ctx context.Context) (*domain.FavoritesView, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	view := mapper.ToFavoritesView(clientState(s.store, sid, s.logger).LoadFavorites(ctx))
	return &view, nil
}

// ToggleFavorite removes the property from favorites when present, otherwise
// appends a full snapshot of it. Recommendations are recomputed afterwards.
func (s *StorefrontService) ToggleFavorite(ctx context.Context, propertyID string) (*domain.FavoritesResponse, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}

	var resp domain.FavoritesResponse
	err = s.dispatcher.Do(ctx, sid, func(ctx context.Context) error {
		repo := clientState(s.store, sid, s.logger)
		favorites, err := repo.LoadFavoritesForUpdate(ctx)
		if err != nil {
			return err
		}

		message := MsgFavoriteAdded
		index := -1
		for i, p := range favorites {
			if p.ID == propertyID {
				index = i
				break
			}
		}

		if index > -1 {
			favorites = append(favorites[:index:index], favorites[index+1:]...)
			message = MsgFavoriteRemoved
		} else {
			property, err := s.property(propertyID)
			if err != nil {
				return err
			}
			favorites = append(favorites, property)
		}

		if err := repo.SaveFavorites(ctx, favorites); err != nil {
			return err
		}

		resp = domain.FavoritesResponse{
			Notification:    domain.Success(message),
			Favorites:       mapper.ToFavoritesView(favorites),
			Recommendations: s.recommendations.For(repo.LoadCart(ctx), favorites),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Comparison returns the comparison indicators and toolbar
func (s *StorefrontService) Comparison(ctx context.Context) (*domain.ComparisonView, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	view := mapper.ToComparisonView(s.catalog.All(), clientState(s.store, sid, s.logger).LoadComparison(ctx))
	return &view, nil
}

// ComparisonTable lays out the comparison set side by side. An empty set is rejected.
func (s *StorefrontService) ComparisonTable(ctx context.Context) (*domain.ComparisonTableDTO, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}

	items := clientState(s.store, sid, s.logger).LoadComparison(ctx)
	set := compare.NewSet(items)
	if set.Len() == 0 {
		return nil, domain.NewValidationError(compare.MsgEmpty)
	}

	table := mapper.ToComparisonTable(set.Items())
	return &table, nil
}

// AddToComparison admits the property into the comparison set
func (s *StorefrontService) AddToComparison(ctx context.Context, propertyID string) (*domain.ComparisonResponse, error) {
	property, err := s.property(propertyID)
	if err != nil {
		return nil, err
	}
	return s.mutateComparison(ctx, func(set *compare.Set) (string, error) {
		if err := set.Add(property); err != nil {
			return "", err
		}
		return compare.MsgAdded, nil
	})
}

// RemoveFromComparison drops the property from the comparison set
func (s *StorefrontService) RemoveFromComparison(ctx context.Context, propertyID string) (*domain.ComparisonResponse, error) {
	return s.mutateComparison(ctx, func(set *compare.Set) (string, error) {
		set.Remove(propertyID)
		return compare.MsgRemoved, nil
	})
}

// ToggleComparison removes the property when compared, otherwise admits it
func (s *StorefrontService) ToggleComparison(ctx context.Context, propertyID string) (*domain.ComparisonResponse, error) {
	return s.mutateComparison(ctx, func(set *compare.Set) (string, error) {
		if set.Remove(propertyID) {
			return compare.MsgRemoved, nil
		}
		property, err := s.property(propertyID)
		if err != nil {
			return "", err
		}
		if err := set.Add(property); err != nil {
			return "", err
		}
		return compare.MsgAdded, nil
	})
}

// ClearComparison empties the comparison set and removes its key
func (s *StorefrontService) ClearComparison(ctx context.Context) (*domain.ComparisonResponse, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}

	err = s.dispatcher.Do(ctx, sid, func(ctx context.Context) error {
		return clientState(s.store, sid, s.logger).ClearComparison(ctx)
	})
	if err != nil {
		return nil, err
	}

	return &domain.ComparisonResponse{
		Comparison: mapper.ToComparisonView(s.catalog.All(), nil),
	}, nil
}

// mutateComparison loads the set, applies fn and persists the result only when fn succeeds
func (s *StorefrontService) mutateComparison(ctx context.Context, fn func(set *compare.Set) (string, error)) (*domain.ComparisonResponse, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}

	var resp domain.ComparisonResponse
	err = s.dispatcher.Do(ctx, sid, func(ctx context.Context) error {
		repo := clientState(s.store, sid, s.logger)
		items, err := repo.LoadComparisonForUpdate(ctx)
		if err != nil {
			return err
		}
		set := compare.NewSet(items)

		message, err := fn(set)
		if err != nil {
			return err
		}

		if err := repo.SaveComparison(ctx, set.Items()); err != nil {
			return err
		}

		notification := domain.Success(message)
		resp = domain.ComparisonResponse{
			Notification: &notification,
			Comparison:   mapper.ToComparisonView(s.catalog.All(), set.Items()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Theme returns the stored theme, falling back to the client hint and then light
func (s *StorefrontService) Theme(ctx context.Context, hint domain.Theme) (*domain.ThemeResponse, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	stored := clientState(s.store, sid, s.logger).LoadTheme(ctx)
	return &domain.ThemeResponse{Theme: resolveTheme(stored, hint)}, nil
}

// SetTheme stores an explicit theme
func (s *StorefrontService) SetTheme(ctx context.Context, theme domain.Theme) (*domain.ThemeResponse, error) {
	if !theme.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("Unknown theme %q.", theme))
	}
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}

	err = s.dispatcher.Do(ctx, sid, func(ctx context.Context) error {
		return clientState(s.store, sid, s.logger).SaveTheme(ctx, theme)
	})
	if err != nil {
		return nil, err
	}
	return &domain.ThemeResponse{Theme: theme}, nil
}

// ToggleTheme flips the effective theme and stores the result
func (s *StorefrontService) ToggleTheme(ctx context.Context, hint domain.Theme) (*domain.ThemeResponse, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}

	var next domain.Theme
	err = s.dispatcher.Do(ctx, sid, func(ctx context.Context) error {
		repo := clientState(s.store, sid, s.logger)
		next = resolveTheme(repo.LoadTheme(ctx), hint).Opposite()
		return repo.SaveTheme(ctx, next)
	})
	if err != nil {
		return nil, err
	}
	return &domain.ThemeResponse{Theme: next}, nil
}

func (s *StorefrontService) property(id string) (domain.Property, error) {
	p, ok := s.catalog.Get(id)
	if !ok {
		return domain.Property{}, fmt.Errorf("%w: %s", domain.ErrPropertyNotFound, id)
	}
	return p, nil
}

func resolveTheme(stored, hint domain.Theme) domain.Theme {
	if stored.IsValid() {
		return stored
	}
	if hint.IsValid() {
		return hint
	}
	return domain.ThemeLight
}
