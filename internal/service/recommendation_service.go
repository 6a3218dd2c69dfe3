package service

import (
	"context"

	"github.com/nyumba-homes/storefront-api/internal/catalog"
	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/recommend"
	"github.com/nyumba-homes/storefront-api/internal/storage"
	"go.uber.org/zap"
)

// RecommendationService suggests listings based on the visitor's favorites
type RecommendationService struct {
	catalog *catalog.Catalog
	engine  *recommend.Engine
	store   storage.Store
	logger  *zap.Logger
}

func NewRecommendationService(
	cat *catalog.Catalog,
	engine *recommend.Engine,
	store storage.Store,
	logger *zap.Logger,
) *RecommendationService {
	return &RecommendationService{
		catalog: cat,
		engine:  engine,
		store:   store,
		logger:  logger,
	}
}

// For recommends from an already loaded cart and favorites
func (s *RecommendationService) For(cart []domain.CartItem, favorites []domain.Property) []domain.Property {
	return s.engine.Recommend(s.catalog.All(), cart, favorites)
}

// ForSession loads the visitor's state and recommends from it.
// A non-nil seed makes the result reproducible.
func (s *RecommendationService) ForSession(ctx context.Context, seed *uint64) ([]domain.Property, error) {
	sid, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}

	repo := clientState(s.store, sid, s.logger)
	cart := repo.LoadCart(ctx)
	favorites := repo.LoadFavorites(ctx)

	if seed != nil {
		return s.engine.RecommendSeeded(*seed, s.catalog.All(), cart, favorites), nil
	}
	return s.For(cart, favorites), nil
}
