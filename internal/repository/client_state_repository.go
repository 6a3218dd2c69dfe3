package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/schemas"
	"github.com/nyumba-homes/storefront-api/internal/storage"
	"go.uber.org/zap"
)

// Persisted keys, one blob each
const (
	KeyCart       = "cart"
	KeyFavorites  = "favorites"
	KeyComparison = "comparison"
	KeyTheme      = "theme"
	KeyUser       = "user"
	KeyOrders     = "orders"
)

// ClientStateRepository reads and writes the keyed blobs of one visitor.
// Reads fail soft: anything missing or unreadable loads as empty.
type ClientStateRepository struct {
	store  storage.Store
	logger *zap.Logger
}

// NewClientStateRepository creates a repository over a session-scoped store
func NewClientStateRepository(store storage.Store, logger *zap.Logger) *ClientStateRepository {
	return &ClientStateRepository{store: store, logger: logger}
}

// Load restores every collection independently. It never fails.
func (r *ClientStateRepository) Load(ctx context.Context) domain.ClientState {
	return domain.ClientState{
		Cart:       r.LoadCart(ctx),
		Favorites:  r.LoadFavorites(ctx),
		Comparison: r.LoadComparison(ctx),
		Theme:      r.LoadTheme(ctx),
		User:       r.LoadUser(ctx),
	}
}

func (r *ClientStateRepository) LoadCart(ctx context.Context) []domain.CartItem {
	return loadJSON(ctx, r.store, r.logger, KeyCart, schemas.Cart, []domain.CartItem{})
}

func (r *ClientStateRepository) LoadFavorites(ctx context.Context) []domain.Property {
	return loadJSON(ctx, r.store, r.logger, KeyFavorites, schemas.Favorites, []domain.Property{})
}

func (r *ClientStateRepository) LoadComparison(ctx context.Context) []domain.Property {
	return loadJSON(ctx, r.store, r.logger, KeyComparison, schemas.Comparison, []domain.Property{})
}

// LoadCartForUpdate reads the cart ahead of a rewrite. Unlike LoadCart it
// returns a failed read instead of an empty cart.
func (r *ClientStateRepository) LoadCartForUpdate(ctx context.Context) ([]domain.CartItem, error) {
	return loadForUpdate(ctx, r.store, r.logger, KeyCart, schemas.Cart, []domain.CartItem{})
}

func (r *ClientStateRepository) LoadFavoritesForUpdate(ctx context.Context) ([]domain.Property, error) {
	return loadForUpdate(ctx, r.store, r.logger, KeyFavorites, schemas.Favorites, []domain.Property{})
}

func (r *ClientStateRepository) LoadComparisonForUpdate(ctx context.Context) ([]domain.Property, error) {
	return loadForUpdate(ctx, r.store, r.logger, KeyComparison, schemas.Comparison, []domain.Property{})
}

// LoadTheme returns the stored theme or "" when none is stored.
// Both a JSON string and a bare value are accepted.
func (r *ClientStateRepository) LoadTheme(ctx context.Context) domain.Theme {
	data, ok := readKey(ctx, r.store, r.logger, KeyTheme)
	if !ok {
		return ""
	}

	bare := domain.Theme(strings.TrimSpace(string(data)))
	if bare.IsValid() {
		return bare
	}

	return loadFrom(data, r.logger, KeyTheme, schemas.Theme, domain.Theme(""))
}

// LoadUser returns the signed-in user or nil
func (r *ClientStateRepository) LoadUser(ctx context.Context) *domain.User {
	return loadJSON[*domain.User](ctx, r.store, r.logger, KeyUser, schemas.User, nil)
}

func (r *ClientStateRepository) SaveCart(ctx context.Context, cart []domain.CartItem) error {
	if cart == nil {
		cart = []domain.CartItem{}
	}
	return saveJSON(ctx, r.store, KeyCart, cart)
}

func (r *ClientStateRepository) SaveFavorites(ctx context.Context, favorites []domain.Property) error {
	if favorites == nil {
		favorites = []domain.Property{}
	}
	return saveJSON(ctx, r.store, KeyFavorites, favorites)
}

func (r *ClientStateRepository) SaveComparison(ctx context.Context, comparison []domain.Property) error {
	if comparison == nil {
		comparison = []domain.Property{}
	}
	return saveJSON(ctx, r.store, KeyComparison, comparison)
}

func (r *ClientStateRepository) SaveTheme(ctx context.Context, theme domain.Theme) error {
	return saveJSON(ctx, r.store, KeyTheme, theme)
}

func (r *ClientStateRepository) SaveUser(ctx context.Context, user domain.User) error {
	return saveJSON(ctx, r.store, KeyUser, user)
}

// ClearComparison removes the comparison key entirely
func (r *ClientStateRepository) ClearComparison(ctx context.Context) error {
	return removeKey(ctx, r.store, KeyComparison)
}

// ClearUser signs the visitor out
func (r *ClientStateRepository) ClearUser(ctx context.Context) error {
	return removeKey(ctx, r.store, KeyUser)
}

// readKey fetches a key, logging anything other than a plain miss
func readKey(ctx context.Context, store storage.Store, logger *zap.Logger, key string) ([]byte, bool) {
	data, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to read client state, using default",
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return nil, false
	}
	return data, true
}

func loadJSON[T any](ctx context.Context, store storage.Store, logger *zap.Logger, key, schema string, def T) T {
	data, ok := readKey(ctx, store, logger, key)
	if !ok {
		return def
	}
	return loadFrom(data, logger, key, schema, def)
}

// loadForUpdate treats a miss or an invalid blob as def. Any other read
// failure is a StorageError so the caller never overwrites data it could not see.
func loadForUpdate[T any](ctx context.Context, store storage.Store, logger *zap.Logger, key, schema string, def T) (T, error) {
	data, err := store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, domain.NewStorageError("get", key, err)
	}
	return loadFrom(data, logger, key, schema, def), nil
}

func loadFrom[T any](data []byte, logger *zap.Logger, key, schema string, def T) T {
	if err := schemas.Validate(schema, data); err != nil {
		logger.Warn("Discarding invalid client state",
			zap.String("key", key),
			zap.Error(err),
		)
		return def
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		logger.Warn("Discarding undecodable client state",
			zap.String("key", key),
			zap.Error(err),
		)
		return def
	}
	return v
}

func saveJSON(ctx context.Context, store storage.Store, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return domain.NewStorageError("encode", key, err)
	}
	if err := store.Set(ctx, key, data); err != nil {
		return domain.NewStorageError("set", key, err)
	}
	return nil
}

func removeKey(ctx context.Context, store storage.Store, key string) error {
	if err := store.Remove(ctx, key); err != nil {
		return domain.NewStorageError("remove", key, err)
	}
	return nil
}
