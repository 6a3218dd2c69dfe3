package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nyumba-homes/storefront-api/internal/auth"
	"github.com/nyumba-homes/storefront-api/internal/catalog"
	"github.com/nyumba-homes/storefront-api/internal/config"
	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/http/handler"
	"github.com/nyumba-homes/storefront-api/internal/http/middleware"
	"github.com/nyumba-homes/storefront-api/internal/http/router"
	"github.com/nyumba-homes/storefront-api/internal/payment"
	"github.com/nyumba-homes/storefront-api/internal/queue"
	"github.com/nyumba-homes/storefront-api/internal/recommend"
	"github.com/nyumba-homes/storefront-api/internal/service"
	"github.com/nyumba-homes/storefront-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// pingStore reports a configurable health
type pingStore struct {
	*storage.MemoryStore
	err error
}

func (p *pingStore) Ping(ctx context.Context) error { return p.err }

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{Name: "storefront-api", Environment: "development", Port: 8080},
		Auth:      config.AuthConfig{TokenSecret: "router-test-secret-0123456789", Issuer: "storefront-test", TokenTTL: 1},
		Storage:   config.StorageConfig{Mode: "memory"},
		Recommend: config.RecommendConfig{Size: 4},
		Server:    config.ServerConfig{EnableSwagger: true},
		Security:  config.SecurityConfig{ContentTypeNosniff: true, FrameOptions: "DENY"},
		RateLimit: config.RateLimitConfig{Enabled: false},
	}
}

func newServer(t *testing.T, store storage.Store) http.Handler {
	t.Helper()
	cfg := testConfig()
	logger := zap.NewNop()

	cat, err := catalog.Default()
	require.NoError(t, err)

	tokens, err := auth.NewSessionTokens(&cfg.Auth)
	require.NoError(t, err)

	dispatcher := queue.NewDispatcher(logger)
	t.Cleanup(dispatcher.Close)

	recs := service.NewRecommendationService(cat, recommend.NewEngine(cfg.Recommend.Size, recommend.NewSeeded(3)), store, logger)
	storefront := service.NewStorefrontService(cat, store, dispatcher, recs, logger)
	checkout := service.NewCheckoutService(store, dispatcher, payment.NewMockProvider(0, logger), nil, logger)
	accounts := service.NewAccountService(auth.NewMockProvider(), store, dispatcher, logger)

	rt := router.NewRouter(
		cfg,
		logger,
		nil,
		store,
		nil,
		auth.NewMiddleware(tokens, logger),
		middleware.NewRateLimiter(&cfg.RateLimit, logger),
		handler.NewSessionHandler(tokens, logger),
		handler.NewPropertyHandler(service.NewPropertyService(cat, logger), logger),
		handler.NewStorefrontHandler(storefront, recs, logger),
		handler.NewCheckoutHandler(checkout, logger),
		handler.NewAuthHandler(accounts, logger),
	)
	return rt.Setup()
}

func do(t *testing.T, h http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoints(t *testing.T) {
	h := newServer(t, &pingStore{MemoryStore: storage.NewMemoryStore()})

	w := do(t, h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = do(t, h, http.MethodGet, "/health/storage", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var storageBody map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &storageBody))
	assert.Equal(t, "healthy", storageBody["status"])
	assert.Equal(t, "memory", storageBody["mode"])

	w = do(t, h, http.MethodGet, "/health/ready", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var ready struct {
		Status string                            `json:"status"`
		Checks map[string]map[string]interface{} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ready))
	assert.Equal(t, "healthy", ready.Status)
	assert.Contains(t, ready.Checks, "storage")
	assert.Contains(t, ready.Checks, "orderArchive")
	assert.NotContains(t, ready.Checks, "database")
}

func TestHealthEndpoints_UnhealthyStorage(t *testing.T) {
	h := newServer(t, &pingStore{MemoryStore: storage.NewMemoryStore(), err: errors.New("connection refused")})

	w := do(t, h, http.MethodGet, "/health/storage", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(t, h, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestSessionRoutesRequireToken(t *testing.T) {
	h := newServer(t, storage.NewMemoryStore())

	for _, target := range []string{"/api/v1/cart", "/api/v1/state", "/api/v1/orders", "/api/v1/theme"} {
		w := do(t, h, http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, target)
	}

	w := do(t, h, http.MethodGet, "/api/v1/cart", "not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPublicRoutes(t *testing.T) {
	h := newServer(t, storage.NewMemoryStore())

	w := do(t, h, http.MethodGet, "/api/v1/properties", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list domain.PropertyListDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 15, list.Total)

	w = do(t, h, http.MethodGet, "/api/v1/properties/prop6/tour", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/api/v1/properties/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPost, "/api/v1/properties/prop2/mortgage", "", `{}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var estimate domain.MortgageEstimateDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &estimate))
	assert.InDelta(t, 18000000, estimate.Price, 0.001)
	assert.Equal(t, 240, estimate.NumberOfPayments)

	w = do(t, h, http.MethodGet, "/api/v1/payment-methods", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStorefrontFlow(t *testing.T) {
	h := newServer(t, storage.NewMemoryStore())

	w := do(t, h, http.MethodPost, "/api/v1/session", "", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var session domain.SessionDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	token := session.Token

	w = do(t, h, http.MethodPost, "/api/v1/cart/items/prop1", token, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/v1/cart/items/prop1", token, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodPost, "/api/v1/favorites/prop6/toggle", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodPost, "/api/v1/comparison/prop2/toggle", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodPut, "/api/v1/theme", token, `{"theme":"dark"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/api/v1/state", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var state domain.StateDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, 1, state.Cart.Count)
	assert.True(t, state.Favorites.Favorite["prop6"])
	assert.True(t, state.Comparison.Compared["prop2"])
	assert.Equal(t, domain.ThemeDark, state.Theme)
	for _, p := range state.Recommendations {
		assert.NotContains(t, []string{"prop1", "prop6"}, p.ID)
	}

	// a refreshed token keeps the same state
	w = do(t, h, http.MethodPost, "/api/v1/session/refresh", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var refreshed domain.SessionDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))
	assert.Equal(t, session.SessionID, refreshed.SessionID)

	w = do(t, h, http.MethodPost, "/api/v1/checkout", refreshed.Token,
		`{"customer":{"name":"Kamau","email":"kamau@example.com","phone":"0712345678"},"paymentMethod":"bank"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodGet, "/api/v1/orders", refreshed.Token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var orders []domain.OrderDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "Ksh 85,000,000", orders[0].FormattedTotal)

	w = do(t, h, http.MethodGet, "/api/v1/cart", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var cart domain.CartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	assert.Equal(t, 0, cart.Count)
}

func TestSessionsAreIsolated(t *testing.T) {
	h := newServer(t, storage.NewMemoryStore())

	newToken := func() string {
		w := do(t, h, http.MethodPost, "/api/v1/session", "", "")
		require.Equal(t, http.StatusCreated, w.Code)
		var s domain.SessionDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
		return s.Token
	}
	a, b := newToken(), newToken()

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/v1/cart/items/prop3", a, "").Code)

	w := do(t, h, http.MethodGet, "/api/v1/cart", b, "")
	require.Equal(t, http.StatusOK, w.Code)
	var cart domain.CartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	assert.Equal(t, 0, cart.Count)
}
