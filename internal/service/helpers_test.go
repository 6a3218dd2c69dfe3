package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nyumba-homes/storefront-api/internal/auth"
	"github.com/nyumba-homes/storefront-api/internal/catalog"
	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/payment"
	"github.com/nyumba-homes/storefront-api/internal/queue"
	"github.com/nyumba-homes/storefront-api/internal/recommend"
	"github.com/nyumba-homes/storefront-api/internal/service"
	"github.com/nyumba-homes/storefront-api/internal/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	errWriteFailed = errors.New("write failed")
	errReadFailed  = errors.New("connection reset")
)

// flakyStore is a MemoryStore whose writes, and reads of keys ending in a
// given suffix, can be switched off
type flakyStore struct {
	*storage.MemoryStore
	mu           sync.Mutex
	failWrite    bool
	failReadKeys string
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: storage.NewMemoryStore()}
}

func (f *flakyStore) setFailWrite(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWrite = fail
}

func (f *flakyStore) setFailRead(keySuffix string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failReadKeys = keySuffix
}

func (f *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	suffix := f.failReadKeys
	f.mu.Unlock()
	if suffix != "" && strings.HasSuffix(key, suffix) {
		return nil, errReadFailed
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *flakyStore) failing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failWrite
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	if f.failing() {
		return errWriteFailed
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func (f *flakyStore) Remove(ctx context.Context, key string) error {
	if f.failing() {
		return errWriteFailed
	}
	return f.MemoryStore.Remove(ctx, key)
}

// recordingArchive remembers archived orders and can fail on demand
type recordingArchive struct {
	mu     sync.Mutex
	orders []domain.Order
	err    error
}

func (a *recordingArchive) ArchiveOrder(ctx context.Context, sessionID string, order domain.Order) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.orders = append(a.orders, order)
	return nil
}

func (a *recordingArchive) archived() []domain.Order {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.Order(nil), a.orders...)
}

type fixture struct {
	catalog    *catalog.Catalog
	store      *flakyStore
	dispatcher *queue.Dispatcher
	recs       *service.RecommendationService
	storefront *service.StorefrontService
	properties *service.PropertyService
	checkout   *service.CheckoutService
	accounts   *service.AccountService
	archive    *recordingArchive
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithDelay(t, 0)
}

func newFixtureWithDelay(t *testing.T, paymentDelay time.Duration) *fixture {
	t.Helper()
	logger := zap.NewNop()

	cat, err := catalog.Default()
	require.NoError(t, err)

	store := newFlakyStore()
	dispatcher := queue.NewDispatcher(logger)
	t.Cleanup(dispatcher.Close)

	recs := service.NewRecommendationService(cat, recommend.NewEngine(4, recommend.NewSeeded(7)), store, logger)
	archive := &recordingArchive{}

	return &fixture{
		catalog:    cat,
		store:      store,
		dispatcher: dispatcher,
		recs:       recs,
		storefront: service.NewStorefrontService(cat, store, dispatcher, recs, logger),
		properties: service.NewPropertyService(cat, logger),
		checkout:   service.NewCheckoutService(store, dispatcher, payment.NewMockProvider(paymentDelay, logger), archive, logger),
		accounts:   service.NewAccountService(auth.NewMockProvider(), store, dispatcher, logger),
		archive:    archive,
	}
}

func sessionCtx(id string) context.Context {
	return auth.WithSession(context.Background(), &auth.SessionContext{SessionID: id})
}

func ids(props []domain.Property) []string {
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.ID
	}
	return out
}
