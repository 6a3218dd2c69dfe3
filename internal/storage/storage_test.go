package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nyumba-homes/storefront-api/internal/config"
	"github.com/nyumba-homes/storefront-api/internal/storage"
	"github.com/nyumba-homes/storefront-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStoreInterfaceCompliance(t *testing.T) {
	var _ storage.Store = (*storage.MemoryStore)(nil)
	var _ storage.Store = (*storage.LocalStore)(nil)
	var _ storage.Store = (*storage.RedisStore)(nil)
	var _ storage.Store = (*storage.SQLStore)(nil)
	var _ storage.Store = (*storage.AzureBlobStore)(nil)

	var _ storage.Pinger = (*storage.MemoryStore)(nil)
	var _ storage.Pinger = (*storage.LocalStore)(nil)
	var _ storage.Pinger = (*storage.RedisStore)(nil)
	var _ storage.Pinger = (*storage.SQLStore)(nil)
	var _ storage.Pinger = (*storage.AzureBlobStore)(nil)
}

func backends(t *testing.T) map[string]storage.Store {
	t.Helper()

	local, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, client := testutil.SetupTestRedis(t)

	return map[string]storage.Store{
		"memory": storage.NewMemoryStore(),
		"local":  local,
		"redis":  storage.NewRedisStoreWithClient(client, "storefront", 0),
		"sql":    storage.NewSQLStore(testutil.SetupTestDB(t)),
	}
}

func TestStores_Contract(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, "sessions/s1/cart")
			assert.ErrorIs(t, err, storage.ErrNotFound)

			require.NoError(t, store.Set(ctx, "sessions/s1/cart", []byte(`[{"id":"prop1"}]`)))
			got, err := store.Get(ctx, "sessions/s1/cart")
			require.NoError(t, err)
			assert.JSONEq(t, `[{"id":"prop1"}]`, string(got))

			require.NoError(t, store.Set(ctx, "sessions/s1/cart", []byte(`[]`)))
			got, err = store.Get(ctx, "sessions/s1/cart")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))

			require.NoError(t, store.Remove(ctx, "sessions/s1/cart"))
			_, err = store.Get(ctx, "sessions/s1/cart")
			assert.ErrorIs(t, err, storage.ErrNotFound)

			// removing a missing key is a no-op
			assert.NoError(t, store.Remove(ctx, "sessions/s1/cart"))

			if p, ok := store.(storage.Pinger); ok {
				assert.NoError(t, p.Ping(ctx))
			}
		})
	}
}

func TestNamespace_IsolatesSessions(t *testing.T) {
	ctx := context.Background()
	root := storage.NewMemoryStore()
	alice := storage.Namespace(root, "alice")
	bob := storage.Namespace(root, "bob")

	require.NoError(t, alice.Set(ctx, "theme", []byte(`"dark"`)))

	_, err := bob.Get(ctx, "theme")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err := root.Get(ctx, "sessions/alice/theme")
	require.NoError(t, err)
	assert.Equal(t, `"dark"`, string(got))

	require.NoError(t, bob.Remove(ctx, "theme"))
	_, err = alice.Get(ctx, "theme")
	assert.NoError(t, err)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	value := []byte(`"light"`)
	require.NoError(t, store.Set(ctx, "theme", value))
	value[1] = 'X'

	got, err := store.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, `"light"`, string(got))
	assert.Equal(t, 1, store.Len())
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "/etc/passwd", "../escape", "sessions/../../x", "a//b"} {
		assert.Error(t, store.Set(ctx, key, []byte(`1`)), key)
	}
}

func TestLocalStore_FileLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := storage.NewLocalStore(filepath.Join(dir, "state"))
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "sessions/abc/favorites", []byte(`[]`)))

	data, err := os.ReadFile(filepath.Join(dir, "state", "sessions", "abc", "favorites.json"))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestRedisStore_PrefixAndTTL(t *testing.T) {
	ctx := context.Background()
	mr, client := testutil.SetupTestRedis(t)
	store := storage.NewRedisStoreWithClient(client, "storefront", time.Hour)

	require.NoError(t, store.Set(ctx, "sessions/s1/theme", []byte(`"dark"`)))
	assert.True(t, mr.Exists("storefront:sessions/s1/theme"))
	assert.Equal(t, time.Hour, mr.TTL("storefront:sessions/s1/theme"))

	mr.FastForward(2 * time.Hour)
	_, err := store.Get(ctx, "sessions/s1/theme")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRedisStore_ServerDown(t *testing.T) {
	ctx := context.Background()
	mr, client := testutil.SetupTestRedis(t)
	store := storage.NewRedisStoreWithClient(client, "", 0)

	mr.Close()
	_, err := store.Get(ctx, "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
	assert.Error(t, store.Set(ctx, "k", []byte(`1`)))
}

func TestNewStore(t *testing.T) {
	logger := zap.NewNop()

	store, err := storage.NewStore(&config.Config{Storage: config.StorageConfig{Mode: "memory"}}, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStore{}, store)

	store, err = storage.NewStore(&config.Config{Storage: config.StorageConfig{Mode: "local", LocalBasePath: t.TempDir()}}, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStore{}, store)

	store, err = storage.NewStore(&config.Config{Storage: config.StorageConfig{Mode: "sql"}}, testutil.SetupTestDB(t), logger)
	require.NoError(t, err)
	assert.IsType(t, &storage.SQLStore{}, store)

	mr, _ := testutil.SetupTestRedis(t)
	store, err = storage.NewStore(&config.Config{
		Storage: config.StorageConfig{Mode: "redis"},
		Redis:   config.RedisConfig{Addr: mr.Addr(), KeyPrefix: "sf"},
	}, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &storage.RedisStore{}, store)
	store.(*storage.RedisStore).Close()

	_, err = storage.NewStore(&config.Config{Storage: config.StorageConfig{Mode: "sql"}}, nil, logger)
	assert.Error(t, err)

	_, err = storage.NewStore(&config.Config{Storage: config.StorageConfig{Mode: "azure"}}, nil, logger)
	assert.Error(t, err)

	_, err = storage.NewStore(&config.Config{Storage: config.StorageConfig{Mode: "floppy"}}, nil, logger)
	assert.Error(t, err)
}
