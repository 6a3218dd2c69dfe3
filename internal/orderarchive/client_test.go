package orderarchive_test

import (
	"context"
	"database/sql"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/nyumba-homes/storefront-api/internal/config"
	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/orderarchive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const createTableSQL = `CREATE TABLE storefront_orders (
	order_id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	customer_name TEXT NOT NULL,
	customer_email TEXT NOT NULL,
	customer_phone TEXT NOT NULL,
	payment_method TEXT NOT NULL,
	total_amount INTEGER NOT NULL,
	item_count INTEGER NOT NULL,
	items TEXT NOT NULL,
	order_date TIMESTAMP NOT NULL,
	status TEXT NOT NULL
)`

func openArchiveDB(t *testing.T) *sql.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "archive.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	db, err := gdb.DB()
	require.NoError(t, err)
	_, err = db.Exec(createTableSQL)
	require.NoError(t, err)
	return db
}

func sampleOrder() domain.Order {
	return domain.Order{
		OrderID:  "ORD-1700000000000",
		Customer: domain.Customer{Name: "Njeri", Email: "njeri@example.com", Phone: "0722000000"},
		Items: []domain.CartItem{
			{ID: "prop2", Title: "Modern Apartment in Westlands", Price: "Ksh 18,000,000", Location: "Westlands, Nairobi", Image: "images/apartment1.jpg"},
		},
		TotalAmount:   18000000,
		PaymentMethod: domain.PaymentMethodMpesa,
		OrderDate:     time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		Status:        domain.OrderStatusConfirmed,
	}
}

func TestNewClient_DisabledConfig(t *testing.T) {
	client, err := orderarchive.NewClient(nil, zap.NewNop())
	assert.NoError(t, err)
	assert.Nil(t, client)

	client, err = orderarchive.NewClient(&config.OrderArchiveConfig{Enabled: false}, zap.NewNop())
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewClient_MissingCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.OrderArchiveConfig
	}{
		{"missing URL", &config.OrderArchiveConfig{Enabled: true, User: "user", Password: "pass"}},
		{"missing user", &config.OrderArchiveConfig{Enabled: true, URL: "host:1433/db", Password: "pass"}},
		{"missing password", &config.OrderArchiveConfig{Enabled: true, URL: "host:1433/db", User: "user"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := orderarchive.NewClient(tt.cfg, zap.NewNop())
			assert.NoError(t, err)
			assert.Nil(t, client)
		})
	}
}

func TestBuildConnectionString(t *testing.T) {
	connStr, err := orderarchive.BuildConnectionString(&config.OrderArchiveConfig{
		URL:      "archive.example.com:1444/orders",
		User:     "svc",
		Password: "p@ss word",
	})
	require.NoError(t, err)

	u, err := url.Parse(connStr)
	require.NoError(t, err)
	assert.Equal(t, "sqlserver", u.Scheme)
	assert.Equal(t, "archive.example.com:1444", u.Host)
	assert.Equal(t, "svc", u.User.Username())
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss word", pw)
	assert.Equal(t, "orders", u.Query().Get("database"))
	assert.Equal(t, "true", u.Query().Get("encrypt"))

	connStr, err = orderarchive.BuildConnectionString(&config.OrderArchiveConfig{URL: "archive", User: "u", Password: "p"})
	require.NoError(t, err)
	u, err = url.Parse(connStr)
	require.NoError(t, err)
	assert.Equal(t, "archive:1433", u.Host)
	assert.Empty(t, u.Query().Get("database"))

	_, err = orderarchive.BuildConnectionString(&config.OrderArchiveConfig{URL: ":1433/db"})
	assert.Error(t, err)
}

func TestNilClient_IsNoop(t *testing.T) {
	var client *orderarchive.Client

	assert.False(t, client.IsEnabled())
	assert.NoError(t, client.ArchiveOrder(context.Background(), "s1", sampleOrder()))
	assert.Equal(t, "disabled", client.HealthCheck(context.Background()).Status)
	assert.NoError(t, client.Close())
}

func TestArchiveOrder(t *testing.T) {
	db := openArchiveDB(t)
	client := orderarchive.NewClientWithDB(db, time.Second, zap.NewNop())
	defer client.Close()

	order := sampleOrder()
	require.NoError(t, client.ArchiveOrder(context.Background(), "session-1", order))

	var (
		sessionID string
		total     int64
		count     int
		method    string
		items     string
	)
	row := db.QueryRow(`SELECT session_id, total_amount, item_count, payment_method, items FROM storefront_orders WHERE order_id = ?`, order.OrderID)
	require.NoError(t, row.Scan(&sessionID, &total, &count, &method, &items))
	assert.Equal(t, "session-1", sessionID)
	assert.Equal(t, int64(18000000), total)
	assert.Equal(t, 1, count)
	assert.Equal(t, "mpesa", method)
	assert.Contains(t, items, `"id":"prop2"`)

	// the primary key rejects a second copy
	assert.Error(t, client.ArchiveOrder(context.Background(), "session-1", order))

	assert.Equal(t, "healthy", client.HealthCheck(context.Background()).Status)
}
