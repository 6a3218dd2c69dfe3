// Package orderarchive copies completed orders into an MS SQL Server table.
// The archive is write-only and best effort: checkout never fails because of it.
package orderarchive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb" // MS SQL Server driver
	"github.com/nyumba-homes/storefront-api/internal/config"
	"github.com/nyumba-homes/storefront-api/internal/domain"
	"go.uber.org/zap"
)

const (
	// Default retry configuration for connection attempts
	defaultMaxRetries     = 3
	defaultInitialBackoff = 1 * time.Second
	defaultMaxBackoff     = 10 * time.Second
	defaultBackoffFactor  = 2.0

	defaultHealthCheckTimeout = 5 * time.Second
	defaultQueryTimeout       = 10 * time.Second
)

// TableName is the archive table written to
const TableName = "storefront_orders"

const insertOrderSQL = `INSERT INTO ` + TableName + ` (
	order_id, session_id, customer_name, customer_email, customer_phone,
	payment_method, total_amount, item_count, items, order_date, status
) VALUES (
	@order_id, @session_id, @customer_name, @customer_email, @customer_phone,
	@payment_method, @total_amount, @item_count, @items, @order_date, @status
)`

// Client writes orders to the archive database.
// A nil *Client is valid and archives nothing.
type Client struct {
	db           *sql.DB
	logger       *zap.Logger
	queryTimeout time.Duration
}

// HealthStatus represents the health check result for the archive connection
type HealthStatus struct {
	Status    string        `json:"status"`
	Latency   time.Duration `json:"latency_ms"`
	Error     string        `json:"error,omitempty"`
	MaxOpen   int           `json:"max_open_connections"`
	Open      int           `json:"open_connections"`
	InUse     int           `json:"in_use"`
	Idle      int           `json:"idle"`
	WaitCount int64         `json:"wait_count"`
}

// NewClient connects to the archive with retries.
// Returns nil when the archive is disabled or missing credentials.
func NewClient(cfg *config.OrderArchiveConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("Order archive disabled")
		return nil, nil
	}

	if cfg.URL == "" || cfg.User == "" || cfg.Password == "" {
		logger.Warn("Order archive enabled but missing credentials, skipping connection",
			zap.Bool("url_present", cfg.URL != ""),
			zap.Bool("user_present", cfg.User != ""),
			zap.Bool("password_present", cfg.Password != ""),
		)
		return nil, nil
	}

	connStr, err := buildConnectionString(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build connection string: %w", err)
	}

	var db *sql.DB
	backoff := defaultInitialBackoff

	for attempt := 1; attempt <= defaultMaxRetries; attempt++ {
		logger.Info("Attempting order archive connection",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", defaultMaxRetries),
		)

		db, err = sql.Open("sqlserver", connStr)
		if err == nil {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
			db.SetMaxIdleConns(cfg.MaxIdleConns)
			db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

			ctx, cancel := context.WithTimeout(context.Background(), defaultHealthCheckTimeout)
			err = db.PingContext(ctx)
			cancel()
			if err == nil {
				logger.Info("Order archive connection established",
					zap.Int("attempts_taken", attempt),
				)
				return NewClientWithDB(db, cfg.QueryTimeoutDuration(), logger), nil
			}
			_ = db.Close()
		}

		logger.Warn("Order archive connection attempt failed",
			zap.Error(err),
			zap.Int("attempt", attempt),
		)
		if attempt < defaultMaxRetries {
			time.Sleep(backoff)
			backoff = min(time.Duration(float64(backoff)*defaultBackoffFactor), defaultMaxBackoff)
		}
	}

	return nil, fmt.Errorf("failed to connect to order archive after %d attempts: %w", defaultMaxRetries, err)
}

// NewClientWithDB wraps an open database handle
func NewClientWithDB(db *sql.DB, queryTimeout time.Duration, logger *zap.Logger) *Client {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &Client{db: db, logger: logger, queryTimeout: queryTimeout}
}

// buildConnectionString turns host:port/database into a sqlserver URL
func buildConnectionString(cfg *config.OrderArchiveConfig) (string, error) {
	urlParts := strings.SplitN(cfg.URL, "/", 2)
	hostPort := urlParts[0]
	database := ""
	if len(urlParts) > 1 {
		database = urlParts[1]
	}

	hostParts := strings.SplitN(hostPort, ":", 2)
	host := hostParts[0]
	if host == "" {
		return "", fmt.Errorf("missing host in order archive url %q", cfg.URL)
	}
	port := "1433"
	if len(hostParts) > 1 && hostParts[1] != "" {
		port = hostParts[1]
	}

	query := url.Values{}
	query.Add("encrypt", "true")
	query.Add("TrustServerCertificate", "false")
	query.Add("connection timeout", "30")
	if database != "" {
		query.Add("database", database)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%s", host, port),
		RawQuery: query.Encode(),
	}

	return u.String(), nil
}

// IsEnabled returns true if the client is connected
func (c *Client) IsEnabled() bool {
	return c != nil && c.db != nil
}

// ArchiveOrder inserts one completed order. Failures are logged and returned,
// callers are expected to carry on regardless.
func (c *Client) ArchiveOrder(ctx context.Context, sessionID string, order domain.Order) error {
	if !c.IsEnabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	start := time.Now()
	_, err = c.db.ExecContext(ctx, insertOrderSQL,
		sql.Named("order_id", order.OrderID),
		sql.Named("session_id", sessionID),
		sql.Named("customer_name", order.Customer.Name),
		sql.Named("customer_email", order.Customer.Email),
		sql.Named("customer_phone", order.Customer.Phone),
		sql.Named("payment_method", string(order.PaymentMethod)),
		sql.Named("total_amount", order.TotalAmount),
		sql.Named("item_count", len(order.Items)),
		sql.Named("items", string(items)),
		sql.Named("order_date", order.OrderDate.UTC()),
		sql.Named("status", string(order.Status)),
	)
	if err != nil {
		c.logger.Warn("Failed to archive order",
			zap.String("order_id", order.OrderID),
			zap.String("session_id", sessionID),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return fmt.Errorf("failed to archive order %s: %w", order.OrderID, err)
	}

	c.logger.Debug("Order archived",
		zap.String("order_id", order.OrderID),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// HealthCheck pings the archive and reports pool statistics
func (c *Client) HealthCheck(ctx context.Context) *HealthStatus {
	if !c.IsEnabled() {
		return &HealthStatus{Status: "disabled"}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultHealthCheckTimeout)
		defer cancel()
	}

	start := time.Now()
	err := c.db.PingContext(ctx)
	stats := c.db.Stats()

	status := &HealthStatus{
		Status:    "healthy",
		Latency:   time.Since(start),
		MaxOpen:   stats.MaxOpenConnections,
		Open:      stats.OpenConnections,
		InUse:     stats.InUse,
		Idle:      stats.Idle,
		WaitCount: stats.WaitCount,
	}
	if err != nil {
		c.logger.Warn("Order archive health check failed", zap.Error(err))
		status.Status = "unhealthy"
		status.Error = err.Error()
	}
	return status
}

// Close closes the archive connection
func (c *Client) Close() error {
	if !c.IsEnabled() {
		return nil
	}

	c.logger.Info("Closing order archive connection")
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close order archive connection: %w", err)
	}
	return nil
}
