package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"chforecast/internal/config"
)

// Client manages the connection to ClickHouse.
type Client struct {
	db       *sql.DB
	database string
}

// Open connects to ClickHouse over the HTTP interface using the supplied
// credentials and verifies the connection with a ping.
func Open(ctx context.Context, cfg *config.Config, database string) (*Client, error) {
	db := clickhouse.OpenDB(&clickhouse.Options{
		Addr:     []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Protocol: clickhouse.HTTP,
		Auth: clickhouse.Auth{
			Database: database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout: 10 * time.Second,
	})

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{db: db, database: database}, nil
}

// NewClientFromDB wraps an existing connection. Used by tests and by callers
// that manage their own *sql.DB.
func NewClientFromDB(db *sql.DB, database string) *Client {
	return &Client{db: db, database: database}
}

// Close closes the database connection.
func (c *Client) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying database connection.
func (c *Client) GetDB() *sql.DB {
	return c.db
}

// Database returns the name of the target database.
func (c *Client) Database() string {
	return c.database
}
