package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the connection to the catalog database
type DB struct {
	conn *sql.DB
}

// New opens and pings a PostgreSQL connection
func New(connStr string) (*DB, error) {
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{conn: conn}, nil
}

// NewFromConn wraps an existing connection pool
func NewFromConn(conn *sql.DB) *DB {
	return &DB{conn: conn}
}

// SetMaxOpenConns bounds the number of concurrent connections to the store
func (db *DB) SetMaxOpenConns(n int) {
	if n <= 0 {
		return
	}
	db.conn.SetMaxOpenConns(n)
	db.conn.SetMaxIdleConns(n)
}

// Ping verifies the connection is alive
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}
