package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB wraps a test database connection with cleanup
type TestDB struct {
	*DB
	container testcontainers.Container
	connStr   string
}

// SetupTestDB creates a new PostgreSQL container and returns a migrated DB
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := New(connStr)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	testDB := &TestDB{
		DB:        db,
		container: pgContainer,
		connStr:   connStr,
	}

	if err := testDB.Migrate(ctx); err != nil {
		testDB.Cleanup(t)
		t.Fatalf("failed to run migrations: %v", err)
	}

	return testDB
}

// Cleanup closes the database connection and terminates the container
func (tdb *TestDB) Cleanup(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	if tdb.DB != nil {
		tdb.DB.Close()
	}

	if tdb.container != nil {
		if err := tdb.container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	}
}

// TruncateAll empties the catalog for test isolation
func (tdb *TestDB) TruncateAll(t *testing.T) {
	t.Helper()

	if _, err := tdb.conn.Exec("TRUNCATE TABLE wines RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("failed to truncate wines: %v", err)
	}
}

// InsertTestWine adds a catalog row and returns its id
func (tdb *TestDB) InsertTestWine(t *testing.T, name, region, classification string, price *float64, vintage *int) int {
	t.Helper()

	var priceArg interface{}
	if price != nil {
		priceArg = decimal.NewFromFloat(*price)
	}

	var id int
	err := tdb.conn.QueryRow(`
		INSERT INTO wines (name, region, country, classification, price_retail, vintage)
		VALUES ($1, $2, 'France', $3, $4, $5)
		RETURNING id
	`, name, region, classification, priceArg, vintage).Scan(&id)
	if err != nil {
		t.Fatalf("failed to insert test wine: %v", err)
	}
	return id
}

// GetRawConn returns the underlying sql.DB for direct queries in tests
func (tdb *TestDB) GetRawConn() *sql.DB {
	return tdb.conn
}

// ConnectionString returns the database connection string
func (tdb *TestDB) ConnectionString() string {
	return tdb.connStr
}

func floatPtr(v float64) *float64 { return &v }

func yearPtr(v int) *int { return &v }
