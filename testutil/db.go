// Package testutil provides shared helpers for integration tests.
// Helpers skip automatically when the backing service is not configured,
// so unit tests run without Postgres or Redis.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/rahul4469/landmark-guide/internal/models"
	"github.com/rahul4469/landmark-guide/migrations"
)

// NewDatabase connects to TEST_DATABASE_URL and applies the embedded
// migrations. The database is closed when the test finishes.
func NewDatabase(t *testing.T) *models.Database {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}

	db, err := models.NewDatabase(context.Background(), models.DefaultDatabaseConfig(dsn))
	if err != nil {
		t.Fatalf("testutil.NewDatabase: %v", err)
	}
	t.Cleanup(db.Close)

	sqlDB := db.SQLDB()
	t.Cleanup(func() { sqlDB.Close() })
	if err := models.MigrateFS(sqlDB, migrations.FS, "."); err != nil {
		t.Fatalf("testutil.NewDatabase: migrate: %v", err)
	}
	return db
}

// NewRedis connects to TEST_REDIS_URL. The client is closed when the test
// finishes.
func NewRedis(t *testing.T) *redis.Client {
	t.Helper()

	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set; skipping integration test")
	}

	client, err := models.OpenRedis(context.Background(), url)
	if err != nil {
		t.Fatalf("testutil.NewRedis: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}
