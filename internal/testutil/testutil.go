// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/autotrack/autotrack/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 740031

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops and recreates the full schema for tests.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	downPath := filepath.Join(root, "migrations", "000001_init.down.sql")
	upPath := filepath.Join(root, "migrations", "000001_init.up.sql")

	downSQL, err := os.ReadFile(downPath)
	if err != nil {
		return fmt.Errorf("read down migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
		return fmt.Errorf("apply down migration: %w", err)
	}

	upSQL, err := os.ReadFile(upPath)
	if err != nil {
		return fmt.Errorf("read up migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		return fmt.Errorf("apply up migration: %w", err)
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestCar creates a test car with sensible defaults.
func NewTestCar(t testing.TB, userID string) *model.Car {
	t.Helper()
	now := time.Now().UTC()
	return &model.Car{
		ID:             UniqueID("car"),
		UserID:         userID,
		Make:           "Toyota",
		Model:          "Corolla",
		Year:           2019,
		CurrentMileage: 45000,
		CreatedAt:      now,
	}
}

// NewTestTask creates a test maintenance task with sensible defaults: an
// oil change with both baselines set.
func NewTestTask(t testing.TB, userID, carID string) *model.MaintenanceTask {
	t.Helper()
	now := time.Now().UTC()
	lastDate := now.AddDate(0, 0, -30)
	lastMileage := int64(42000)
	return &model.MaintenanceTask{
		ID:                   UniqueID("task"),
		UserID:               userID,
		CarID:                carID,
		TaskType:             "oil_change",
		LastPerformedDate:    &lastDate,
		LastPerformedMileage: &lastMileage,
		IntervalMiles:        model.DefaultIntervalMiles,
		IntervalMonths:       model.DefaultIntervalMonths,
		CreatedAt:            now,
	}
}

// NewTestUser creates a test user with default settings. The password hash
// is a placeholder, not a valid argon2 digest.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	return &model.User{
		ID:           UniqueID("user"),
		Email:        email,
		Name:         "Test User",
		PasswordHash: "not-a-real-hash",
		Settings:     model.DefaultSettings(),
		CreatedAt:    time.Now().UTC(),
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
