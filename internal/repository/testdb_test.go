package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"github.com/chatfusion/chatfusion-backend/internal/migration"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// base is the fixed "now" of repository tests
var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chat_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, migration.Run(db))
	return db
}

func seedUser(t *testing.T, repo UserRepository, name string) *domain.User {
	t.Helper()
	u := &domain.User{
		Username:      name,
		Email:         name + "@example.com",
		PasswordHash:  "x",
		StatusMessage: domain.DefaultStatusMessage,
		OnlineStatus:  domain.StatusOffline,
		LastSeen:      base,
		CreatedAt:     base,
	}
	require.NoError(t, repo.Create(u))
	return u
}

func ptr[T any](v T) *T { return &v }
