package database

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/chatfusion/chatfusion-backend/internal/config"
	"github.com/chatfusion/chatfusion-backend/internal/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestOpenSQLiteCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "chat_app.db")
	db, err := Open(config.DatabaseConfig{Driver: "sqlite", Path: path, ConnMaxLifetime: 60}, gormlogger.Silent)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, migration.Run(db))
	// second run is a no-op
	require.NoError(t, migration.Run(db))
	assert.FileExists(t, path)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "postgres"}, gormlogger.Silent)
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	dsn, err := mysqlDSN("chat:secret@tcp(db:3306)/chat")
	require.NoError(t, err)
	assert.True(t, strings.Contains(dsn, "parseTime=true"))
	assert.True(t, strings.Contains(dsn, "charset=utf8mb4"))

	_, err = mysqlDSN("not a dsn")
	assert.Error(t, err)
}
