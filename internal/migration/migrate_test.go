package migration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestRunIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "chat.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"users", "messages", "contacts", "friend_requests", "groups", "stories", "channels"},
		Missing(db))

	require.NoError(t, Run(db))
	require.NoError(t, Run(db))
	assert.Empty(t, Missing(db))
}
