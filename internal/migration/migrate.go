package migration

import (
	"github.com/chatfusion/chatfusion-backend/internal/domain"
	"gorm.io/gorm"
)

// Models lists every table owned by the chat schema
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.Message{},
		&domain.Contact{},
		&domain.FriendRequest{},
		&domain.Group{},
		&domain.Story{},
		&domain.Channel{},
	}
}

// Run creates all chat tables via AutoMigrate.
// This is safe to run multiple times (AutoMigrate is idempotent).
func Run(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// Missing returns the names of tables that do not exist yet
func Missing(db *gorm.DB) []string {
	var missing []string
	for _, m := range Models() {
		if db.Migrator().HasTable(m) {
			continue
		}
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err == nil {
			missing = append(missing, stmt.Schema.Table)
		}
	}
	return missing
}
