package main

import (
	"flag"
	"log"

	"github.com/chatfusion/chatfusion-backend/internal/config"
	"github.com/chatfusion/chatfusion-backend/internal/database"
	"github.com/chatfusion/chatfusion-backend/internal/migration"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// CLI flags
	configPath := flag.String("config", config.ConfigPath(), "config file path")
	dryRun := flag.Bool("dry-run", false, "list pending tables without creating anything")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	if files := config.LoadDotEnv(); len(files) == 0 {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logLevel := gormlogger.Warn
	if *verbose {
		logLevel = gormlogger.Info
	}

	db, err := database.Open(cfg.Database, logLevel)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying DB: %v", err)
	}
	defer sqlDB.Close()

	if *dryRun {
		missing := migration.Missing(db)
		if len(missing) == 0 {
			log.Println("[dry-run] schema is up to date (columns and indexes are still reconciled on a real run)")
			return
		}
		log.Printf("[dry-run] would create tables: %v", missing)
		return
	}

	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Migration completed (%s)", cfg.Database.Driver)
}
