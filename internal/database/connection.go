// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sitewise/siteqa-backend/internal/config"
	"github.com/sitewise/siteqa-backend/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		}
	} else {
		gormConfig = &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Info),
			TranslateError: true,
		}
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established (%s)", cfg.RedactedDSN())
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"pgcrypto\"").Error; err != nil {
		return fmt.Errorf("failed to create pgcrypto extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Lot{},
		&models.ITPTemplate{},
		&models.ITPTemplateItem{},
		&models.ITP{},
		&models.ITPItem{},
		&models.LotAssignment{},
		&models.ConformanceRecord{},
		&models.SiteDiary{},
		&models.Docket{},
		&models.Notification{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Lot indexes
		"CREATE INDEX IF NOT EXISTS idx_lots_project_status ON lots(project_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_lots_created_at ON lots(created_at DESC)",

		// Template indexes
		"CREATE INDEX IF NOT EXISTS idx_itp_templates_active_category ON itp_templates(is_active, category)",
		"CREATE INDEX IF NOT EXISTS idx_itp_template_items_template_sort ON itp_template_items(template_id, sort_order)",

		// Instance indexes
		"CREATE INDEX IF NOT EXISTS idx_itps_lot_status ON itps(lot_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_itp_items_itp_sort ON itp_items(itp_id, sort_order)",
		"CREATE INDEX IF NOT EXISTS idx_itp_items_itp_status ON itp_items(itp_id, status)",

		// Assignment indexes
		"CREATE INDEX IF NOT EXISTS idx_lot_assignments_lot_status ON lot_assignments(lot_id, status)",

		// Conformance indexes
		"CREATE INDEX IF NOT EXISTS idx_conformance_records_lot ON conformance_records(lot_id)",
		"CREATE INDEX IF NOT EXISTS idx_conformance_records_nc ON conformance_records(lot_id, is_non_conformance)",

		// Diary and docket indexes
		"CREATE INDEX IF NOT EXISTS idx_site_diaries_lot_date ON site_diaries(lot_id, diary_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_dockets_lot_type_date ON dockets(lot_id, docket_type, docket_date DESC)",

		// Audit indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}
