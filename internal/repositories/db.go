package repositories

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/securefold/server/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DSN combines the connection string and database name. DB_URL may be either
// a keyword/value string ("host=... user=...") or a postgres:// URL; the
// database name is attached in whichever form the driver expects.
func DSN(dbURL, dbName string) string {
	if strings.HasPrefix(dbURL, "postgres://") || strings.HasPrefix(dbURL, "postgresql://") {
		if u, err := url.Parse(dbURL); err == nil {
			u.Path = "/" + dbName
			return u.String()
		}
	}
	return fmt.Sprintf("%s dbname=%s", dbURL, dbName)
}

// Connect opens the shared database handle and runs migrations. The handle
// is created once at startup and passed to the stores; Close releases it on
// shutdown.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Document{},
		&models.OfficerAccess{},
		&models.FailedAttempt{},
		&models.IntruderPhoto{},
	)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
