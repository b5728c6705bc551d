package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andryfotsiny/gestion/internal/models"
)

// Options configure the store handle. The handle is constructed once at
// startup and injected into every service; there is no package-level global.
type Options struct {
	DSN      string // postgres://... or a sqlite file path
	Debug    bool   // log every SQL statement
	Migrate  bool   // run SQL migrations from ./migrations instead of AutoMigrate
	SeedData bool   // insert default admin + categories if absent
}

// Open connects to the database designated by the DSN. Anything that is not
// a postgres URL is treated as a sqlite file path (the default deployment is
// a single database file next to the binary).
func Open(opts Options) (*gorm.DB, error) {
	dsn := NormalizeDSN(opts.DSN)
	if dsn == "" {
		return nil, errors.New("DATABASE_DSN est vide, vérifiez la configuration de l'environnement")
	}
	logLevel := logger.Silent
	if opts.Debug {
		logLevel = logger.Info
	}
	// TranslateError surfaces unique-constraint violations as
	// gorm.ErrDuplicatedKey instead of driver-specific message text.
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel), TranslateError: true}

	var conn *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		conn, err = gorm.Open(dialectorFor(dsn), cfg)
		if err == nil {
			break
		}
		if !IsPostgresDSN(dsn) {
			break // a local sqlite file does not become reachable by waiting
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	return conn, nil
}

// ConnectAndMigrate opens the store, brings the schema up to date and seeds
// the first-run data when requested.
func ConnectAndMigrate(opts Options) (*gorm.DB, error) {
	conn, err := Open(opts)
	if err != nil {
		return nil, err
	}
	if opts.Migrate {
		if err := runSQLMigrations(opts.DSN); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := AutoMigrate(conn); err != nil {
			return nil, err
		}
	}
	for _, table := range []string{"users", "categories", "vendeurs", "products", "stock_movements"} {
		if !conn.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}
	if opts.SeedData {
		if err := Seed(conn); err != nil {
			return nil, fmt.Errorf("seed failed: %w", err)
		}
	}
	return conn, nil
}

// AutoMigrate creates the five tables plus the supplemental indexes and the
// sqlite trigger refreshing products.last_updated on any UPDATE. GORM keeps
// last_updated fresh on the ORM path; the trigger also covers raw quantity
// updates, matching the original schema.
func AutoMigrate(conn *gorm.DB) error {
	for _, m := range []interface{}{
		&models.User{}, &models.Category{}, &models.Vendeur{}, &models.Product{}, &models.StockMovement{},
	} {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	if conn.Dialector.Name() == "sqlite" {
		trigger := `
			CREATE TRIGGER IF NOT EXISTS update_product_timestamp
			AFTER UPDATE ON products
			BEGIN
				UPDATE products SET last_updated = CURRENT_TIMESTAMP
				WHERE id = NEW.id;
			END`
		if err := conn.Exec(trigger).Error; err != nil {
			return fmt.Errorf("create trigger: %w", err)
		}
	}
	return nil
}

// Seed inserts the default administrator account and the four default
// categories. Idempotent: existing rows are left untouched.
func Seed(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&models.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := models.User{Username: "admin", PasswordHash: string(hash), FullName: "Administrateur", Active: true}
		if err := conn.Create(&admin).Error; err != nil {
			return err
		}
	}
	for _, name := range []string{"Boissons", "Alimentaire", "Accessoires", "Autres"} {
		var existing models.Category
		err := conn.Where("name = ?", name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := conn.Create(&models.Category{Name: name}).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

func dialectorFor(dsn string) gorm.Dialector {
	if IsPostgresDSN(dsn) {
		return postgres.Open(dsn)
	}
	return sqlite.Open(dsn)
}

// IsPostgresDSN reports whether the DSN designates a postgres server rather
// than a sqlite file.
func IsPostgresDSN(dsn string) bool {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

// NormalizeDSN trims quotes and whitespace around the configured DSN.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	return strings.Trim(s, "\"'")
}
