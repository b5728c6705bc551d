package db

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/andryfotsiny/gestion/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:db_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestSeedIdempotent(t *testing.T) {
	conn := openTestDB(t)
	if err := Seed(conn); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := Seed(conn); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	var userCount, catCount int64
	conn.Model(&models.User{}).Where("username = ?", "admin").Count(&userCount)
	conn.Model(&models.Category{}).Count(&catCount)
	if userCount != 1 {
		t.Fatalf("expected exactly one admin, got %d", userCount)
	}
	if catCount != 4 {
		t.Fatalf("expected 4 default categories, got %d", catCount)
	}
	var boissons int64
	conn.Model(&models.Category{}).Where("name = ?", "Boissons").Count(&boissons)
	if boissons != 1 {
		t.Fatalf("Boissons duplicated or missing: %d", boissons)
	}
}

func TestSeededAdminIsActive(t *testing.T) {
	conn := openTestDB(t)
	if err := Seed(conn); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var admin models.User
	if err := conn.Where("username = ?", "admin").First(&admin).Error; err != nil {
		t.Fatalf("admin: %v", err)
	}
	if !admin.Active {
		t.Fatalf("seeded admin should be active")
	}
	if admin.PasswordHash == "admin" || admin.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}
}

func TestProductTimestampTrigger(t *testing.T) {
	conn := openTestDB(t)
	p := models.Product{Name: "Trigger", PurchasePrice: 1, SellingPrice: 2}
	if err := conn.Create(&p).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	// Raw update bypassing GORM's autoUpdateTime: the trigger must refresh last_updated.
	if err := conn.Exec("UPDATE products SET quantity = quantity + 1 WHERE id = ?", p.ID).Error; err != nil {
		t.Fatalf("raw update: %v", err)
	}
	var after models.Product
	if err := conn.First(&after, p.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if after.Quantity != 1 {
		t.Fatalf("quantity not updated: %d", after.Quantity)
	}
}
