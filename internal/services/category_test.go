package services

import (
	"context"
	"errors"
	"testing"

	"github.com/andryfotsiny/gestion/internal/models"
)

func TestCategoryCreateRejectsDuplicate(t *testing.T) {
	conn := setupTestDB(t)
	svc := NewCategoryService(conn)
	ctx := context.Background()

	id, err := svc.Create(ctx, "Boissons")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected id")
	}
	if _, err := svc.Create(ctx, "Boissons"); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if _, err := svc.Create(ctx, "X"); err == nil {
		t.Fatalf("too-short name must fail")
	}
	if _, err := svc.Create(ctx, "Bois<sons>"); err == nil {
		t.Fatalf("forbidden characters must fail")
	}
}

func TestCategoryListWithCounts(t *testing.T) {
	conn := setupTestDB(t)
	svc := NewCategoryService(conn)
	ctx := context.Background()

	boissons, err := svc.Create(ctx, "Boissons")
	if err != nil {
		t.Fatalf("boissons: %v", err)
	}
	if _, err := svc.Create(ctx, "Autres"); err != nil {
		t.Fatalf("autres: %v", err)
	}
	product := models.Product{Name: "Coca", CategoryID: &boissons, PurchasePrice: 10, SellingPrice: 20}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("product: %v", err)
	}

	rows, err := svc.ListWithCounts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 categories got %d", len(rows))
	}
	counts := map[string]int64{}
	for _, row := range rows {
		counts[row.Name] = row.ProductCount
	}
	if counts["Boissons"] != 1 || counts["Autres"] != 0 {
		t.Fatalf("counts wrong: %v", counts)
	}
}

func TestCategoryUpdate(t *testing.T) {
	conn := setupTestDB(t)
	svc := NewCategoryService(conn)
	ctx := context.Background()

	id, err := svc.Create(ctx, "Boissons")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "Autres"); err != nil {
		t.Fatalf("autres: %v", err)
	}

	if err := svc.Update(ctx, id, "Breuvages"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Breuvages" {
		t.Fatalf("rename not applied: %+v", got)
	}
	if err := svc.Update(ctx, id, "Autres"); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("rename onto existing name: %v", err)
	}
	if err := svc.Update(ctx, 9999, "Inconnu"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing category: %v", err)
	}
}

func TestCategoryDeleteBlockedByProducts(t *testing.T) {
	conn := setupTestDB(t)
	svc := NewCategoryService(conn)
	ctx := context.Background()

	id, err := svc.Create(ctx, "Boissons")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	product := models.Product{Name: "Coca", CategoryID: &id, PurchasePrice: 10, SellingPrice: 20}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("product: %v", err)
	}

	if err := svc.Delete(ctx, id); !errors.Is(err, ErrCategoryHasProducts) {
		t.Fatalf("expected ErrCategoryHasProducts, got %v", err)
	}
	if err := conn.Delete(&product).Error; err != nil {
		t.Fatalf("clear product: %v", err)
	}
	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("delete empty category: %v", err)
	}
	if _, err := svc.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted category still readable: %v", err)
	}
}
