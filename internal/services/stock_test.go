package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/andryfotsiny/gestion/internal/db"
	"github.com/andryfotsiny/gestion/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:svc_" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB) models.User {
	t.Helper()
	user := models.User{Username: "caissier", PasswordHash: "x", FullName: "Caissier Test", Active: true}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	return user
}

func seedProduct(t *testing.T, conn *gorm.DB, quantity int) models.Product {
	t.Helper()
	category := models.Category{Name: "Boissons_" + t.Name()}
	if err := conn.Create(&category).Error; err != nil {
		t.Fatalf("category: %v", err)
	}
	product := models.Product{Name: "Produit Test", CategoryID: &category.ID, PurchasePrice: 2000, SellingPrice: 3000, Quantity: quantity, MinStockLevel: 5}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("product: %v", err)
	}
	return product
}

func ledgerSum(t *testing.T, conn *gorm.DB, productID uint) int {
	t.Helper()
	type row struct{ Total int }
	var r row
	err := conn.Model(&models.StockMovement{}).
		Select("COALESCE(SUM(CASE WHEN kind = ? THEN quantity ELSE -quantity END), 0) AS total", models.MovementIn).
		Where("product_id = ?", productID).
		Scan(&r).Error
	if err != nil {
		t.Fatalf("ledger sum: %v", err)
	}
	return r.Total
}

func TestRecordMovementInAdjustsQuantity(t *testing.T) {
	conn := setupTestDB(t)
	user := seedUser(t, conn)
	product := seedProduct(t, conn, 0)
	svc := NewStockService(conn)

	id, err := svc.RecordMovement(context.Background(), RecordMovementInput{
		ProductID: product.ID, UserID: user.ID, Kind: models.MovementIn, Quantity: 7, UnitPrice: 2000, Note: "réappro",
	})
	if err != nil {
		t.Fatalf("record IN: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected movement id")
	}
	var after models.Product
	if err := conn.First(&after, product.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if after.Quantity != 7 {
		t.Fatalf("expected quantity 7 got %d", after.Quantity)
	}
	var movement models.StockMovement
	if err := conn.First(&movement, id).Error; err != nil {
		t.Fatalf("movement: %v", err)
	}
	if movement.TotalAmount != 14000 {
		t.Fatalf("total amount must be stored at write time: got %v", movement.TotalAmount)
	}
}

func TestRecordMovementOutInsufficientStockLeavesStateUntouched(t *testing.T) {
	conn := setupTestDB(t)
	user := seedUser(t, conn)
	product := seedProduct(t, conn, 10)
	svc := NewStockService(conn)

	_, err := svc.RecordMovement(context.Background(), RecordMovementInput{
		ProductID: product.ID, UserID: user.ID, Kind: models.MovementOut, Quantity: 12, UnitPrice: 3000,
	})
	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficient.Available != 10 || insufficient.Requested != 12 {
		t.Fatalf("error payload wrong: %+v", insufficient)
	}
	var after models.Product
	conn.First(&after, product.ID)
	if after.Quantity != 10 {
		t.Fatalf("quantity must stay 10, got %d", after.Quantity)
	}
	var count int64
	conn.Model(&models.StockMovement{}).Where("product_id = ?", product.ID).Count(&count)
	if count != 0 {
		t.Fatalf("no movement row may exist after a rejected sale, got %d", count)
	}
}

func TestQuantityEqualsSignedLedgerSum(t *testing.T) {
	conn := setupTestDB(t)
	user := seedUser(t, conn)
	product := seedProduct(t, conn, 0)
	svc := NewStockService(conn)
	ctx := context.Background()

	steps := []struct {
		kind string
		qty  int
	}{
		{models.MovementIn, 20},
		{models.MovementOut, 5},
		{models.MovementIn, 3},
		{models.MovementOut, 8},
	}
	for _, step := range steps {
		if _, err := svc.RecordMovement(ctx, RecordMovementInput{
			ProductID: product.ID, UserID: user.ID, Kind: step.kind, Quantity: step.qty, UnitPrice: 1000,
		}); err != nil {
			t.Fatalf("%s %d: %v", step.kind, step.qty, err)
		}
		var current models.Product
		conn.First(&current, product.ID)
		if got := ledgerSum(t, conn, product.ID); got != current.Quantity {
			t.Fatalf("cached quantity %d diverged from ledger sum %d", current.Quantity, got)
		}
	}
	var final models.Product
	conn.First(&final, product.ID)
	if final.Quantity != 10 {
		t.Fatalf("expected final quantity 10 got %d", final.Quantity)
	}
}

func TestRecordMovementValidation(t *testing.T) {
	conn := setupTestDB(t)
	user := seedUser(t, conn)
	product := seedProduct(t, conn, 5)
	svc := NewStockService(conn)
	ctx := context.Background()

	if _, err := svc.RecordMovement(ctx, RecordMovementInput{ProductID: product.ID, UserID: user.ID, Kind: "ADJUST", Quantity: 1, UnitPrice: 1}); !errors.Is(err, ErrInvalidMovement) {
		t.Fatalf("unknown kind must fail, got %v", err)
	}
	if _, err := svc.RecordMovement(ctx, RecordMovementInput{ProductID: product.ID, UserID: user.ID, Kind: models.MovementIn, Quantity: 0, UnitPrice: 1}); err == nil {
		t.Fatalf("zero quantity must fail")
	}
	if _, err := svc.RecordMovement(ctx, RecordMovementInput{ProductID: product.ID, UserID: user.ID, Kind: models.MovementIn, Quantity: 1, UnitPrice: -2}); err == nil {
		t.Fatalf("negative unit price must fail")
	}
	if _, err := svc.RecordMovement(ctx, RecordMovementInput{ProductID: 9999, UserID: user.ID, Kind: models.MovementIn, Quantity: 1, UnitPrice: 1}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("missing product must fail, got %v", err)
	}
}

func TestListMovementsNewestFirstWithNames(t *testing.T) {
	conn := setupTestDB(t)
	user := seedUser(t, conn)
	product := seedProduct(t, conn, 0)
	vendeur := models.Vendeur{Name: "Rakoto", Active: true}
	if err := conn.Create(&vendeur).Error; err != nil {
		t.Fatalf("vendeur: %v", err)
	}
	svc := NewStockService(conn)
	ctx := context.Background()

	if _, err := svc.RecordMovement(ctx, RecordMovementInput{ProductID: product.ID, UserID: user.ID, Kind: models.MovementIn, Quantity: 10, UnitPrice: 2000}); err != nil {
		t.Fatalf("in: %v", err)
	}
	if _, err := svc.RecordMovement(ctx, RecordMovementInput{ProductID: product.ID, UserID: user.ID, VendeurID: &vendeur.ID, Kind: models.MovementOut, Quantity: 4, UnitPrice: 3000}); err != nil {
		t.Fatalf("out: %v", err)
	}

	rows, err := svc.ListMovements(ctx, nil, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 movements got %d", len(rows))
	}
	if rows[0].Kind != models.MovementOut {
		t.Fatalf("newest first: expected OUT first, got %s", rows[0].Kind)
	}
	if rows[0].VendeurName != "Rakoto" || rows[0].UserName != "Caissier Test" || rows[0].ProductName != "Produit Test" {
		t.Fatalf("joined names wrong: %+v", rows[0])
	}
	if rows[1].VendeurName != "" {
		t.Fatalf("IN movement has no vendeur, got %q", rows[1].VendeurName)
	}

	limited, err := svc.ListMovements(ctx, &product.ID, 1)
	if err != nil {
		t.Fatalf("limited list: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("limit not applied: %d", len(limited))
	}
}

func TestLowStock(t *testing.T) {
	conn := setupTestDB(t)
	low := seedProduct(t, conn, 2)       // min 5
	other := models.Product{Name: "Plein", PurchasePrice: 100, SellingPrice: 200, Quantity: 50, MinStockLevel: 5}
	if err := conn.Create(&other).Error; err != nil {
		t.Fatalf("other: %v", err)
	}
	svc := NewStockService(conn)
	rows, err := svc.LowStock(context.Background())
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != low.ID {
		t.Fatalf("expected only the depleted product, got %+v", rows)
	}
}

func TestSalesSummary(t *testing.T) {
	conn := setupTestDB(t)
	user := seedUser(t, conn)
	product := seedProduct(t, conn, 0)
	vendeur := models.Vendeur{Name: "Vola", Active: true}
	if err := conn.Create(&vendeur).Error; err != nil {
		t.Fatalf("vendeur: %v", err)
	}
	svc := NewStockService(conn)
	ctx := context.Background()

	if _, err := svc.RecordMovement(ctx, RecordMovementInput{ProductID: product.ID, UserID: user.ID, Kind: models.MovementIn, Quantity: 20, UnitPrice: 2000}); err != nil {
		t.Fatalf("in: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := svc.RecordMovement(ctx, RecordMovementInput{ProductID: product.ID, UserID: user.ID, VendeurID: &vendeur.ID, Kind: models.MovementOut, Quantity: 3, UnitPrice: 3000}); err != nil {
			t.Fatalf("out: %v", err)
		}
	}

	rows, err := svc.SalesSummary(ctx, SalesFilter{})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one aggregated row, got %d", len(rows))
	}
	row := rows[0]
	if row.TotalQuantity != 6 {
		t.Fatalf("expected 6 sold, got %d", row.TotalQuantity)
	}
	if row.TotalSales != 18000 {
		t.Fatalf("expected revenue 18000, got %v", row.TotalSales)
	}
	// Cost and profit use the current purchase price (2000).
	if row.TotalCost != 12000 || row.Profit != 6000 {
		t.Fatalf("cost/profit wrong: cost=%v profit=%v", row.TotalCost, row.Profit)
	}
	if row.VendeurName != "Vola" {
		t.Fatalf("vendeur name missing: %+v", row)
	}

	// IN movements never count as sales.
	none, err := svc.SalesSummary(ctx, SalesFilter{VendeurID: &user.ID, StartDate: "2000-01-01", EndDate: "2000-01-02"})
	if err != nil {
		t.Fatalf("filtered summary: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no rows outside the range, got %d", len(none))
	}

	if _, err := svc.SalesSummary(ctx, SalesFilter{StartDate: "2024-02-01", EndDate: "2024-01-01"}); err == nil {
		t.Fatalf("inverted date range must fail")
	}
}

func TestVendeurStatsIncludesIdleVendeurs(t *testing.T) {
	conn := setupTestDB(t)
	user := seedUser(t, conn)
	product := seedProduct(t, conn, 0)
	seller := models.Vendeur{Name: "Actif", Active: true}
	idle := models.Vendeur{Name: "Sans vente", Active: true}
	if err := conn.Create(&seller).Error; err != nil {
		t.Fatalf("seller: %v", err)
	}
	if err := conn.Create(&idle).Error; err != nil {
		t.Fatalf("idle: %v", err)
	}
	svc := NewStockService(conn)
	ctx := context.Background()

	if _, err := svc.RecordMovement(ctx, RecordMovementInput{ProductID: product.ID, UserID: user.ID, Kind: models.MovementIn, Quantity: 10, UnitPrice: 2000}); err != nil {
		t.Fatalf("in: %v", err)
	}
	if _, err := svc.RecordMovement(ctx, RecordMovementInput{ProductID: product.ID, UserID: user.ID, VendeurID: &seller.ID, Kind: models.MovementOut, Quantity: 2, UnitPrice: 3000}); err != nil {
		t.Fatalf("out: %v", err)
	}

	rows, err := svc.VendeurStats(ctx, nil, "", "")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected both vendeurs, got %d", len(rows))
	}
	if rows[0].VendeurName != "Actif" || rows[0].TotalTransactions != 1 || rows[0].TotalSales != 6000 {
		t.Fatalf("top seller row wrong: %+v", rows[0])
	}
	if rows[1].VendeurName != "Sans vente" || rows[1].TotalTransactions != 0 || rows[1].TotalSales != 0 {
		t.Fatalf("idle vendeur must appear zeroed: %+v", rows[1])
	}
}

func TestActiveVendeur(t *testing.T) {
	conn := setupTestDB(t)
	user := seedUser(t, conn)
	product := seedProduct(t, conn, 0)
	svc := NewStockService(conn)
	ctx := context.Background()

	none, err := svc.ActiveVendeur(ctx)
	if err != nil {
		t.Fatalf("empty: %v", err)
	}
	if none != nil {
		t.Fatalf("expected nil with no sales, got %+v", none)
	}

	vendeur := models.Vendeur{Name: "Dernier", Active: true}
	if err := conn.Create(&vendeur).Error; err != nil {
		t.Fatalf("vendeur: %v", err)
	}
	if _, err := svc.RecordMovement(ctx, RecordMovementInput{ProductID: product.ID, UserID: user.ID, Kind: models.MovementIn, Quantity: 5, UnitPrice: 100}); err != nil {
		t.Fatalf("in: %v", err)
	}
	if _, err := svc.RecordMovement(ctx, RecordMovementInput{ProductID: product.ID, UserID: user.ID, VendeurID: &vendeur.ID, Kind: models.MovementOut, Quantity: 1, UnitPrice: 200}); err != nil {
		t.Fatalf("out: %v", err)
	}
	got, err := svc.ActiveVendeur(ctx)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if got == nil || got.ID != vendeur.ID {
		t.Fatalf("expected vendeur %d, got %+v", vendeur.ID, got)
	}
}
