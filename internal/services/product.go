package services

import (
	"context"
	"math"

	"gorm.io/gorm"

	"github.com/andryfotsiny/gestion/internal/models"
	"github.com/andryfotsiny/gestion/internal/validation"
)

// ProductService handles product CRUD. Creation with an initial quantity
// also writes the synthetic inbound movement, in the same transaction.
type ProductService struct {
	DB *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService { return &ProductService{DB: db} }

// CreateProductInput carries the raw product fields plus the acting user,
// to whom the synthetic initial-stock movement is attributed.
type CreateProductInput struct {
	Name            string
	CategoryID      uint
	PurchasePrice   float64
	SellingPrice    float64
	InitialQuantity int
	MinStockLevel   int
	UserID          uint
}

// Create validates every field (collecting all errors), inserts the product
// and, when InitialQuantity > 0, the "Stock initial" IN movement. Product
// and movement commit or roll back together.
func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (uint, error) {
	vin, err := validation.ValidateProduct(validation.ProductInput{
		Name:            in.Name,
		CategoryID:      in.CategoryID,
		PurchasePrice:   in.PurchasePrice,
		SellingPrice:    in.SellingPrice,
		InitialQuantity: in.InitialQuantity,
		MinStockLevel:   in.MinStockLevel,
	})
	if err != nil {
		return 0, err
	}
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Category{}).Where("id = ?", vin.CategoryID).Count(&count).Error; err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrCategoryNotFound
	}
	var productID uint
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categoryID := vin.CategoryID
		product := models.Product{
			Name:          vin.Name,
			CategoryID:    &categoryID,
			PurchasePrice: vin.PurchasePrice,
			SellingPrice:  vin.SellingPrice,
			MinStockLevel: vin.MinStockLevel,
		}
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		productID = product.ID
		if vin.InitialQuantity > 0 {
			_, err := recordMovementTx(tx, RecordMovementInput{
				ProductID: product.ID,
				UserID:    in.UserID,
				Kind:      models.MovementIn,
				Quantity:  vin.InitialQuantity,
				UnitPrice: vin.PurchasePrice,
				Note:      "Stock initial",
			})
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return productID, nil
}

// UpdateProductInput carries the updatable product fields.
type UpdateProductInput struct {
	Name          string
	CategoryID    uint
	PurchasePrice float64
	SellingPrice  float64
	MinStockLevel int
}

// Update modifies name, category, prices and minimum threshold. Quantity is
// never written here; only the ledger moves it.
func (s *ProductService) Update(ctx context.Context, id uint, in UpdateProductInput) error {
	name, err := validation.ProductName(in.Name)
	if err != nil {
		return err
	}
	if _, err := validation.PositiveNumber(in.PurchasePrice, "Prix d'achat", true); err != nil {
		return err
	}
	if _, err := validation.PositiveNumber(in.SellingPrice, "Prix de vente", true); err != nil {
		return err
	}
	if err := validation.PriceMargin(in.PurchasePrice, in.SellingPrice); err != nil {
		return err
	}
	if _, err := validation.PositiveInteger(in.MinStockLevel, "Stock minimum", true); err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(map[string]any{
		"name":            name,
		"category_id":     in.CategoryID,
		"purchase_price":  in.PurchasePrice,
		"selling_price":   in.SellingPrice,
		"min_stock_level": in.MinStockLevel,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a product that has no ledger history. Products with
// movements are never deleted; their rows back the immutable ledger.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	var movements int64
	if err := s.DB.WithContext(ctx).Model(&models.StockMovement{}).Where("product_id = ?", id).Count(&movements).Error; err != nil {
		return err
	}
	if movements > 0 {
		return ErrProductHasMovements
	}
	res := s.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns every product with its category name, ordered by name.
func (s *ProductService) List(ctx context.Context) ([]models.ProductRecord, error) {
	var rows []models.ProductRecord
	err := s.DB.WithContext(ctx).Table("products p").
		Select(`p.id, p.name, COALESCE(c.name, '') AS category_name, p.purchase_price,
			p.selling_price, p.quantity, p.min_stock_level, p.created_at, p.last_updated`).
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Order("p.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Get returns one product with its category name.
func (s *ProductService) Get(ctx context.Context, id uint) (*models.ProductRecord, error) {
	var row models.ProductRecord
	err := s.DB.WithContext(ctx).Table("products p").
		Select(`p.id, p.name, COALESCE(c.name, '') AS category_name, p.purchase_price,
			p.selling_price, p.quantity, p.min_stock_level, p.created_at, p.last_updated`).
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Where("p.id = ?", id).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, ErrNotFound
	}
	return &row, nil
}

// ProfitMargin returns the margin percentage, rounded to two decimals.
// A non-positive purchase price yields 0 rather than a division error.
func ProfitMargin(purchasePrice, sellingPrice float64) float64 {
	if purchasePrice <= 0 {
		return 0
	}
	margin := (sellingPrice - purchasePrice) / purchasePrice * 100
	return math.Round(margin*100) / 100
}
