package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/andryfotsiny/gestion/internal/models"
	"github.com/andryfotsiny/gestion/internal/validation"
)

// StockService owns the movement ledger and the cached product quantity.
// Invariant: Product.Quantity always equals the signed sum of the product's
// movements and never goes negative.
type StockService struct {
	DB *gorm.DB
}

func NewStockService(db *gorm.DB) *StockService { return &StockService{DB: db} }

// RecordMovementInput describes one inbound or outbound ledger entry.
type RecordMovementInput struct {
	ProductID uint
	UserID    uint
	VendeurID *uint // ventes uniquement
	Kind      string
	Quantity  int
	UnitPrice float64
	Note      string
}

// RecordMovement appends one immutable movement and adjusts the product's
// cached quantity. The product re-read, the stock-sufficiency check and both
// writes share a single transaction, so two concurrent sales cannot both
// pass the check, and a movement row can never exist without its matching
// quantity change.
func (s *StockService) RecordMovement(ctx context.Context, in RecordMovementInput) (uint, error) {
	if in.Kind != models.MovementIn && in.Kind != models.MovementOut {
		return 0, ErrInvalidMovement
	}
	if _, err := validation.PositiveInteger(in.Quantity, "Quantité", false); err != nil {
		return 0, err
	}
	if _, err := validation.PositiveNumber(in.UnitPrice, "Prix unitaire", true); err != nil {
		return 0, err
	}
	var movementID uint
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e error
		movementID, e = recordMovementTx(tx, in)
		return e
	})
	if err != nil {
		return 0, err
	}
	return movementID, nil
}

// recordMovementTx applies the ledger write inside an existing transaction.
// Callers validate the input beforehand.
func recordMovementTx(tx *gorm.DB, in RecordMovementInput) (uint, error) {
	var product models.Product
	if err := tx.First(&product, in.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrProductNotFound
		}
		return 0, err
	}
	if in.Kind == models.MovementOut && product.Quantity < in.Quantity {
		return 0, &InsufficientStockError{Available: product.Quantity, Requested: in.Quantity}
	}
	movement := models.StockMovement{
		ProductID:   in.ProductID,
		UserID:      in.UserID,
		VendeurID:   in.VendeurID,
		Kind:        in.Kind,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		TotalAmount: float64(in.Quantity) * in.UnitPrice,
		Note:        in.Note,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return 0, err
	}
	delta := in.Quantity
	if in.Kind == models.MovementOut {
		delta = -delta
	}
	if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error; err != nil {
		return 0, err
	}
	return movement.ID, nil
}

// ListMovements returns ledger entries newest-first with product, user and
// vendeur display names joined in, optionally filtered to one product and
// capped at limit rows.
func (s *StockService) ListMovements(ctx context.Context, productID *uint, limit int) ([]models.MovementRecord, error) {
	q := s.DB.WithContext(ctx).Table("stock_movements sm").
		Select(`sm.id, sm.product_id, p.name AS product_name, u.full_name AS user_name,
			COALESCE(v.name, '') AS vendeur_name, sm.kind, sm.quantity, sm.unit_price,
			sm.total_amount, sm.note, sm.created_at`).
		Joins("JOIN products p ON p.id = sm.product_id").
		Joins("JOIN users u ON u.id = sm.user_id").
		Joins("LEFT JOIN vendeurs v ON v.id = sm.vendeur_id").
		Order("sm.created_at DESC, sm.id DESC")
	if productID != nil {
		q = q.Where("sm.product_id = ?", *productID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []models.MovementRecord
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// LowStock returns products whose quantity has fallen to or below their
// minimum threshold, most depleted first.
func (s *StockService) LowStock(ctx context.Context) ([]models.ProductRecord, error) {
	var rows []models.ProductRecord
	err := s.DB.WithContext(ctx).Table("products p").
		Select(`p.id, p.name, COALESCE(c.name, '') AS category_name, p.purchase_price,
			p.selling_price, p.quantity, p.min_stock_level, p.created_at, p.last_updated`).
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Where("p.quantity <= p.min_stock_level").
		Order("p.quantity ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SalesFilter narrows a sales report. Dates are YYYY-MM-DD, inclusive.
type SalesFilter struct {
	StartDate string
	EndDate   string
	VendeurID *uint
}

// SalesSummary aggregates OUT movements by day x product x vendeur.
// Cost and profit use the product's current purchase price, not the price
// effective at sale time.
func (s *StockService) SalesSummary(ctx context.Context, f SalesFilter) ([]models.SalesSummaryRow, error) {
	if err := validation.DateRange(f.StartDate, f.EndDate); err != nil {
		return nil, err
	}
	q := s.DB.WithContext(ctx).Table("stock_movements sm").
		Select(`DATE(sm.created_at) AS date, p.name AS product_name,
			COALESCE(v.name, '') AS vendeur_name,
			SUM(sm.quantity) AS total_quantity,
			SUM(sm.total_amount) AS total_sales,
			SUM(sm.quantity * p.purchase_price) AS total_cost,
			SUM(sm.total_amount - (sm.quantity * p.purchase_price)) AS profit`).
		Joins("JOIN products p ON p.id = sm.product_id").
		Joins("LEFT JOIN vendeurs v ON v.id = sm.vendeur_id").
		Where("sm.kind = ?", models.MovementOut)
	if f.StartDate != "" {
		q = q.Where("DATE(sm.created_at) >= ?", f.StartDate)
	}
	if f.EndDate != "" {
		q = q.Where("DATE(sm.created_at) <= ?", f.EndDate)
	}
	if f.VendeurID != nil {
		q = q.Where("sm.vendeur_id = ?", *f.VendeurID)
	}
	var rows []models.SalesSummaryRow
	err := q.Group("DATE(sm.created_at), sm.product_id, sm.vendeur_id").
		Order("date DESC, product_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// VendeurStats aggregates sales per vendeur: transaction count, quantity
// sold, revenue, cost and profit (current purchase price, see SalesSummary).
// Vendeurs without sales appear with zeroed figures.
func (s *StockService) VendeurStats(ctx context.Context, vendeurID *uint, startDate, endDate string) ([]models.VendeurStats, error) {
	if err := validation.DateRange(startDate, endDate); err != nil {
		return nil, err
	}
	q := s.DB.WithContext(ctx).Table("vendeurs v").
		Select(`v.name AS vendeur_name,
			COUNT(sm.id) AS total_transactions,
			COALESCE(SUM(sm.quantity), 0) AS total_quantity_sold,
			COALESCE(SUM(sm.total_amount), 0) AS total_sales,
			COALESCE(SUM(sm.quantity * p.purchase_price), 0) AS total_cost,
			COALESCE(SUM(sm.total_amount - (sm.quantity * p.purchase_price)), 0) AS total_profit`).
		Joins("LEFT JOIN stock_movements sm ON sm.vendeur_id = v.id AND sm.kind = ?", models.MovementOut).
		Joins("LEFT JOIN products p ON p.id = sm.product_id")
	if vendeurID != nil {
		q = q.Where("v.id = ?", *vendeurID)
	}
	if startDate != "" {
		q = q.Where("DATE(sm.created_at) >= ?", startDate)
	}
	if endDate != "" {
		q = q.Where("DATE(sm.created_at) <= ?", endDate)
	}
	var rows []models.VendeurStats
	err := q.Group("v.id, v.name").
		Order("total_sales DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ActiveVendeur returns the active vendeur most recently attributed to a
// sale, nil when no active vendeur has sold anything yet.
func (s *StockService) ActiveVendeur(ctx context.Context) (*models.Vendeur, error) {
	var vendeur models.Vendeur
	err := s.DB.WithContext(ctx).Table("vendeurs v").
		Select("v.*").
		Joins("JOIN stock_movements sm ON sm.vendeur_id = v.id").
		Where("v.active = ?", true).
		Order("sm.created_at DESC").
		Limit(1).
		Scan(&vendeur).Error
	if err != nil {
		return nil, err
	}
	if vendeur.ID == 0 {
		return nil, nil
	}
	return &vendeur, nil
}
