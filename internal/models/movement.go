package models

import "time"

// Movement kinds. A movement never changes kind after creation.
const (
	MovementIn  = "IN"  // entrée (réapprovisionnement)
	MovementOut = "OUT" // sortie (vente)
)

// StockMovement est une écriture immuable du grand livre de stock : jamais
// modifiée ni supprimée. Sa création ajuste atomiquement Product.Quantity
// (+Quantity pour IN, -Quantity pour OUT).
type StockMovement struct {
	ID        uint     `gorm:"primaryKey"`
	ProductID uint     `gorm:"not null;index"`
	Product   Product  `gorm:"foreignKey:ProductID"`
	UserID    uint     `gorm:"not null;index"` // qui a enregistré le mouvement
	User      User     `gorm:"foreignKey:UserID"`
	VendeurID *uint    `gorm:"index"` // renseigné uniquement pour les ventes
	Vendeur   *Vendeur `gorm:"foreignKey:VendeurID"`
	Kind      string   `gorm:"size:20;not null"`
	Quantity  int      `gorm:"not null"` // toujours strictement positif
	UnitPrice float64  `gorm:"not null"`
	// TotalAmount = Quantity * UnitPrice, figé à l'écriture (jamais recalculé).
	TotalAmount float64 `gorm:"not null"`
	Note        string  `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"index"`
}

// MovementRecord is the read model for ledger listings, with display names joined in.
type MovementRecord struct {
	ID          uint      `json:"id"`
	ProductID   uint      `json:"product_id"`
	ProductName string    `json:"product_name"`
	UserName    string    `json:"user_name"`
	VendeurName string    `json:"vendeur_name"`
	Kind        string    `json:"kind"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	TotalAmount float64   `json:"total_amount"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}

// SalesSummaryRow aggregates OUT movements by day x product x vendeur.
// Cost and profit use the product's current purchase price, not the price
// effective at sale time.
type SalesSummaryRow struct {
	Date          string  `json:"date"`
	ProductName   string  `json:"product_name"`
	VendeurName   string  `json:"vendeur_name"`
	TotalQuantity int64   `json:"total_quantity"`
	TotalSales    float64 `json:"total_sales"`
	TotalCost     float64 `json:"total_cost"`
	Profit        float64 `json:"profit"`
}
