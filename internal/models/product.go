package models

import "time"

// Product domain models
type Product struct {
	ID         uint      `gorm:"primaryKey"`
	Name       string    `gorm:"size:200;not null;index"`
	CategoryID *uint     `gorm:"index"` // clé étrangère vers Category, nullable
	Category   *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	// Prix d'achat et prix de vente ; invariant: SellingPrice > PurchasePrice à l'écriture.
	PurchasePrice float64 `gorm:"not null"`
	SellingPrice  float64 `gorm:"not null"`
	// Quantity est le total courant dénormalisé, toujours égal à la somme signée
	// des mouvements du produit. Jamais négatif.
	Quantity      int `gorm:"not null;default:0"`
	MinStockLevel int `gorm:"not null;default:5"`
	CreatedAt     time.Time
	LastUpdated   time.Time `gorm:"column:last_updated;autoUpdateTime"`
}

// ProductRecord is the read model for product listings (category name joined in).
type ProductRecord struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	CategoryName  string    `json:"category_name"`
	PurchasePrice float64   `json:"purchase_price"`
	SellingPrice  float64   `json:"selling_price"`
	Quantity      int       `json:"quantity"`
	MinStockLevel int       `json:"min_stock_level"`
	CreatedAt     time.Time `json:"created_at"`
	LastUpdated   time.Time `json:"last_updated"`
}
