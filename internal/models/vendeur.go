package models

import "time"

// Vendeur est le vendeur attribué aux sorties de stock (ventes).
// Indépendant de l'utilisateur authentifié ; jamais supprimé, seulement désactivé.
type Vendeur struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Telephone string `gorm:"size:20"` // normalisé (format Madagascar), optionnel
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
}

// VendeurStats aggregates OUT movements per vendeur.
// Cost and profit use the product's current purchase price.
type VendeurStats struct {
	VendeurName       string  `json:"vendeur_name"`
	TotalTransactions int64   `json:"total_transactions"`
	TotalQuantitySold int64   `json:"total_quantity_sold"`
	TotalSales        float64 `json:"total_sales"`
	TotalCost         float64 `json:"total_cost"`
	TotalProfit       float64 `json:"total_profit"`
}
