package main

// Helper: go run ./cmd/server -recount-quantities
// Recomputes every product's cached quantity from the signed sum of its
// movements. Useful after restoring a backup or editing the database by hand.

import (
	"flag"
	"log"

	"github.com/andryfotsiny/gestion/internal/config"
	"github.com/andryfotsiny/gestion/internal/db"
	"github.com/andryfotsiny/gestion/internal/models"
)

var recountFlag = flag.Bool("recount-quantities", false, "Recompute product quantities from the movement ledger and exit")

func runRecountQuantities(cfg config.Config) {
	conn, err := db.ConnectAndMigrate(dbOptions(cfg))
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	var products []models.Product
	if err := conn.Find(&products).Error; err != nil {
		log.Fatalf("list products: %v", err)
	}
	updated := 0
	for _, p := range products {
		type row struct{ Total int }
		var r row
		err := conn.Model(&models.StockMovement{}).
			Select("COALESCE(SUM(CASE WHEN kind = ? THEN quantity ELSE -quantity END), 0) AS total", models.MovementIn).
			Where("product_id = ?", p.ID).
			Scan(&r).Error
		if err != nil {
			log.Printf("product %d: %v", p.ID, err)
			continue
		}
		if r.Total == p.Quantity {
			continue
		}
		if err := conn.Model(&models.Product{}).Where("id = ?", p.ID).Update("quantity", r.Total).Error; err == nil {
			log.Printf("product %d: %d -> %d", p.ID, p.Quantity, r.Total)
			updated++
		}
	}
	log.Printf("Recount done: %d updated", updated)
}
