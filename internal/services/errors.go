package services

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the domain services. Handlers translate them to
// user-facing messages; infrastructure errors pass through wrapped.
var (
	ErrNotFound            = errors.New("not_found")
	ErrProductNotFound     = errors.New("product_not_found")
	ErrCategoryNotFound    = errors.New("category_not_found")
	ErrVendeurNotFound     = errors.New("vendeur_not_found")
	ErrAlreadyExists       = errors.New("already_exists")
	ErrCategoryHasProducts = errors.New("category_has_products")
	ErrProductHasMovements = errors.New("product_has_movements")
	// ErrInvalidCredentials deliberately covers both unknown-user and
	// wrong-password so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidMovement    = errors.New("invalid_movement_kind")
)

// InsufficientStockError rejects an outbound movement that would drive the
// product quantity negative.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Stock insuffisant. Disponible: %d, Demandé: %d", e.Available, e.Requested)
}
