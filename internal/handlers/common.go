package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/andryfotsiny/gestion/internal/httpx"
	"github.com/andryfotsiny/gestion/internal/i18n"
	"github.com/andryfotsiny/gestion/internal/middleware"
	"github.com/andryfotsiny/gestion/internal/services"
	"github.com/andryfotsiny/gestion/internal/validation"
)

// respondError translates a service or validation error into the JSON
// envelope: {"error": code, "details": {...}}. The message inside details
// follows the request's language preference.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	lang := middleware.LangFrom(r)

	var violations validation.Violations
	if errors.As(err, &violations) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", violations)
		return
	}
	var fieldErr *validation.Error
	if errors.As(err, &fieldErr) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{fieldErr.Field: fieldErr.Message})
		return
	}
	var insufficient *services.InsufficientStockError
	if errors.As(err, &insufficient) {
		httpx.JSONError(w, http.StatusConflict, "insufficient_stock", map[string]any{
			"message":   insufficient.Error(),
			"available": insufficient.Available,
			"requested": insufficient.Requested,
		})
		return
	}

	code, status := "internal_error", http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		code, status = "invalid_credentials", http.StatusUnauthorized
	case errors.Is(err, services.ErrProductNotFound):
		code, status = "product_not_found", http.StatusNotFound
	case errors.Is(err, services.ErrCategoryNotFound):
		code, status = "category_not_found", http.StatusNotFound
	case errors.Is(err, services.ErrVendeurNotFound):
		code, status = "vendeur_not_found", http.StatusNotFound
	case errors.Is(err, services.ErrNotFound):
		code, status = "not_found", http.StatusNotFound
	case errors.Is(err, services.ErrAlreadyExists):
		code, status = "already_exists", http.StatusConflict
	case errors.Is(err, services.ErrCategoryHasProducts):
		code, status = "category_has_products", http.StatusConflict
	case errors.Is(err, services.ErrProductHasMovements):
		code, status = "product_has_movements", http.StatusConflict
	case errors.Is(err, services.ErrInvalidMovement):
		code, status = "invalid_movement_kind", http.StatusBadRequest
	}
	httpx.JSONError(w, status, code, map[string]string{"message": i18n.T(lang, code)})
}

func badBody(w http.ResponseWriter, r *http.Request) {
	httpx.JSONError(w, http.StatusBadRequest, "invalid_body",
		map[string]string{"message": i18n.T(middleware.LangFrom(r), "invalid_body")})
}

// pathID parses the {id} segment of the route pattern.
func pathID(r *http.Request) (uint, bool) {
	n, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func invalidID(w http.ResponseWriter) {
	httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
}
