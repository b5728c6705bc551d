package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/andryfotsiny/gestion/internal/auth"
	"github.com/andryfotsiny/gestion/internal/httpx"
	"github.com/andryfotsiny/gestion/internal/services"
)

type ProductHandler struct {
	Products *services.ProductService
}

func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{Products: services.NewProductService(db)}
}

func (h *ProductHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.list)
	mux.HandleFunc("POST /api/products", h.create)
	mux.HandleFunc("GET /api/products/{id}", h.get)
	mux.HandleFunc("PUT /api/products/{id}", h.update)
	mux.HandleFunc("DELETE /api/products/{id}", h.delete)
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Products.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name            string  `json:"name"`
		CategoryID      uint    `json:"category_id"`
		PurchasePrice   float64 `json:"purchase_price"`
		SellingPrice    float64 `json:"selling_price"`
		InitialQuantity int     `json:"initial_quantity"`
		MinStockLevel   int     `json:"min_stock_level"`
	}
	if err := httpx.Decode(r, &body); err != nil {
		badBody(w, r)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := h.Products.Create(r.Context(), services.CreateProductInput{
		Name:            body.Name,
		CategoryID:      body.CategoryID,
		PurchasePrice:   body.PurchasePrice,
		SellingPrice:    body.SellingPrice,
		InitialQuantity: body.InitialQuantity,
		MinStockLevel:   body.MinStockLevel,
		UserID:          uid,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]uint{"id": id})
}

func (h *ProductHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		invalidID(w)
		return
	}
	row, err := h.Products.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"product": row,
		"margin":  services.ProfitMargin(row.PurchasePrice, row.SellingPrice),
	})
}

func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		invalidID(w)
		return
	}
	var body struct {
		Name          string  `json:"name"`
		CategoryID    uint    `json:"category_id"`
		PurchasePrice float64 `json:"purchase_price"`
		SellingPrice  float64 `json:"selling_price"`
		MinStockLevel int     `json:"min_stock_level"`
	}
	if err := httpx.Decode(r, &body); err != nil {
		badBody(w, r)
		return
	}
	err := h.Products.Update(r.Context(), id, services.UpdateProductInput{
		Name:          body.Name,
		CategoryID:    body.CategoryID,
		PurchasePrice: body.PurchasePrice,
		SellingPrice:  body.SellingPrice,
		MinStockLevel: body.MinStockLevel,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]uint{"id": id})
}

func (h *ProductHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		invalidID(w)
		return
	}
	if err := h.Products.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]uint{"deleted": id})
}
