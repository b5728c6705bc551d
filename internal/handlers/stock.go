package handlers

import (
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/andryfotsiny/gestion/internal/auth"
	"github.com/andryfotsiny/gestion/internal/httpx"
	"github.com/andryfotsiny/gestion/internal/models"
	"github.com/andryfotsiny/gestion/internal/services"
)

type StockHandler struct {
	Stock *services.StockService
}

func NewStockHandler(db *gorm.DB) *StockHandler {
	return &StockHandler{Stock: services.NewStockService(db)}
}

func (h *StockHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/stock/in", h.stockIn)
	mux.HandleFunc("POST /api/stock/out", h.stockOut)
	mux.HandleFunc("GET /api/movements", h.movements)
}

type movementBody struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	VendeurID *uint   `json:"vendeur_id"`
	Note      string  `json:"note"`
}

func (h *StockHandler) stockIn(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, models.MovementIn)
}

func (h *StockHandler) stockOut(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, models.MovementOut)
}

func (h *StockHandler) record(w http.ResponseWriter, r *http.Request, kind string) {
	var body movementBody
	if err := httpx.Decode(r, &body); err != nil {
		badBody(w, r)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	id, err := h.Stock.RecordMovement(r.Context(), services.RecordMovementInput{
		ProductID: body.ProductID,
		UserID:    uid,
		VendeurID: body.VendeurID,
		Kind:      kind,
		Quantity:  body.Quantity,
		UnitPrice: body.UnitPrice,
		Note:      body.Note,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]uint{"id": id})
}

func (h *StockHandler) movements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var productID *uint
	if v := q.Get("product_id"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil || n == 0 {
			invalidID(w)
			return
		}
		id := uint(n)
		productID = &id
	}
	limit := 0
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	rows, err := h.Stock.ListMovements(r.Context(), productID, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}
