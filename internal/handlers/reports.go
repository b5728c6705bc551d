package handlers

import (
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/andryfotsiny/gestion/internal/httpx"
	"github.com/andryfotsiny/gestion/internal/services"
)

type ReportsHandler struct {
	Stock *services.StockService
}

func NewReportsHandler(db *gorm.DB) *ReportsHandler {
	return &ReportsHandler{Stock: services.NewStockService(db)}
}

func (h *ReportsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/reports/low-stock", h.lowStock)
	mux.HandleFunc("GET /api/reports/sales", h.sales)
	mux.HandleFunc("GET /api/reports/active-vendeur", h.activeVendeur)
}

func (h *ReportsHandler) lowStock(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Stock.LowStock(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *ReportsHandler) sales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := services.SalesFilter{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}
	if v := q.Get("vendeur_id"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil || n == 0 {
			invalidID(w)
			return
		}
		id := uint(n)
		filter.VendeurID = &id
	}
	rows, err := h.Stock.SalesSummary(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

// activeVendeur answers "who sold last": the active vendeur attributed to
// the most recent sale, or null.
func (h *ReportsHandler) activeVendeur(w http.ResponseWriter, r *http.Request) {
	vendeur, err := h.Stock.ActiveVendeur(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, vendeur)
}
