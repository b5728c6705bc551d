package handlers

import (
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/andryfotsiny/gestion/internal/httpx"
	"github.com/andryfotsiny/gestion/internal/services"
	"github.com/andryfotsiny/gestion/internal/validation"
)

type VendeurHandler struct {
	Vendeurs *services.VendeurService
	Stock    *services.StockService
}

func NewVendeurHandler(db *gorm.DB) *VendeurHandler {
	return &VendeurHandler{
		Vendeurs: services.NewVendeurService(db),
		Stock:    services.NewStockService(db),
	}
}

func (h *VendeurHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/vendeurs", h.list)
	mux.HandleFunc("POST /api/vendeurs", h.create)
	mux.HandleFunc("GET /api/vendeurs/stats", h.stats)
	mux.HandleFunc("GET /api/vendeurs/{id}", h.get)
	mux.HandleFunc("PUT /api/vendeurs/{id}", h.update)
	mux.HandleFunc("POST /api/vendeurs/{id}/toggle", h.toggle)
}

type vendeurBody struct {
	Name      string `json:"name"`
	Telephone string `json:"telephone"`
}

func (h *VendeurHandler) list(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	vendeurs, err := h.Vendeurs.List(r.Context(), activeOnly)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, vendeurs)
}

func (h *VendeurHandler) create(w http.ResponseWriter, r *http.Request) {
	var body vendeurBody
	if err := httpx.Decode(r, &body); err != nil {
		badBody(w, r)
		return
	}
	id, err := h.Vendeurs.Create(r.Context(), validation.VendeurInput{Name: body.Name, Telephone: body.Telephone})
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]uint{"id": id})
}

func (h *VendeurHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		invalidID(w)
		return
	}
	vendeur, err := h.Vendeurs.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, vendeur)
}

func (h *VendeurHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		invalidID(w)
		return
	}
	var body vendeurBody
	if err := httpx.Decode(r, &body); err != nil {
		badBody(w, r)
		return
	}
	if err := h.Vendeurs.Update(r.Context(), id, validation.VendeurInput{Name: body.Name, Telephone: body.Telephone}); err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]uint{"id": id})
}

func (h *VendeurHandler) toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		invalidID(w)
		return
	}
	active, err := h.Vendeurs.ToggleStatus(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"active": active})
}

// stats aggregates sales per vendeur, optionally filtered by vendeur and a
// YYYY-MM-DD date range.
func (h *VendeurHandler) stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var vendeurID *uint
	if v := q.Get("vendeur_id"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil || n == 0 {
			invalidID(w)
			return
		}
		id := uint(n)
		vendeurID = &id
	}
	rows, err := h.Stock.VendeurStats(r.Context(), vendeurID, q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}
