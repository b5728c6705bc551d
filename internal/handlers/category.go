package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/andryfotsiny/gestion/internal/httpx"
	"github.com/andryfotsiny/gestion/internal/services"
)

type CategoryHandler struct {
	Categories *services.CategoryService
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{Categories: services.NewCategoryService(db)}
}

func (h *CategoryHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/categories", h.list)
	mux.HandleFunc("POST /api/categories", h.create)
	mux.HandleFunc("GET /api/categories/{id}", h.get)
	mux.HandleFunc("PUT /api/categories/{id}", h.update)
	mux.HandleFunc("DELETE /api/categories/{id}", h.delete)
}

func (h *CategoryHandler) list(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Categories.ListWithCounts(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *CategoryHandler) create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := httpx.Decode(r, &body); err != nil {
		badBody(w, r)
		return
	}
	id, err := h.Categories.Create(r.Context(), body.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]uint{"id": id})
}

func (h *CategoryHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		invalidID(w)
		return
	}
	category, err := h.Categories.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		invalidID(w)
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := httpx.Decode(r, &body); err != nil {
		badBody(w, r)
		return
	}
	if err := h.Categories.Update(r.Context(), id, body.Name); err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]uint{"id": id})
}

func (h *CategoryHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		invalidID(w)
		return
	}
	if err := h.Categories.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]uint{"deleted": id})
}
