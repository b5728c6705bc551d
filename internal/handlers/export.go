package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/andryfotsiny/gestion/internal/export"
	"github.com/andryfotsiny/gestion/internal/httpx"
	"github.com/andryfotsiny/gestion/internal/services"
	"github.com/andryfotsiny/gestion/internal/validation"
)

type ExportHandler struct {
	Products *services.ProductService
	Vendeurs *services.VendeurService
	Stock    *services.StockService
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{
		Products: services.NewProductService(db),
		Vendeurs: services.NewVendeurService(db),
		Stock:    services.NewStockService(db),
	}
}

func (h *ExportHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/export/{entity}", h.export)
}

func (h *ExportHandler) export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatCSV
	}
	switch format {
	case export.FormatCSV, export.FormatTXT, export.FormatJSON, export.FormatHTML, export.FormatXLSX:
	default:
		httpx.JSONError(w, http.StatusBadRequest, "unsupported_format", nil)
		return
	}
	d, err := h.dataset(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if d == nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}

	filename := validation.SanitizeFilename(
		d.Title + "_" + time.Now().Format("20060102_150405") + "." + format)
	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	// Past this point the response is committed; a mid-stream failure can
	// only be logged by the access middleware.
	_ = export.Write(w, format, *d)
}

func (h *ExportHandler) dataset(r *http.Request) (*export.Dataset, error) {
	ctx := r.Context()
	switch r.PathValue("entity") {
	case "products":
		rows, err := h.Products.List(ctx)
		if err != nil {
			return nil, err
		}
		d := export.Dataset{
			Title:   "Liste des produits",
			Headers: []string{"ID", "Nom", "Catégorie", "Prix d'achat", "Prix de vente", "Quantité", "Seuil minimum"},
		}
		for _, p := range rows {
			d.Rows = append(d.Rows, []string{
				strconv.FormatUint(uint64(p.ID), 10), p.Name, p.CategoryName,
				formatMoney(p.PurchasePrice), formatMoney(p.SellingPrice),
				strconv.Itoa(p.Quantity), strconv.Itoa(p.MinStockLevel),
			})
		}
		return &d, nil
	case "vendeurs":
		rows, err := h.Vendeurs.List(ctx, false)
		if err != nil {
			return nil, err
		}
		d := export.Dataset{
			Title:   "Liste des vendeurs",
			Headers: []string{"ID", "Nom", "Téléphone", "Actif", "Créé le"},
		}
		for _, v := range rows {
			active := "Non"
			if v.Active {
				active = "Oui"
			}
			d.Rows = append(d.Rows, []string{
				strconv.FormatUint(uint64(v.ID), 10), v.Name, v.Telephone, active,
				v.CreatedAt.Format("2006-01-02"),
			})
		}
		return &d, nil
	case "movements":
		rows, err := h.Stock.ListMovements(ctx, nil, 0)
		if err != nil {
			return nil, err
		}
		d := export.Dataset{
			Title:   "Mouvements de stock",
			Headers: []string{"ID", "Produit", "Type", "Quantité", "Prix unitaire", "Montant", "Utilisateur", "Vendeur", "Note", "Date"},
		}
		for _, m := range rows {
			d.Rows = append(d.Rows, []string{
				strconv.FormatUint(uint64(m.ID), 10), m.ProductName, m.Kind,
				strconv.Itoa(m.Quantity), formatMoney(m.UnitPrice), formatMoney(m.TotalAmount),
				m.UserName, m.VendeurName, m.Note,
				m.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return &d, nil
	case "sales":
		q := r.URL.Query()
		rows, err := h.Stock.SalesSummary(ctx, services.SalesFilter{
			StartDate: q.Get("start_date"),
			EndDate:   q.Get("end_date"),
		})
		if err != nil {
			return nil, err
		}
		d := export.Dataset{
			Title:   "Rapport des ventes",
			Headers: []string{"Date", "Produit", "Vendeur", "Quantité", "Ventes", "Coût", "Bénéfice"},
		}
		for _, s := range rows {
			d.Rows = append(d.Rows, []string{
				s.Date, s.ProductName, s.VendeurName,
				strconv.FormatInt(s.TotalQuantity, 10),
				formatMoney(s.TotalSales), formatMoney(s.TotalCost), formatMoney(s.Profit),
			})
		}
		return &d, nil
	}
	return nil, nil
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
