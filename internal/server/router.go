package server

import (
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andryfotsiny/gestion/internal/auth"
	"github.com/andryfotsiny/gestion/internal/handlers"
	"github.com/andryfotsiny/gestion/internal/httpx"
	"github.com/andryfotsiny/gestion/internal/middleware"
	"github.com/andryfotsiny/gestion/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares
// applied.
func New(db *gorm.DB, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// Sessions of deactivated or deleted users are rejected on every request.
	authSvc := services.NewAuthService(db)
	auth.SetUserVerifier(authSvc.IsActive)

	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	//revive:enable:unused-parameter

	authHandler := handlers.NewAuthHandler(db)
	authHandler.Register(mux)

	protected := http.NewServeMux()
	authHandler.RegisterProtected(protected)
	handlers.NewCategoryHandler(db).Register(protected)
	handlers.NewVendeurHandler(db).Register(protected)
	handlers.NewProductHandler(db).Register(protected)
	handlers.NewStockHandler(db).Register(protected)
	handlers.NewReportsHandler(db).Register(protected)
	handlers.NewExportHandler(db).Register(protected)

	// /api/login and /api/logout match their exact patterns above; every
	// other /api/ path falls through to the gated mux.
	mux.Handle("/api/", auth.RequireAuth(protected))

	handler := middleware.AccessLog(log)(mux)
	handler = middleware.Recover(log)(handler)
	handler = auth.Middleware(handler)
	return middleware.Prefs(handler)
}
