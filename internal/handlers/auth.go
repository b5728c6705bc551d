package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/andryfotsiny/gestion/internal/auth"
	"github.com/andryfotsiny/gestion/internal/httpx"
	"github.com/andryfotsiny/gestion/internal/services"
	"github.com/andryfotsiny/gestion/internal/validation"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{Auth: services.NewAuthService(db)}
}

// Register wires the public endpoints; everything else sits behind
// RequireAuth in the router.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/login", h.login)
	mux.HandleFunc("POST /api/logout", h.logout)
}

// RegisterProtected wires the account-management endpoints.
func (h *AuthHandler) RegisterProtected(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/users", h.list)
	mux.HandleFunc("POST /api/users", h.create)
	mux.HandleFunc("POST /api/users/{id}/status", h.setStatus)
	mux.HandleFunc("GET /api/profile", h.profile)
	mux.HandleFunc("POST /api/profile/password", h.changePassword)
}

type userResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Active   bool   `json:"active"`
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := httpx.Decode(r, &body); err != nil {
		badBody(w, r)
		return
	}
	user, err := h.Auth.Authenticate(r.Context(), strings.ToLower(strings.TrimSpace(body.Username)), body.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusOK, userResponse{ID: user.ID, Username: user.Username, FullName: user.FullName, Active: user.Active})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	httpx.JSON(w, http.StatusOK, map[string]bool{"logged_out": true})
}

func (h *AuthHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.Auth.ListUsers(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse{ID: u.ID, Username: u.Username, FullName: u.FullName, Active: u.Active})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *AuthHandler) create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username        string `json:"username"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
		FullName        string `json:"full_name"`
	}
	if err := httpx.Decode(r, &body); err != nil {
		badBody(w, r)
		return
	}
	id, err := h.Auth.CreateUser(r.Context(), validation.UserInput{
		Username:        body.Username,
		Password:        body.Password,
		ConfirmPassword: body.ConfirmPassword,
		FullName:        body.FullName,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]uint{"id": id})
}

func (h *AuthHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		invalidID(w)
		return
	}
	var body struct {
		Active bool `json:"active"`
	}
	if err := httpx.Decode(r, &body); err != nil {
		badBody(w, r)
		return
	}
	// An admin locking out their own session would leave nobody able to log in.
	if uid, ok := auth.UserIDFromContext(r.Context()); ok && uid == id && !body.Active {
		httpx.JSONError(w, http.StatusConflict, "cannot_deactivate_self", nil)
		return
	}
	if err := h.Auth.SetStatus(r.Context(), id, body.Active); err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"active": body.Active})
}

func (h *AuthHandler) profile(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	user, err := h.Auth.GetUser(r.Context(), uid)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, userResponse{ID: user.ID, Username: user.Username, FullName: user.FullName, Active: user.Active})
}

func (h *AuthHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	var body struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := httpx.Decode(r, &body); err != nil {
		badBody(w, r)
		return
	}
	if err := h.Auth.ChangePassword(r.Context(), uid, body.CurrentPassword, body.NewPassword, body.ConfirmPassword); err != nil {
		respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"changed": true})
}
