package user

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/grocery-api/internal/common"
)

// Handler exposes account endpoints.
type Handler struct {
	Svc *Service
}

// Create handles POST /users/{id}?admin=.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "user service not configured", nil)
		return
	}
	id := chi.URLParam(r, "id")
	admin := common.ParseBool(r.URL.Query().Get("admin"))
	if err := h.Svc.Create(r.Context(), id, admin); err != nil {
		common.WriteError(w, err)
		return
	}
	role := "Customer"
	if admin && h.Svc.AllowAdmin {
		role = "Admin"
	}
	common.JSON(w, http.StatusCreated, map[string]any{
		"message": fmt.Sprintf("%s %s created successfully", role, id),
	})
}

// Profile handles GET /users/{id}.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "user service not configured", nil)
		return
	}
	profile, err := h.Svc.Profile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, profile)
}
