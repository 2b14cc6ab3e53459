package wishlist

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/grocery-api/internal/common"
	"github.com/noah-isme/grocery-api/internal/store"
)

// Handler exposes wishlist endpoints.
type Handler struct {
	Svc *Service
}

// Add handles POST /wishlist/{userID}/{product}.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "wishlist service not configured", nil)
		return
	}
	userID := chi.URLParam(r, "userID")
	product := chi.URLParam(r, "product")
	if err := h.Svc.Add(r.Context(), userID, product); err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{
		"message": fmt.Sprintf("%s added to %s's wishlist", store.Key(product), userID),
	})
}

// List handles GET /wishlist/{userID}.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "wishlist service not configured", nil)
		return
	}
	items, err := h.Svc.List(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"wishlist": items})
}
