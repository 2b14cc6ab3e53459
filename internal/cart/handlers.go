package cart

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/grocery-api/internal/common"
)

// Handler exposes cart endpoints.
type Handler struct {
	Svc *Service
}

// Add handles POST /cart/{userID}/{product}/{qty}.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	userID := chi.URLParam(r, "userID")
	product := chi.URLParam(r, "product")
	qty, err := strconv.ParseInt(chi.URLParam(r, "qty"), 10, 64)
	if err != nil || qty <= 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "quantity must be a positive integer", nil)
		return
	}
	line, err := h.Svc.Add(r.Context(), userID, product, qty)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{
		"message": fmt.Sprintf("%d %s %s added to cart", line.Qty, line.Unit, line.Product),
		"item":    line,
	})
}

// Get handles GET /cart/{userID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	view, err := h.Svc.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, view)
}

// Remove handles DELETE /cart/{userID}/{product}.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	userID := chi.URLParam(r, "userID")
	product := chi.URLParam(r, "product")
	line, err := h.Svc.Remove(r.Context(), userID, product)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("%s removed from cart", line.Product),
	})
}
