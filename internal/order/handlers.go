package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/grocery-api/internal/common"
	"github.com/noah-isme/grocery-api/internal/store"
)

// Handler exposes order history endpoints.
type Handler struct {
	Store *store.Store
}

// List handles GET /orders/{userID}.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order handler not configured", nil)
		return
	}
	receipts, err := h.Store.Orders(chi.URLParam(r, "userID"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"orders": receipts})
}
