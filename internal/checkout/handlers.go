package checkout

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/grocery-api/internal/common"
)

// Handler exposes the checkout endpoint.
type Handler struct {
	Svc *Service
}

// Checkout handles POST /checkout/{userID}?coupon=&use_points=.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	userID := chi.URLParam(r, "userID")
	in := Input{
		CouponCode: r.URL.Query().Get("coupon"),
		UsePoints:  common.ParseBool(r.URL.Query().Get("use_points")),
	}
	receipt, err := h.Svc.Checkout(r.Context(), userID, in)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, receipt)
}
