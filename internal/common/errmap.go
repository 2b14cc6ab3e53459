package common

import (
	"errors"
	"net/http"

	"github.com/noah-isme/grocery-api/internal/store"
)

// WriteError renders err using the canonical error body. Domain sentinels map
// to fixed codes and statuses; AppError carries its own; anything else is
// reported as a 500 without leaking internals.
func WriteError(w http.ResponseWriter, err error) {
	if err == nil {
		JSONError(w, http.StatusInternalServerError, "INTERNAL", "unknown error", nil)
		return
	}
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		JSONError(w, http.StatusNotFound, "USER_NOT_FOUND", "user not found", nil)
	case errors.Is(err, store.ErrUserExists):
		JSONError(w, http.StatusConflict, "USER_ALREADY_EXISTS", "user already exists", nil)
	case errors.Is(err, store.ErrProductNotFound):
		JSONError(w, http.StatusNotFound, "PRODUCT_NOT_FOUND", "product not found", nil)
	case errors.Is(err, store.ErrInsufficientStock):
		JSONError(w, http.StatusConflict, "INSUFFICIENT_STOCK", "insufficient stock", nil)
	case errors.Is(err, store.ErrItemNotInCart):
		JSONError(w, http.StatusNotFound, "ITEM_NOT_IN_CART", "item not in cart", nil)
	case errors.Is(err, store.ErrEmptyCart):
		JSONError(w, http.StatusBadRequest, "EMPTY_CART", "cart is empty", nil)
	default:
		var appErr *AppError
		if errors.As(err, &appErr) {
			status := appErr.HTTPStatus
			if status == 0 {
				status = http.StatusBadRequest
			}
			code := appErr.Code
			if code == "" {
				code = "BAD_REQUEST"
			}
			JSONError(w, status, code, appErr.Message, appErr.Details)
			return
		}
		JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
