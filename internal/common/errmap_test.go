package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/noah-isme/grocery-api/internal/store"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error.Code, body.Error.Message
}

func TestWriteErrorSentinelMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{store.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{store.ErrUserExists, http.StatusConflict, "USER_ALREADY_EXISTS"},
		{store.ErrProductNotFound, http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{store.ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{store.ErrItemNotInCart, http.StatusNotFound, "ITEM_NOT_IN_CART"},
		{store.ErrEmptyCart, http.StatusBadRequest, "EMPTY_CART"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteError(rec, fmt.Errorf("wrapped: %w", tc.err))
		if rec.Code != tc.status {
			t.Fatalf("%v: expected status %d, got %d", tc.err, tc.status, rec.Code)
		}
		code, _ := decodeError(t, rec)
		if code != tc.code {
			t.Fatalf("%v: expected code %s, got %s", tc.err, tc.code, code)
		}
	}
}

func TestWriteErrorAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, &AppError{
		Code:       "INVALID_SORT_KEY",
		Message:    "sort must be one of name, price, stock",
		HTTPStatus: http.StatusBadRequest,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	code, message := decodeError(t, rec)
	if code != "INVALID_SORT_KEY" || message == "" {
		t.Fatalf("unexpected body: code=%s message=%s", code, message)
	}
}

func TestWriteErrorUnknownErrorIsOpaque(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("pg: connection refused at 10.0.0.3"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	code, message := decodeError(t, rec)
	if code != "INTERNAL" {
		t.Fatalf("expected INTERNAL, got %s", code)
	}
	if message != "internal error" {
		t.Fatalf("internal details leaked: %q", message)
	}
}
