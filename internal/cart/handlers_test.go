package cart_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/grocery-api/internal/cart"
	"github.com/noah-isme/grocery-api/internal/store"
)

func newHandler(t *testing.T) (*cart.Handler, *store.Store) {
	t.Helper()
	st := store.New()
	st.Seed([]store.Product{
		{Name: "apple", Price: 200, Unit: "per kg", Stock: 50},
		{Name: "milk", Price: 60, Unit: "per litre", Stock: 40},
	})
	require.NoError(t, st.CreateUser("alice", false))
	return &cart.Handler{Svc: &cart.Service{Store: st}}, st
}

func request(method, target string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	routeCtx := chi.NewRouteContext()
	for k, v := range params {
		routeCtx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestAddToCart(t *testing.T) {
	h, st := newHandler(t)

	rec := httptest.NewRecorder()
	h.Add(rec, request(http.MethodPost, "/cart/alice/apple/3", map[string]string{
		"userID": "alice", "product": "apple", "qty": "3",
	}))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Message string         `json:"message"`
		Item    store.LineItem `json:"item"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "3 per kg apple added to cart", resp.Message)
	require.Equal(t, int64(600), resp.Item.Total)

	p, err := st.Product("apple")
	require.NoError(t, err)
	require.Equal(t, int64(47), p.Stock)
}

func TestAddToCartErrors(t *testing.T) {
	h, _ := newHandler(t)

	cases := []struct {
		name   string
		params map[string]string
		status int
		code   string
	}{
		{"zero quantity", map[string]string{"userID": "alice", "product": "apple", "qty": "0"}, http.StatusBadRequest, "BAD_REQUEST"},
		{"non-numeric quantity", map[string]string{"userID": "alice", "product": "apple", "qty": "lots"}, http.StatusBadRequest, "BAD_REQUEST"},
		{"over stock", map[string]string{"userID": "alice", "product": "apple", "qty": "999"}, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"unknown product", map[string]string{"userID": "alice", "product": "durian", "qty": "1"}, http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"unknown user", map[string]string{"userID": "ghost", "product": "apple", "qty": "1"}, http.StatusNotFound, "USER_NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Add(rec, request(http.MethodPost, "/cart/x", tc.params))
			require.Equal(t, tc.status, rec.Code)
			var resp struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Equal(t, tc.code, resp.Error.Code)
		})
	}
}

func TestGetCartTotalsLines(t *testing.T) {
	h, st := newHandler(t)
	_, err := st.AddToCart("alice", "apple", 2)
	require.NoError(t, err)
	_, err = st.AddToCart("alice", "milk", 5)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Get(rec, request(http.MethodGet, "/cart/alice", map[string]string{"userID": "alice"}))
	require.Equal(t, http.StatusOK, rec.Code)

	var view cart.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Items, 2)
	require.Equal(t, int64(700), view.Total)
}

func TestRemoveFromCart(t *testing.T) {
	h, st := newHandler(t)
	_, err := st.AddToCart("alice", "apple", 2)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Remove(rec, request(http.MethodDelete, "/cart/alice/apple", map[string]string{
		"userID": "alice", "product": "apple",
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	p, err := st.Product("apple")
	require.NoError(t, err)
	require.Equal(t, int64(50), p.Stock)

	rec = httptest.NewRecorder()
	h.Remove(rec, request(http.MethodDelete, "/cart/alice/apple", map[string]string{
		"userID": "alice", "product": "apple",
	}))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
