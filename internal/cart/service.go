package cart

import (
	"context"

	"github.com/noah-isme/grocery-api/internal/events"
	"github.com/noah-isme/grocery-api/internal/obs"
	"github.com/noah-isme/grocery-api/internal/store"
)

// View is the cart payload returned by GET /cart/{userID}.
type View struct {
	Items []store.LineItem `json:"cart"`
	Total store.Money      `json:"total"`
}

// Service orchestrates cart mutations against the store.
type Service struct {
	Store  *store.Store
	Events *events.Bus
}

// Add appends a line item for the product, locking in the current unit price.
// Stock is decremented by the requested quantity. Repeated adds of the same
// product keep separate lines.
func (s *Service) Add(ctx context.Context, userID, product string, qty int64) (store.LineItem, error) {
	line, err := s.Store.AddToCart(userID, product, qty)
	if err != nil {
		countCartOp("add", err)
		return store.LineItem{}, err
	}
	countCartOp("add", nil)
	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicCartItemAdded, userID, map[string]any{
			"user_id": userID,
			"product": line.Product,
			"qty":     line.Qty,
			"total":   line.Total,
		})
	}
	return line, nil
}

// Remove deletes the first line matching the product and restores its
// quantity to stock.
func (s *Service) Remove(ctx context.Context, userID, product string) (store.LineItem, error) {
	line, err := s.Store.RemoveFromCart(userID, product)
	if err != nil {
		countCartOp("remove", err)
		return store.LineItem{}, err
	}
	countCartOp("remove", nil)
	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicCartItemRemoved, userID, map[string]any{
			"user_id": userID,
			"product": line.Product,
			"qty":     line.Qty,
		})
	}
	return line, nil
}

// Get returns the cart contents with the running total of line amounts.
func (s *Service) Get(_ context.Context, userID string) (View, error) {
	items, err := s.Store.Cart(userID)
	if err != nil {
		return View{}, err
	}
	view := View{Items: items}
	for _, line := range items {
		view.Total += line.Total
	}
	return view, nil
}

func countCartOp(op string, err error) {
	if obs.CartOpsTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	obs.CartOpsTotal.WithLabelValues(op, result).Inc()
}
