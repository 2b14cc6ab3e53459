package wishlist

import (
	"context"

	"github.com/noah-isme/grocery-api/internal/events"
	"github.com/noah-isme/grocery-api/internal/store"
)

// Service manages per-user wishlists. The wishlist is an append log: entries
// may repeat and cannot be removed.
type Service struct {
	Store  *store.Store
	Events *events.Bus
}

// Add appends a product to the user's wishlist.
func (s *Service) Add(ctx context.Context, userID, product string) error {
	if err := s.Store.AddToWishlist(userID, product); err != nil {
		return err
	}
	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicWishlistAdded, userID, map[string]any{
			"user_id": userID,
			"product": store.Key(product),
		})
	}
	return nil
}

// List returns the wishlist in insertion order.
func (s *Service) List(_ context.Context, userID string) ([]string, error) {
	return s.Store.Wishlist(userID)
}
