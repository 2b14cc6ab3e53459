package user

import (
	"context"
	"net/http"
	"strings"

	"github.com/noah-isme/grocery-api/internal/common"
	"github.com/noah-isme/grocery-api/internal/events"
	"github.com/noah-isme/grocery-api/internal/store"
)

// Profile is the account summary returned by GET /users/{id}.
type Profile struct {
	UserID        string `json:"user_id"`
	LoyaltyPoints int64  `json:"loyalty_points"`
	CartItems     int    `json:"cart_items"`
	WishlistItems int    `json:"wishlist_items"`
	TotalOrders   int    `json:"total_orders"`
	IsAdmin       bool   `json:"is_admin"`
}

// Service orchestrates account creation and profile lookups.
type Service struct {
	Store      *store.Store
	Events     *events.Bus
	AllowAdmin bool
}

// Create registers a new account. The admin flag is honoured only when the
// admin feature is enabled.
func (s *Service) Create(ctx context.Context, id string, admin bool) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return common.NewAppError("BAD_REQUEST", "user id is required", http.StatusBadRequest, nil)
	}
	if !s.AllowAdmin {
		admin = false
	}
	if err := s.Store.CreateUser(id, admin); err != nil {
		return err
	}
	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicUserCreated, id, map[string]any{
			"user_id":  id,
			"is_admin": admin,
		})
	}
	return nil
}

// Profile assembles the account summary.
func (s *Service) Profile(_ context.Context, id string) (Profile, error) {
	u, err := s.Store.User(id)
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		UserID:        u.ID,
		LoyaltyPoints: u.Points,
		CartItems:     len(u.Cart),
		WishlistItems: len(u.Wishlist),
		TotalOrders:   len(u.Orders),
		IsAdmin:       u.Admin,
	}, nil
}
