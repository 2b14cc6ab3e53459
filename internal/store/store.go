package store

import (
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	// ErrUserNotFound is returned when the referenced account does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when creating an account with a taken id.
	ErrUserExists = errors.New("user already exists")
	// ErrProductNotFound is returned when the product is not in the catalog.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock indicates the requested quantity exceeds stock on hand.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrItemNotInCart is returned when removing a product that has no cart line.
	ErrItemNotInCart = errors.New("item not in cart")
	// ErrEmptyCart is returned when checking out a cart with no line items.
	ErrEmptyCart = errors.New("cart is empty")
)

// Money is a monetary value in minor currency units.
type Money = int64

// Product is a catalog entry keyed by lowercase name.
type Product struct {
	Name  string `json:"name"`
	Price Money  `json:"price"`
	Unit  string `json:"unit"`
	Stock int64  `json:"stock"`
}

// LineItem is one cart entry with the total locked in at add time. Repeated
// adds of the same product produce separate lines; they are never merged.
type LineItem struct {
	Product string `json:"product"`
	Qty     int64  `json:"qty"`
	Total   Money  `json:"total"`
	Unit    string `json:"unit"`
}

// Receipt is an immutable checkout record appended to order history.
type Receipt struct {
	ID             string     `json:"id"`
	Items          []LineItem `json:"items"`
	Subtotal       Money      `json:"subtotal"`
	Discount       Money      `json:"discount"`
	CouponCode     *string    `json:"coupon_code,omitempty"`
	PointsRedeemed int64      `json:"points_redeemed"`
	PointsEarned   int64      `json:"loyalty_points_earned"`
	Tax            Money      `json:"gst"`
	Total          Money      `json:"final_bill"`
	PointsBalance  int64      `json:"total_loyalty_points"`
	CreatedAt      time.Time  `json:"created_at"`
}

// User is an account with its cart, order history, wishlist, and point balance.
type User struct {
	ID       string     `json:"user_id"`
	Cart     []LineItem `json:"cart"`
	Orders   []Receipt  `json:"orders"`
	Wishlist []string   `json:"wishlist"`
	Points   int64      `json:"points"`
	Admin    bool       `json:"is_admin"`
}

// Store owns all mutable application state. Every operation runs under one
// mutex so concurrent requests observe the same effectively-serial semantics
// as handling them one at a time.
type Store struct {
	mu       sync.Mutex
	products map[string]*Product
	order    []string
	users    map[string]*User
}

// New returns an empty store.
func New() *Store {
	return &Store{
		products: map[string]*Product{},
		users:    map[string]*User{},
	}
}

// Key normalises a product name for lookups.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Seed replaces the catalog with the provided products, preserving their order.
func (s *Store) Seed(products []Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = make(map[string]*Product, len(products))
	s.order = s.order[:0]
	for i := range products {
		p := products[i]
		key := Key(p.Name)
		if key == "" {
			continue
		}
		p.Name = key
		if _, dup := s.products[key]; !dup {
			s.order = append(s.order, key)
		}
		s.products[key] = &p
	}
}

// Products returns catalog entries in seed order.
func (s *Store) Products() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Product, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, *s.products[key])
	}
	return out
}

// Product looks up a single catalog entry.
func (s *Store) Product(name string) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[Key(name)]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return *p, nil
}

// UpdateProduct overwrites price and/or stock for an existing product.
func (s *Store) UpdateProduct(name string, price *Money, stock *int64) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[Key(name)]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	if price != nil {
		p.Price = *price
	}
	if stock != nil {
		p.Stock = *stock
	}
	return *p, nil
}

// CreateUser registers a new account.
func (s *Store) CreateUser(id string, admin bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; ok {
		return ErrUserExists
	}
	s.users[id] = &User{
		ID:       id,
		Cart:     []LineItem{},
		Orders:   []Receipt{},
		Wishlist: []string{},
		Admin:    admin,
	}
	return nil
}

// User returns a deep copy of the account state.
func (s *Store) User(id string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return copyUser(u), nil
}

// AddToCart appends a line item for the product and decrements its stock.
// The line total is locked in at the current unit price.
func (s *Store) AddToCart(userID, product string, qty int64) (LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return LineItem{}, ErrUserNotFound
	}
	p, ok := s.products[Key(product)]
	if !ok {
		return LineItem{}, ErrProductNotFound
	}
	if qty <= 0 || qty > p.Stock {
		return LineItem{}, ErrInsufficientStock
	}
	line := LineItem{
		Product: p.Name,
		Qty:     qty,
		Total:   p.Price * qty,
		Unit:    p.Unit,
	}
	u.Cart = append(u.Cart, line)
	p.Stock -= qty
	return line, nil
}

// RemoveFromCart removes the first line matching the product and restores its
// quantity to stock. Later lines for the same product are untouched.
func (s *Store) RemoveFromCart(userID, product string) (LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return LineItem{}, ErrUserNotFound
	}
	key := Key(product)
	for i, line := range u.Cart {
		if line.Product != key {
			continue
		}
		if p, ok := s.products[key]; ok {
			p.Stock += line.Qty
		}
		u.Cart = append(u.Cart[:i], u.Cart[i+1:]...)
		return line, nil
	}
	return LineItem{}, ErrItemNotInCart
}

// Cart returns a copy of the user's cart lines.
func (s *Store) Cart(userID string) ([]LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return append([]LineItem{}, u.Cart...), nil
}

// Orders returns a copy of the user's order history.
func (s *Store) Orders(userID string) ([]Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return copyReceipts(u.Orders), nil
}

// AddToWishlist appends the product to the user's wishlist. Duplicates are
// allowed; there is no removal operation.
func (s *Store) AddToWishlist(userID, product string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	key := Key(product)
	if _, ok := s.products[key]; !ok {
		return ErrProductNotFound
	}
	u.Wishlist = append(u.Wishlist, key)
	return nil
}

// Wishlist returns a copy of the user's wishlist.
func (s *Store) Wishlist(userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return append([]string{}, u.Wishlist...), nil
}

// Checkout runs fn against a snapshot of the user's cart and point balance
// while holding the store lock. When fn succeeds the returned receipt is
// appended to order history, the balance is replaced with newBalance, and the
// cart is cleared. An empty cart fails before fn runs and leaves all state
// unchanged.
func (s *Store) Checkout(userID string, fn func(cart []LineItem, points int64) (Receipt, int64, error)) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return Receipt{}, ErrUserNotFound
	}
	if len(u.Cart) == 0 {
		return Receipt{}, ErrEmptyCart
	}
	snapshot := append([]LineItem{}, u.Cart...)
	receipt, newBalance, err := fn(snapshot, u.Points)
	if err != nil {
		return Receipt{}, err
	}
	receipt.Items = snapshot
	u.Orders = append(u.Orders, receipt)
	u.Points = newBalance
	u.Cart = u.Cart[:0]
	return receipt, nil
}

func copyUser(u *User) User {
	out := *u
	out.Cart = append([]LineItem{}, u.Cart...)
	out.Orders = copyReceipts(u.Orders)
	out.Wishlist = append([]string{}, u.Wishlist...)
	return out
}

func copyReceipts(in []Receipt) []Receipt {
	out := make([]Receipt, len(in))
	for i, r := range in {
		r.Items = append([]LineItem{}, r.Items...)
		out[i] = r
	}
	return out
}
