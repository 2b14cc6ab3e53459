package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/grocery-api/internal/coupon"
	"github.com/noah-isme/grocery-api/internal/events"
	"github.com/noah-isme/grocery-api/internal/lock"
	"github.com/noah-isme/grocery-api/internal/obs"
	"github.com/noah-isme/grocery-api/internal/pricing"
	"github.com/noah-isme/grocery-api/internal/store"
)

// Input captures the checkout request parameters.
type Input struct {
	CouponCode string
	UsePoints  bool
}

// Service runs the pricing engine against a user's cart and commits the
// resulting receipt, point balance, and cleared cart as one unit.
type Service struct {
	Store       *store.Store
	Coupons     coupon.Table
	Locks       *lock.Locker
	LockTTL     time.Duration
	Tiers       []pricing.Tier
	TaxBps      int64
	EarnUnit    store.Money
	EarnOnBill  bool
	AllowCoupon bool
	AllowPoints bool
	Events      *events.Bus
}

// Checkout prices the cart and commits the transaction. A coupon code absent
// from the table is ignored rather than rejected. The per-user lock keeps
// concurrent checkouts for the same account strictly serial.
func (s *Service) Checkout(ctx context.Context, userID string, in Input) (store.Receipt, error) {
	var receipt store.Receipt
	run := func(ctx context.Context) error {
		var err error
		receipt, err = s.checkout(ctx, userID, in)
		return err
	}
	if s.Locks != nil {
		if err := s.Locks.WithLock(ctx, "checkout:user:"+userID, s.LockTTL, run); err != nil {
			countCheckout(err)
			return store.Receipt{}, err
		}
	} else if err := run(ctx); err != nil {
		countCheckout(err)
		return store.Receipt{}, err
	}
	countCheckout(nil)
	return receipt, nil
}

func (s *Service) checkout(ctx context.Context, userID string, in Input) (store.Receipt, error) {
	var appliedCode *string
	var couponBps int64
	if s.AllowCoupon {
		code := strings.TrimSpace(in.CouponCode)
		if code != "" {
			if bps, ok := s.Coupons.RateBps(code); ok {
				couponBps = bps
				normalized := strings.ToUpper(code)
				appliedCode = &normalized
			}
		}
	}

	receipt, err := s.Store.Checkout(userID, func(cart []store.LineItem, points int64) (store.Receipt, int64, error) {
		totals := make([]pricing.Money, 0, len(cart))
		for _, line := range cart {
			totals = append(totals, line.Total)
		}
		quote := pricing.Compute(totals, pricing.Options{
			Tiers:         s.Tiers,
			TaxBps:        s.TaxBps,
			CouponRateBps: couponBps,
			RedeemPoints:  s.AllowPoints && in.UsePoints,
			PointsBalance: points,
			EarnDivisor:   s.EarnUnit,
			EarnOnTotal:   s.EarnOnBill,
		})
		if !s.AllowPoints {
			quote.PointsEarned = 0
			quote.NewBalance = points
		}
		r := store.Receipt{
			ID:             uuid.NewString(),
			Subtotal:       quote.Subtotal,
			Discount:       quote.Discount,
			CouponCode:     appliedCode,
			PointsRedeemed: quote.PointsRedeemed,
			PointsEarned:   quote.PointsEarned,
			Tax:            quote.Tax,
			Total:          quote.Total,
			PointsBalance:  quote.NewBalance,
			CreatedAt:      time.Now().UTC(),
		}
		return r, quote.NewBalance, nil
	})
	if err != nil {
		return store.Receipt{}, err
	}

	recordCheckoutMetrics(receipt, appliedCode)
	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicOrderCheckedOut, userID, map[string]any{
			"user_id":    userID,
			"receipt_id": receipt.ID,
			"final_bill": receipt.Total,
			"discount":   receipt.Discount,
		})
	}
	return receipt, nil
}

func recordCheckoutMetrics(receipt store.Receipt, appliedCode *string) {
	if obs.CheckoutAmount != nil {
		obs.CheckoutAmount.Observe(float64(receipt.Total))
	}
	if appliedCode != nil && obs.CouponAppliedTotal != nil {
		obs.CouponAppliedTotal.WithLabelValues(*appliedCode).Inc()
	}
	if receipt.PointsRedeemed > 0 && obs.PointsRedeemedTotal != nil {
		obs.PointsRedeemedTotal.Add(float64(receipt.PointsRedeemed))
	}
	if receipt.PointsEarned > 0 && obs.PointsEarnedTotal != nil {
		obs.PointsEarnedTotal.Add(float64(receipt.PointsEarned))
	}
}

func countCheckout(err error) {
	if obs.CheckoutTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	obs.CheckoutTotal.WithLabelValues(result).Inc()
}
