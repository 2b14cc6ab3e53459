package pricing

// Money represents a monetary value stored in minor units.
type Money = int64

// scale is the fixed-point factor used for intermediate percentage math.
// Amounts are carried as minor-units x 10000 and floored back to whole minor
// units only when the quote is finalised.
const scale = 10_000

// Tier is one volume discount bracket. Tiers are evaluated highest minimum
// first and the decision is made once, on the pre-discount subtotal.
type Tier struct {
	MinSubtotal Money
	RateBps     int64
}

// Options configures a single checkout computation.
type Options struct {
	Tiers         []Tier
	TaxBps        int64
	CouponRateBps int64 // 0 when no coupon applies
	RedeemPoints  bool
	PointsBalance int64
	EarnDivisor   Money // minor units of spend per loyalty point earned
	EarnOnTotal   bool  // accrue on the post-tax total instead of the pre-tax amount
}

// Quote aggregates the computed pricing components. All monetary fields are
// floored to whole minor units.
type Quote struct {
	Subtotal       Money
	Discount       Money
	PointsRedeemed int64
	Tax            Money
	Total          Money
	PointsEarned   int64
	NewBalance     int64
}

// Compute runs the checkout calculation over the cart's locked-in line totals.
// The volume and coupon discounts are both taken on the original subtotal and
// added together, never compounded. Point redemption happens after discounts
// and before tax, at one minor unit per point.
func Compute(totals []Money, opts Options) Quote {
	var subtotal Money
	for _, t := range totals {
		if t <= 0 {
			continue
		}
		subtotal += t
	}

	var discountScaled Money
	for _, tier := range opts.Tiers {
		if subtotal >= tier.MinSubtotal {
			discountScaled = subtotal * tier.RateBps
			break
		}
	}
	if opts.CouponRateBps > 0 {
		discountScaled += subtotal * opts.CouponRateBps
	}

	runningScaled := subtotal*scale - discountScaled
	if runningScaled < 0 {
		runningScaled = 0
	}

	var pointsUsed int64
	if opts.RedeemPoints && opts.PointsBalance > 0 {
		pointsUsed = opts.PointsBalance
		if whole := runningScaled / scale; pointsUsed > whole {
			pointsUsed = whole
		}
		runningScaled -= pointsUsed * scale
	}

	taxScaled := runningScaled * opts.TaxBps / scale
	totalScaled := runningScaled + taxScaled

	earnBase := runningScaled
	if opts.EarnOnTotal {
		earnBase = totalScaled
	}
	var earned int64
	if opts.EarnDivisor > 0 {
		earned = (earnBase / scale) / opts.EarnDivisor
	}

	return Quote{
		Subtotal:       subtotal,
		Discount:       discountScaled / scale,
		PointsRedeemed: pointsUsed,
		Tax:            taxScaled / scale,
		Total:          totalScaled / scale,
		PointsEarned:   earned,
		NewBalance:     opts.PointsBalance - pointsUsed + earned,
	}
}

// DefaultTiers returns the standard volume discount brackets: 15% at or above
// 3000 and 10% at or above 1000.
func DefaultTiers() []Tier {
	return []Tier{
		{MinSubtotal: 3000, RateBps: 1500},
		{MinSubtotal: 1000, RateBps: 1000},
	}
}
