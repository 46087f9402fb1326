package coupon

import (
	"github.com/shopspring/decimal"

	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/order"
)

// Product is a redeemed flat-amount product coupon. The pricing core carries
// no eligibility logic for coupons; redemption bookkeeping happens upstream
// and every coupon handed to the pipeline is summed unconditionally.
type Product struct {
	Code   string
	Amount decimal.Decimal
}

// ApplyToOrder implements order.Applier by accumulating the coupon value
// into the order's coupon bonus.
func (p Product) ApplyToOrder(o *order.Order) {
	o.AddCouponBonus(p.Amount)
}
