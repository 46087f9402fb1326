package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/catalog"
)

// Customer is the slice of the account model the pricing pipeline needs:
// an identity for user-scoped rules and a redemption count for use limits.
type Customer interface {
	ID() uuid.UUID
	RedemptionCount() int
}

// Applier mutates an order on behalf of another entity: a promotion, a
// coupon or a shipping method. It is the only way collaborators change an
// order's accumulators.
type Applier interface {
	ApplyToOrder(o *Order)
}

// Stages reports which pipeline stages have run. The flags are diagnostic
// only; stage sequencing is the caller's responsibility.
type Stages struct {
	Activity bool
	Shipping bool
	Coupon   bool
	Total    bool
}

// Order accumulates the monetary breakdown of one checkout. It is created
// once per checkout, owned exclusively by the invoking pipeline, and mutated
// only by the pipeline stages in strict order: items, activities, shipping,
// coupons, summary.
type Order struct {
	ID       uuid.UUID
	Customer Customer
	Items    *catalog.BoughtSet

	couponBonus   decimal.Decimal
	activityBonus decimal.Decimal
	shippingFee   decimal.Decimal
	itemsAmount   decimal.Decimal
	totalAmount   decimal.Decimal

	stages Stages
}

// New constructs an order over the given bought set. The customer may be nil
// for guest checkouts.
func New(customer Customer, items *catalog.BoughtSet) *Order {
	if items == nil {
		items = catalog.NewBoughtSet()
	}
	return &Order{
		ID:            uuid.New(),
		Customer:      customer,
		Items:         items,
		couponBonus:   decimal.Zero,
		activityBonus: decimal.Zero,
		shippingFee:   decimal.Zero,
		itemsAmount:   decimal.Zero,
		totalAmount:   decimal.Zero,
	}
}

// ItemsAmount returns the summed item value. Valid after ProcessItems.
func (o *Order) ItemsAmount() decimal.Decimal { return o.itemsAmount }

// ActivityBonus returns the accumulated promotion discount.
func (o *Order) ActivityBonus() decimal.Decimal { return o.activityBonus }

// CouponBonus returns the accumulated coupon discount.
func (o *Order) CouponBonus() decimal.Decimal { return o.couponBonus }

// ShippingFee returns the assigned shipping fee.
func (o *Order) ShippingFee() decimal.Decimal { return o.shippingFee }

// TotalAmount returns the payable total. Valid after ProcessSummary.
func (o *Order) TotalAmount() decimal.Decimal { return o.totalAmount }

// TotalWeight returns the summed item weight in grams.
func (o *Order) TotalWeight() int64 { return o.Items.TotalWeight() }

// Stages returns the stage completion flags.
func (o *Order) Stages() Stages { return o.stages }

// AddActivityBonus accumulates a promotion or bonus-rule discount.
func (o *Order) AddActivityBonus(d decimal.Decimal) {
	o.activityBonus = o.activityBonus.Add(d)
}

// AddCouponBonus accumulates a coupon discount.
func (o *Order) AddCouponBonus(d decimal.Decimal) {
	o.couponBonus = o.couponBonus.Add(d)
}

// SetShippingFee stores the fee returned by the shipping collaborator.
func (o *Order) SetShippingFee(d decimal.Decimal) {
	o.shippingFee = d
}

// ProcessItems runs the first pipeline stage: totalling the bought set.
func (o *Order) ProcessItems() {
	o.itemsAmount = o.Items.TotalAmount()
}

// ProcessActivities runs the second stage, applying each promotion in
// configured order. Activities run before shipping because they may change
// the value the later stages discount against.
func (o *Order) ProcessActivities(activities ...Applier) {
	for _, a := range activities {
		if a == nil {
			continue
		}
		a.ApplyToOrder(o)
	}
	o.stages.Activity = true
}

// ProcessShippingFee runs the third stage, storing the quoted fee verbatim.
func (o *Order) ProcessShippingFee(fee decimal.Decimal) {
	o.shippingFee = fee
	o.stages.Shipping = true
}

// ProcessCoupons runs the fourth stage, accumulating every coupon flatly.
func (o *Order) ProcessCoupons(coupons ...Applier) {
	for _, c := range coupons {
		if c == nil {
			continue
		}
		c.ApplyToOrder(o)
	}
	o.stages.Coupon = true
}

// ProcessSummary runs the final stage:
// total = items + shipping - coupon bonus - activity bonus.
func (o *Order) ProcessSummary() {
	o.totalAmount = o.itemsAmount.
		Add(o.shippingFee).
		Sub(o.couponBonus).
		Sub(o.activityBonus)
	o.stages.Total = true
}
