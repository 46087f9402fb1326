package promo

import (
	"github.com/shopspring/decimal"

	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/catalog"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/order"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/pricing"
)

// Activity is one promotion strategy. Strategies are immutable configuration:
// they hold no state across orders and are evaluated fresh against the
// order's bought set on every application.
type Activity interface {
	order.Applier

	// Name identifies the activity in diagnostics.
	Name() string
	// SelectEligible returns the lines of the bought set the activity applies to.
	SelectEligible(items *catalog.BoughtSet) []catalog.Line
	// Bonus computes the discount the activity contributes, without mutating anything.
	Bonus(items *catalog.BoughtSet) decimal.Decimal
}

// FullMinusOne frees the cheapest eligible unit for every complete group of
// Threshold eligible units ("buy N, get the cheapest free").
type FullMinusOne struct {
	Label     string
	Threshold int64
	Skus      []string
}

// Name implements Activity.
func (f FullMinusOne) Name() string {
	if f.Label != "" {
		return f.Label
	}
	return "full-minus-one"
}

// SelectEligible implements Activity.
func (f FullMinusOne) SelectEligible(items *catalog.BoughtSet) []catalog.Line {
	return items.IntersectByNames(f.Skus)
}

// Bonus implements Activity. Eligible units are grouped by Threshold; each
// complete group frees one unit, allocated cheapest first. A cart short of
// one complete group contributes nothing.
func (f FullMinusOne) Bonus(items *catalog.BoughtSet) decimal.Decimal {
	if f.Threshold <= 0 {
		return decimal.Zero
	}
	eligible := f.SelectEligible(items)
	count := pricing.Count(eligible)
	if count < f.Threshold {
		return decimal.Zero
	}
	groups := count / f.Threshold
	return pricing.CheapestSubtotal(eligible, groups)
}

// ApplyToOrder implements order.Applier.
func (f FullMinusOne) ApplyToOrder(o *order.Order) {
	o.AddActivityBonus(f.Bonus(o.Items))
}

// BundlePrice sells every complete bundle of BundleSize eligible units for
// FixedPrice instead of their natural price.
type BundlePrice struct {
	Label      string
	BundleSize int64
	FixedPrice decimal.Decimal
	Skus       []string
}

// Name implements Activity.
func (b BundlePrice) Name() string {
	if b.Label != "" {
		return b.Label
	}
	return "bundle-price"
}

// SelectEligible implements Activity.
func (b BundlePrice) SelectEligible(items *catalog.BoughtSet) []catalog.Line {
	return items.IntersectByNames(b.Skus)
}

// Bonus implements Activity. The natural price of the cheapest
// bundleable units is compared against FixedPrice per bundle; only a
// positive difference is contributed, a non-positive one is silently
// ignored.
func (b BundlePrice) Bonus(items *catalog.BoughtSet) decimal.Decimal {
	if b.BundleSize <= 0 {
		return decimal.Zero
	}
	eligible := b.SelectEligible(items)
	count := pricing.Count(eligible)
	if count < b.BundleSize {
		return decimal.Zero
	}
	times := count / b.BundleSize
	usable := times * b.BundleSize
	origin := pricing.CheapestSubtotal(eligible, usable)
	bonus := b.FixedPrice.Mul(decimal.NewFromInt(times)).Sub(origin)
	if bonus.IsPositive() {
		return bonus
	}
	return decimal.Zero
}

// ApplyToOrder implements order.Applier.
func (b BundlePrice) ApplyToOrder(o *order.Order) {
	o.AddActivityBonus(b.Bonus(o.Items))
}
