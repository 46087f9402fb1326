package bonus

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/catalog"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/order"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/pricing"
)

// Origin classifies where a bonus came from. Inert metadata, surfaced in
// diagnostics only.
type Origin int

const (
	OriginPointsSystem Origin = iota
	OriginReturnCompensation
	OriginOutOfStockCompensation
	OriginCustomerServiceStaff
	OriginMarketingStaff
)

// String returns the origin name for diagnostics.
func (o Origin) String() string {
	switch o {
	case OriginPointsSystem:
		return "points-system"
	case OriginReturnCompensation:
		return "return-compensation"
	case OriginOutOfStockCompensation:
		return "out-of-stock-compensation"
	case OriginCustomerServiceStaff:
		return "customer-service-staff"
	case OriginMarketingStaff:
		return "marketing-staff"
	default:
		return "unknown"
	}
}

// Rule is one bonus instance: a product-set filter, an apply condition, a
// bonus form, an optional per-application unit cap and a superposition
// resolution, plus the eligibility gates outside the monetary core. Rules
// are immutable value objects assembled at setup time; evaluation never
// mutates them, so one rule may be evaluated against many orders.
type Rule struct {
	Name    string
	Country string
	Domain  string
	Origin  Origin

	Target        Target
	Products      ProductSet
	Condition     Condition
	Form          Form
	Superposition Superposition

	// UnitCap bounds, per single application, how many units a percentage
	// bonus is computed against. Only meaningful for product targets.
	UnitCap *int64

	// Gates outside the monetary core.
	ValidFrom      *time.Time
	ValidTo        *time.Time
	MaxRedemptions *int
	UserID         *uuid.UUID
	Visible        bool
	Optional       bool
}

// Validate rejects malformed and acknowledged-unsupported configurations.
// Unsupported combinations fail here, at setup time, never silently at
// evaluation time.
func (r Rule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: rule name is required", ErrInvalidConfig)
	}
	switch r.Target {
	case TargetProduct:
	case TargetShipping:
		if r.UnitCap != nil {
			return fmt.Errorf("%w: unit cap only applies to product targets", ErrInvalidConfig)
		}
	case TargetProductAndShipping:
		return fmt.Errorf("%s: %w", r.Name, ErrUnsupportedTarget)
	default:
		return fmt.Errorf("%w: unknown target %d", ErrInvalidConfig, r.Target)
	}
	if err := r.Products.validate(); err != nil {
		return fmt.Errorf("%s: %w", r.Name, err)
	}
	if err := r.Condition.validate(); err != nil {
		return fmt.Errorf("%s: %w", r.Name, err)
	}
	if err := r.Form.validate(); err != nil {
		return fmt.Errorf("%s: %w", r.Name, err)
	}
	if err := r.Superposition.validate(); err != nil {
		return fmt.Errorf("%s: %w", r.Name, err)
	}
	if r.UnitCap != nil && *r.UnitCap <= 0 {
		return fmt.Errorf("%w: unit cap must be positive", ErrInvalidConfig)
	}
	if r.MaxRedemptions != nil && *r.MaxRedemptions < 0 {
		return fmt.Errorf("%w: negative redemption limit", ErrInvalidConfig)
	}
	if r.ValidFrom != nil && r.ValidTo != nil && r.ValidTo.Before(*r.ValidFrom) {
		return fmt.Errorf("%w: time window ends before it starts", ErrInvalidConfig)
	}
	return nil
}

// Active reports whether now falls inside the rule's time window.
func (r Rule) Active(now time.Time) bool {
	if r.ValidFrom != nil && !now.After(*r.ValidFrom) {
		return false
	}
	if r.ValidTo != nil && !now.Before(*r.ValidTo) {
		return false
	}
	return true
}

// Exhausted reports whether the customer has already used this bonus more
// times than allowed. Guests have no history and are never exhausted.
func (r Rule) Exhausted(c order.Customer) bool {
	if r.MaxRedemptions == nil || c == nil {
		return false
	}
	return c.RedemptionCount() > *r.MaxRedemptions
}

// MatchesUser reports whether the rule is open to the given customer.
func (r Rule) MatchesUser(c order.Customer) bool {
	if r.UserID == nil {
		return true
	}
	return c != nil && c.ID() == *r.UserID
}

// Eligible reports whether the bought set satisfies the rule's product-set
// filter and apply condition. An empty eligible subset is never eligible.
func (r Rule) Eligible(items *catalog.BoughtSet) bool {
	return r.Condition.met(r.Products.Filter(items))
}

// ApplyTimes resolves the superposition repeat count for the bought set.
func (r Rule) ApplyTimes(items *catalog.BoughtSet) int64 {
	return r.Superposition.resolve(r.Condition, r.Products.Filter(items))
}

// Charge computes the monetary bonus one evaluation of the rule contributes.
// It is pure: calling it twice against an unchanged order yields the same
// value and the order is never mutated. The invariant that a discount never
// exceeds the value it discounts is enforced here, not by callers.
func (r Rule) Charge(o *order.Order) decimal.Decimal {
	times := r.ApplyTimes(o.Items)
	if times <= 0 {
		return decimal.Zero
	}
	factor := decimal.NewFromInt(times)

	switch r.Target {
	case TargetShipping:
		var raw decimal.Decimal
		switch r.Form.Kind {
		case FormPercent:
			raw = o.ShippingFee().Mul(r.Form.Percent).Mul(factor)
		default:
			raw = r.Form.Amount.Mul(factor)
		}
		return capAt(raw, o.ShippingFee())
	default:
		switch r.Form.Kind {
		case FormPercent:
			if r.UnitCap != nil {
				lines := r.Products.Filter(o.Items)
				budget := *r.UnitCap * times
				return pricing.CheapestSubtotal(lines, budget).Mul(r.Form.Percent)
			}
			return capAt(o.ItemsAmount().Mul(r.Form.Percent).Mul(factor), o.ItemsAmount())
		default:
			return capAt(r.Form.Amount.Mul(factor), o.ItemsAmount())
		}
	}
}

func capAt(v, limit decimal.Decimal) decimal.Decimal {
	if v.GreaterThan(limit) {
		return limit
	}
	return v
}

// SkipReason says why a rule contributed nothing to an order.
type SkipReason string

const (
	SkipNone         SkipReason = ""
	SkipExpired      SkipReason = "expired"
	SkipUseLimit     SkipReason = "use-limit-exceeded"
	SkipUserMismatch SkipReason = "user-mismatch"
	SkipNotEligible  SkipReason = "condition-not-met"
	SkipZeroTimes    SkipReason = "zero-superposition"
	SkipZeroBonus    SkipReason = "zero-bonus"
)

// Outcome is the diagnostic record of one rule evaluation against one order.
// Country, domain, visibility and optionality are copied through from the
// rule; nothing in the pipeline branches on them.
type Outcome struct {
	Rule     string
	Origin   string
	Country  string
	Domain   string
	Visible  bool
	Optional bool
	Applied  bool
	Reason   SkipReason
	Bonus    decimal.Decimal
}

// Apply runs the full gate sequence and, if every gate passes, accumulates
// the charge into the order's activity bonus. Gate failures short-circuit
// with a zero contribution; a rule is never partially applied.
func (r Rule) Apply(now time.Time, o *order.Order) Outcome {
	out := Outcome{
		Rule:     r.Name,
		Origin:   r.Origin.String(),
		Country:  r.Country,
		Domain:   r.Domain,
		Visible:  r.Visible,
		Optional: r.Optional,
		Bonus:    decimal.Zero,
	}

	if !r.Active(now) {
		out.Reason = SkipExpired
		return out
	}
	if r.Exhausted(o.Customer) {
		out.Reason = SkipUseLimit
		return out
	}
	if !r.MatchesUser(o.Customer) {
		out.Reason = SkipUserMismatch
		return out
	}
	if !r.Eligible(o.Items) {
		out.Reason = SkipNotEligible
		return out
	}
	if r.ApplyTimes(o.Items) <= 0 {
		out.Reason = SkipZeroTimes
		return out
	}

	bonus := r.Charge(o)
	if !bonus.IsPositive() {
		out.Reason = SkipZeroBonus
		return out
	}
	o.AddActivityBonus(bonus)
	out.Applied = true
	out.Bonus = bonus
	return out
}

// ApplyToOrder implements order.Applier with the current wall clock.
func (r Rule) ApplyToOrder(o *order.Order) {
	r.Apply(time.Now(), o)
}

// Registry assembles and owns the active rule list for the checkout
// pipeline. Every rule is validated on the way in, so evaluation never sees
// an unsupported configuration.
type Registry struct {
	rules []Rule
}

// NewRegistry validates and registers the given rules.
func NewRegistry(rules ...Rule) (*Registry, error) {
	reg := &Registry{}
	for _, r := range rules {
		if err := reg.Add(r); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Add validates a rule and appends it to the active list.
func (g *Registry) Add(r Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}
	g.rules = append(g.rules, r)
	return nil
}

// Rules returns the active rules in registration order.
func (g *Registry) Rules() []Rule {
	out := make([]Rule, len(g.rules))
	copy(out, g.rules)
	return out
}
