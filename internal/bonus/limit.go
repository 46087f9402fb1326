package bonus

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/catalog"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/pricing"
)

// Configuration errors surfaced at rule construction. The original design
// left these combinations as evaluation-time fallthroughs; here they are
// rejected before a rule can ever be evaluated.
var (
	// ErrUnsupportedTarget rejects rules targeting product and shipping fee at once.
	ErrUnsupportedTarget = errors.New("bonus: combined product-and-shipping target not supported")
	// ErrUnsupportedCondition rejects combined amount-and-count conditions.
	ErrUnsupportedCondition = errors.New("bonus: combined amount-and-count condition not supported")
	// ErrUnsupportedProductSet rejects attribute-based product filtering.
	ErrUnsupportedProductSet = errors.New("bonus: attribute-based product set not supported")
	// ErrInvalidConfig covers malformed thresholds, percentages and caps.
	ErrInvalidConfig = errors.New("bonus: invalid rule configuration")
)

// Target selects what a rule discounts.
type Target int

const (
	// TargetProduct discounts the item value.
	TargetProduct Target = iota
	// TargetShipping discounts the shipping fee.
	TargetShipping
	// TargetProductAndShipping is declared for completeness and rejected at
	// construction; no evaluation semantics exist for it.
	TargetProductAndShipping
)

// String returns the target name for diagnostics.
func (t Target) String() string {
	switch t {
	case TargetProduct:
		return "product"
	case TargetShipping:
		return "shipping"
	case TargetProductAndShipping:
		return "product+shipping"
	default:
		return "unknown"
	}
}

// ConditionKind discriminates the threshold a rule requires before firing.
type ConditionKind int

const (
	// ConditionNone fires unconditionally (on a non-empty eligible subset).
	ConditionNone ConditionKind = iota
	// ConditionAmount requires the eligible amount to exceed a threshold.
	ConditionAmount
	// ConditionCount requires the eligible unit count to exceed a threshold.
	ConditionCount
	// ConditionAmountAndCount is declared for completeness and rejected at
	// construction.
	ConditionAmountAndCount
)

// Condition is the threshold an eligible subset must strictly exceed before
// the rule applies.
type Condition struct {
	Kind   ConditionKind
	Amount decimal.Decimal
	Count  int64
}

// NoCondition fires whenever the eligible subset is non-empty.
func NoCondition() Condition { return Condition{Kind: ConditionNone} }

// MinAmount requires the eligible amount to be strictly greater than amount.
func MinAmount(amount decimal.Decimal) Condition {
	return Condition{Kind: ConditionAmount, Amount: amount}
}

// MinCount requires the eligible unit count to be strictly greater than count.
func MinCount(count int64) Condition {
	return Condition{Kind: ConditionCount, Count: count}
}

func (c Condition) validate() error {
	switch c.Kind {
	case ConditionNone:
		return nil
	case ConditionAmount:
		if c.Amount.IsNegative() {
			return fmt.Errorf("%w: negative amount threshold", ErrInvalidConfig)
		}
		return nil
	case ConditionCount:
		if c.Count < 0 {
			return fmt.Errorf("%w: negative count threshold", ErrInvalidConfig)
		}
		return nil
	case ConditionAmountAndCount:
		return ErrUnsupportedCondition
	default:
		return fmt.Errorf("%w: unknown condition kind %d", ErrInvalidConfig, c.Kind)
	}
}

// met evaluates the condition against an already-filtered eligible subset.
// Thresholds are strict: an amount or count exactly at the threshold does
// not qualify.
func (c Condition) met(eligible []catalog.Line) bool {
	if len(eligible) == 0 {
		return false
	}
	switch c.Kind {
	case ConditionAmount:
		return pricing.Amount(eligible).GreaterThan(c.Amount)
	case ConditionCount:
		return pricing.Count(eligible) > c.Count
	default:
		return true
	}
}

// ProductSetKind discriminates how candidate lines are selected.
type ProductSetKind int

const (
	// ProductSetAll keeps every line.
	ProductSetAll ProductSetKind = iota
	// ProductSetSkus keeps lines whose SKU name appears in an explicit list.
	ProductSetSkus
	// ProductSetAttrs is declared for completeness and rejected at construction.
	ProductSetAttrs
	// ProductSetSkusAndAttrs is declared for completeness and rejected at
	// construction.
	ProductSetSkusAndAttrs
)

// ProductSet defines which purchased lines a rule may discount.
type ProductSet struct {
	Kind  ProductSetKind
	Skus  []string
	Attrs []string
}

// AllProducts keeps every line in the bought set.
func AllProducts() ProductSet { return ProductSet{Kind: ProductSetAll} }

// SkuSet keeps only lines whose SKU name is listed.
func SkuSet(names ...string) ProductSet {
	return ProductSet{Kind: ProductSetSkus, Skus: names}
}

func (p ProductSet) validate() error {
	switch p.Kind {
	case ProductSetAll:
		return nil
	case ProductSetSkus:
		if len(p.Skus) == 0 {
			return fmt.Errorf("%w: empty sku set", ErrInvalidConfig)
		}
		return nil
	case ProductSetAttrs, ProductSetSkusAndAttrs:
		return ErrUnsupportedProductSet
	default:
		return fmt.Errorf("%w: unknown product set kind %d", ErrInvalidConfig, p.Kind)
	}
}

// Filter resolves the candidate lines of the bought set. Attribute kinds are
// unreachable here because validation rejects them at construction.
func (p ProductSet) Filter(items *catalog.BoughtSet) []catalog.Line {
	switch p.Kind {
	case ProductSetSkus:
		return items.IntersectByNames(p.Skus)
	default:
		return items.Lines()
	}
}

// FormKind discriminates the bonus arithmetic.
type FormKind int

const (
	// FormPercent discounts a fraction of the targeted amount.
	FormPercent FormKind = iota
	// FormAmount discounts a flat value.
	FormAmount
)

// Form is the monetary shape of a bonus.
type Form struct {
	Kind    FormKind
	Percent decimal.Decimal
	Amount  decimal.Decimal
}

// Percent discounts rate (in (0, 1]) of the targeted amount.
func Percent(rate decimal.Decimal) Form {
	return Form{Kind: FormPercent, Percent: rate}
}

// FlatAmount discounts a fixed value.
func FlatAmount(amount decimal.Decimal) Form {
	return Form{Kind: FormAmount, Amount: amount}
}

var one = decimal.NewFromInt(1)

func (f Form) validate() error {
	switch f.Kind {
	case FormPercent:
		if !f.Percent.IsPositive() || f.Percent.GreaterThan(one) {
			return fmt.Errorf("%w: percent must be in (0, 1]", ErrInvalidConfig)
		}
		return nil
	case FormAmount:
		if f.Amount.IsNegative() {
			return fmt.Errorf("%w: negative flat amount", ErrInvalidConfig)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown form kind %d", ErrInvalidConfig, f.Kind)
	}
}

// Superposition resolves how many times a rule's bonus repeats for one order.
// The zero value applies the bonus once.
type Superposition struct {
	// Auto derives the repeat count from the rule's own condition; otherwise
	// Times is used as configured.
	Auto  bool
	Times int64
}

// FixedTimes repeats the bonus a constant number of times. Zero is treated
// as the unset default and resolves to one application.
func FixedTimes(n int64) Superposition { return Superposition{Times: n} }

// AutoTimes derives the repeat count from the condition threshold:
// floor(eligible metric / threshold).
func AutoTimes() Superposition { return Superposition{Auto: true} }

func (s Superposition) validate() error {
	if !s.Auto && s.Times < 0 {
		return fmt.Errorf("%w: negative superposition", ErrInvalidConfig)
	}
	return nil
}

// resolve computes the repeat count against an eligible subset. Auto mode
// uses the same metric as the eligibility condition; with no condition the
// bonus applies once.
func (s Superposition) resolve(cond Condition, eligible []catalog.Line) int64 {
	if !s.Auto {
		if s.Times == 0 {
			return 1
		}
		return s.Times
	}
	switch cond.Kind {
	case ConditionAmount:
		if !cond.Amount.IsPositive() {
			return 1
		}
		return pricing.Amount(eligible).Div(cond.Amount).Floor().IntPart()
	case ConditionCount:
		if cond.Count <= 0 {
			return 1
		}
		return pricing.Count(eligible) / cond.Count
	default:
		return 1
	}
}
