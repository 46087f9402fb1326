package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyName is returned when a SKU is constructed without an identifier.
	ErrEmptyName = errors.New("catalog: sku name is required")
	// ErrNegativePrice is returned when a SKU carries a negative price.
	ErrNegativePrice = errors.New("catalog: sku price must not be negative")
	// ErrNegativeWeight is returned when a SKU carries a negative weight.
	ErrNegativeWeight = errors.New("catalog: sku weight must not be negative")
	// ErrNonPositiveQty is returned when a line is added with a quantity below one.
	ErrNonPositiveQty = errors.New("catalog: quantity must be positive")
)

// Sku is the smallest purchasable unit of product. Two SKUs with the same
// name are the same catalog entry; callers must not construct duplicates
// with diverging prices. Immutable after construction.
type Sku struct {
	name        string
	shopPrice   decimal.Decimal
	marketPrice decimal.Decimal
	weight      int64
	attrs       map[string]struct{}
}

// NewSku builds a SKU. The market price is display data only and never
// participates in pricing math. Weight is in grams.
func NewSku(name string, shopPrice, marketPrice decimal.Decimal, weight int64, attrs ...string) (Sku, error) {
	if name == "" {
		return Sku{}, ErrEmptyName
	}
	if shopPrice.IsNegative() || marketPrice.IsNegative() {
		return Sku{}, fmt.Errorf("%w: %s", ErrNegativePrice, name)
	}
	if weight < 0 {
		return Sku{}, fmt.Errorf("%w: %s", ErrNegativeWeight, name)
	}
	set := make(map[string]struct{}, len(attrs))
	for _, a := range attrs {
		if a == "" {
			continue
		}
		set[a] = struct{}{}
	}
	return Sku{name: name, shopPrice: shopPrice, marketPrice: marketPrice, weight: weight, attrs: set}, nil
}

// MustSku is NewSku that panics on invalid input. Intended for fixtures and seed data.
func MustSku(name, shopPrice, marketPrice string, weight int64, attrs ...string) Sku {
	s, err := NewSku(name, decimal.RequireFromString(shopPrice), decimal.RequireFromString(marketPrice), weight, attrs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the SKU identifier.
func (s Sku) Name() string { return s.name }

// Price returns the shop price used in all pricing math.
func (s Sku) Price() decimal.Decimal { return s.shopPrice }

// MarketPrice returns the display price.
func (s Sku) MarketPrice() decimal.Decimal { return s.marketPrice }

// Weight returns the unit weight in grams.
func (s Sku) Weight() int64 { return s.weight }

// HasAttr reports whether the SKU carries the given attribute tag.
func (s Sku) HasAttr(attr string) bool {
	_, ok := s.attrs[attr]
	return ok
}

// Attrs returns the attribute tags in sorted order.
func (s Sku) Attrs() []string {
	out := make([]string, 0, len(s.attrs))
	for a := range s.attrs {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Line pairs a SKU with a purchased quantity.
type Line struct {
	Sku Sku
	Qty int64
}

// Subtotal is price multiplied by quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Sku.Price().Mul(decimal.NewFromInt(l.Qty))
}

// BoughtSet is the multiset of SKUs in a cart: each entry maps a SKU to a
// strictly positive quantity. Lines are keyed by SKU name.
type BoughtSet struct {
	lines map[string]Line
}

// NewBoughtSet returns an empty bought set.
func NewBoughtSet() *BoughtSet {
	return &BoughtSet{lines: make(map[string]Line)}
}

// Add merges qty units of the SKU into the set. Quantities below one are rejected,
// so a zero-quantity entry can never exist.
func (b *BoughtSet) Add(sku Sku, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: %s qty %d", ErrNonPositiveQty, sku.Name(), qty)
	}
	if sku.Name() == "" {
		return ErrEmptyName
	}
	line := b.lines[sku.Name()]
	line.Sku = sku
	line.Qty += qty
	b.lines[sku.Name()] = line
	return nil
}

// Len returns the number of distinct SKUs in the set.
func (b *BoughtSet) Len() int { return len(b.lines) }

// Lines returns every line sorted by SKU name. The slice is a copy; mutating
// it does not touch the set.
func (b *BoughtSet) Lines() []Line {
	out := make([]Line, 0, len(b.lines))
	for _, l := range b.lines {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sku.Name() < out[j].Sku.Name() })
	return out
}

// Filter returns the lines whose SKU satisfies keep, without mutating the set.
func (b *BoughtSet) Filter(keep func(Sku) bool) []Line {
	out := make([]Line, 0, len(b.lines))
	for _, l := range b.Lines() {
		if keep(l.Sku) {
			out = append(out, l)
		}
	}
	return out
}

// IntersectByNames returns the lines whose SKU name appears in names.
func (b *BoughtSet) IntersectByNames(names []string) []Line {
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}
	return b.Filter(func(s Sku) bool {
		_, ok := wanted[s.Name()]
		return ok
	})
}

// TotalAmount is the sum of price multiplied by quantity over all lines.
func (b *BoughtSet) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, l := range b.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// TotalCount is the sum of quantities over all lines.
func (b *BoughtSet) TotalCount() int64 {
	var total int64
	for _, l := range b.lines {
		total += l.Qty
	}
	return total
}

// TotalWeight is the summed weight in grams over all units.
func (b *BoughtSet) TotalWeight() int64 {
	var total int64
	for _, l := range b.lines {
		total += l.Sku.Weight() * l.Qty
	}
	return total
}
