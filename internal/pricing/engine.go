package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/catalog"
)

// Amount sums price multiplied by quantity over the given lines.
func Amount(lines []catalog.Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Count sums quantities over the given lines.
func Count(lines []catalog.Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.Qty
	}
	return total
}

// SortByPriceAsc orders lines cheapest first. The sort is stable so lines of
// equal price keep their incoming order.
func SortByPriceAsc(lines []catalog.Line) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Sku.Price().LessThan(lines[j].Sku.Price())
	})
}

// CheapestSubtotal returns the summed price of the budget cheapest units among
// the given lines. A line is consumed whole when its quantity fits the
// remaining budget, otherwise partially. The input slice is not modified.
//
// This is the single allocation routine behind the full-minus-one promotion,
// the bundle-price promotion and range-capped percentage bonuses; all three
// must stay numerically identical.
func CheapestSubtotal(lines []catalog.Line, budget int64) decimal.Decimal {
	if budget <= 0 || len(lines) == 0 {
		return decimal.Zero
	}
	sorted := make([]catalog.Line, len(lines))
	copy(sorted, lines)
	SortByPriceAsc(sorted)

	total := decimal.Zero
	remaining := budget
	for _, l := range sorted {
		if l.Qty <= remaining {
			total = total.Add(l.Subtotal())
			remaining -= l.Qty
			if remaining == 0 {
				break
			}
			continue
		}
		total = total.Add(l.Sku.Price().Mul(decimal.NewFromInt(remaining)))
		break
	}
	return total
}
