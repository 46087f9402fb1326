package bonus

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/order"
)

type stubCustomer struct {
	id          uuid.UUID
	redemptions int
}

func (c stubCustomer) ID() uuid.UUID        { return c.id }
func (c stubCustomer) RedemptionCount() int { return c.redemptions }

func pricedOrder(t *testing.T, c order.Customer, lines map[string]line) *order.Order {
	t.Helper()
	o := order.New(c, testCart(t, lines))
	o.ProcessItems()
	return o
}

func TestChargePercentCappedAtItemsAmount(t *testing.T) {
	o := pricedOrder(t, nil, map[string]line{"a": {"10", 1}})
	rule := Rule{
		Name:          "full-refund-twice",
		Target:        TargetProduct,
		Products:      AllProducts(),
		Condition:     NoCondition(),
		Form:          Percent(decimal.RequireFromString("1")),
		Superposition: FixedTimes(2),
	}
	// 100% twice would be 20; the charge never exceeds the item value.
	require.True(t, rule.Charge(o).Equal(decimal.RequireFromString("10")))
}

func TestChargeFlatCappedAtItemsAmount(t *testing.T) {
	o := pricedOrder(t, nil, map[string]line{"a": {"3", 1}})
	rule := Rule{
		Name:      "big-flat",
		Target:    TargetProduct,
		Products:  AllProducts(),
		Condition: NoCondition(),
		Form:      FlatAmount(decimal.RequireFromString("50")),
	}
	require.True(t, rule.Charge(o).Equal(decimal.RequireFromString("3")))
}

func TestChargeUnitCappedPercentUsesCheapestUnits(t *testing.T) {
	o := pricedOrder(t, nil, map[string]line{
		"cheap": {"2", 2},
		"mid":   {"5", 1},
		"dear":  {"9", 1},
	})
	cap := int64(3)
	rule := Rule{
		Name:      "half-off-three",
		Target:    TargetProduct,
		Products:  AllProducts(),
		Condition: NoCondition(),
		Form:      Percent(decimal.RequireFromString("0.5")),
		UnitCap:   &cap,
	}
	// Cheapest three units: 2 + 2 + 5 = 9, halved.
	require.True(t, rule.Charge(o).Equal(decimal.RequireFromString("4.5")))
}

func TestChargeShippingFormsCappedAtFee(t *testing.T) {
	o := pricedOrder(t, nil, map[string]line{"a": {"10", 1}})
	o.ProcessShippingFee(decimal.RequireFromString("10.87"))

	pct := Rule{
		Name:      "free-shipping",
		Target:    TargetShipping,
		Products:  AllProducts(),
		Condition: NoCondition(),
		Form:      Percent(decimal.RequireFromString("1")),
	}
	require.True(t, pct.Charge(o).Equal(decimal.RequireFromString("10.87")))

	flat := Rule{
		Name:      "20-off-shipping",
		Target:    TargetShipping,
		Products:  AllProducts(),
		Condition: NoCondition(),
		Form:      FlatAmount(decimal.RequireFromString("20")),
	}
	require.True(t, flat.Charge(o).Equal(decimal.RequireFromString("10.87")))
}

func TestChargeIsPure(t *testing.T) {
	o := pricedOrder(t, nil, map[string]line{"a": {"40", 2}})
	rule := Rule{
		Name:      "ten-pct",
		Target:    TargetProduct,
		Products:  AllProducts(),
		Condition: NoCondition(),
		Form:      Percent(decimal.RequireFromString("0.1")),
	}
	first := rule.Charge(o)
	second := rule.Charge(o)
	require.True(t, first.Equal(second))
	require.True(t, o.ActivityBonus().IsZero(), "charge must not mutate the order")
}

func TestApplyGateSequence(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	scopedID := uuid.New()
	limit := 2

	base := Rule{
		Name:      "gated",
		Target:    TargetProduct,
		Products:  AllProducts(),
		Condition: NoCondition(),
		Form:      FlatAmount(decimal.RequireFromString("1")),
	}

	t.Run("expired window", func(t *testing.T) {
		rule := base
		rule.ValidTo = &past
		o := pricedOrder(t, nil, map[string]line{"a": {"10", 1}})
		out := rule.Apply(now, o)
		require.False(t, out.Applied)
		require.Equal(t, SkipExpired, out.Reason)
		require.True(t, o.ActivityBonus().IsZero())
	})

	t.Run("use limit exceeded", func(t *testing.T) {
		rule := base
		rule.MaxRedemptions = &limit
		o := pricedOrder(t, stubCustomer{id: scopedID, redemptions: 3}, map[string]line{"a": {"10", 1}})
		out := rule.Apply(now, o)
		require.Equal(t, SkipUseLimit, out.Reason)
	})

	t.Run("use limit boundary allows equal count", func(t *testing.T) {
		rule := base
		rule.MaxRedemptions = &limit
		o := pricedOrder(t, stubCustomer{id: scopedID, redemptions: 2}, map[string]line{"a": {"10", 1}})
		out := rule.Apply(now, o)
		require.True(t, out.Applied)
	})

	t.Run("user mismatch", func(t *testing.T) {
		rule := base
		rule.UserID = &scopedID
		o := pricedOrder(t, stubCustomer{id: uuid.New()}, map[string]line{"a": {"10", 1}})
		out := rule.Apply(now, o)
		require.Equal(t, SkipUserMismatch, out.Reason)
	})

	t.Run("user scoped rejects guests", func(t *testing.T) {
		rule := base
		rule.UserID = &scopedID
		o := pricedOrder(t, nil, map[string]line{"a": {"10", 1}})
		out := rule.Apply(now, o)
		require.Equal(t, SkipUserMismatch, out.Reason)
	})

	t.Run("condition not met", func(t *testing.T) {
		rule := base
		rule.Condition = MinAmount(decimal.RequireFromString("999"))
		o := pricedOrder(t, nil, map[string]line{"a": {"10", 1}})
		out := rule.Apply(now, o)
		require.Equal(t, SkipNotEligible, out.Reason)
	})

	t.Run("auto superposition repeats the bonus", func(t *testing.T) {
		rule := base
		rule.Condition = MinCount(4)
		rule.Superposition = AutoTimes()
		o := pricedOrder(t, nil, map[string]line{"a": {"10", 9}})
		out := rule.Apply(now, o)
		require.True(t, out.Applied)
		require.True(t, out.Bonus.Equal(decimal.RequireFromString("2")), "flat 1 applied twice")
	})

	t.Run("zero bonus", func(t *testing.T) {
		rule := base
		rule.Form = FlatAmount(decimal.Zero)
		o := pricedOrder(t, nil, map[string]line{"a": {"10", 1}})
		out := rule.Apply(now, o)
		require.Equal(t, SkipZeroBonus, out.Reason)
		require.False(t, out.Applied)
	})
}

func TestApplyAccumulatesAcrossRules(t *testing.T) {
	now := time.Now()
	o := pricedOrder(t, nil, map[string]line{"a": {"100", 1}})

	first := Rule{
		Name:      "ten-off",
		Target:    TargetProduct,
		Products:  AllProducts(),
		Condition: NoCondition(),
		Form:      FlatAmount(decimal.RequireFromString("10")),
	}
	second := Rule{
		Name:      "five-off",
		Target:    TargetProduct,
		Products:  AllProducts(),
		Condition: NoCondition(),
		Form:      FlatAmount(decimal.RequireFromString("5")),
	}

	require.True(t, first.Apply(now, o).Applied)
	require.True(t, second.Apply(now, o).Applied)
	require.True(t, o.ActivityBonus().Equal(decimal.RequireFromString("15")))
}

func TestApplyCopiesRuleMetadataIntoOutcome(t *testing.T) {
	rule := Rule{
		Name:      "metadata",
		Country:   "NL",
		Domain:    "grocery",
		Origin:    OriginMarketingStaff,
		Target:    TargetProduct,
		Products:  AllProducts(),
		Condition: NoCondition(),
		Form:      FlatAmount(decimal.RequireFromString("1")),
		Visible:   true,
		Optional:  true,
	}
	o := pricedOrder(t, nil, map[string]line{"a": {"10", 1}})
	out := rule.Apply(time.Now(), o)
	require.True(t, out.Applied)
	require.Equal(t, "NL", out.Country)
	require.Equal(t, "grocery", out.Domain)
	require.Equal(t, "marketing-staff", out.Origin)
	require.True(t, out.Visible)
	require.True(t, out.Optional)
}

func TestRegistryValidatesAndPreservesOrder(t *testing.T) {
	a := Rule{Name: "a", Target: TargetProduct, Products: AllProducts(), Form: FlatAmount(decimal.Zero)}
	b := Rule{Name: "b", Target: TargetShipping, Products: AllProducts(), Form: FlatAmount(decimal.Zero)}

	reg, err := NewRegistry(a, b)
	require.NoError(t, err)
	rules := reg.Rules()
	require.Len(t, rules, 2)
	require.Equal(t, "a", rules[0].Name)
	require.Equal(t, "b", rules[1].Name)

	rules[0].Name = "mutated"
	require.Equal(t, "a", reg.Rules()[0].Name)
}
