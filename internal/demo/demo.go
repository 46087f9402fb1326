// Package demo carries the sample catalog, cart, promotions and bonus rules
// used by development mode and the demo CLI.
package demo

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/bonus"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/catalog"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/coupon"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/promo"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/user"
)

// AccountID identifies the demo customer.
var AccountID = uuid.MustParse("3e0f5a47-9c62-4f1e-8f30-6b3a2f4d9a01")

// Account returns the demo customer with two past redemptions.
func Account() *user.Account {
	return user.NewAccount(AccountID, "demo",
		user.RedemptionLog{RuleName: "spend-over-100-save-10pct"},
		user.RedemptionLog{RuleName: "spend-over-100-save-10pct"},
	)
}

// Cart returns the sample bought set.
func Cart() *catalog.BoughtSet {
	samples := []struct {
		sku    string
		price  string
		market string
		qty    int64
	}{
		{"10001200014432300015987", "5.99", "7.99", 3},
		{"10001200024432300015938", "3.99", "4.99", 2},
		{"10001200026432300015938", "5.99", "8.99", 3},
		{"10001200026432300015939", "12.99", "16.99", 4},
		{"10001200026432300025938", "90.99", "100.99", 5},
		{"10001200076432300025938", "23.99", "26.99", 6},
		{"10001200076432300025934", "56.99", "70.99", 7},
		{"10001200076432300035934", "77.99", "168.99", 8},
		{"10001200076432300045934", "89.99", "100.99", 1},
		{"10001200076412300025984", "16.99", "23.99", 2},
		{"10001200074412300015984", "30.99", "33.99", 3},
		{"10001200074412300010984", "12.99", "15.99", 4},
		{"10001200074412400010984", "14.99", "17.99", 5},
		{"10001200024412300010984", "16.99", "19.99", 1},
		{"10001200024412300010988", "17.99", "22.99", 2},
	}
	set := catalog.NewBoughtSet()
	for _, s := range samples {
		if err := set.Add(catalog.MustSku(s.sku, s.price, s.market, 200), s.qty); err != nil {
			panic(err)
		}
	}
	return set
}

// Activities returns the sample promotions.
func Activities() []promo.Activity {
	return []promo.Activity{
		promo.FullMinusOne{
			Label:     "grocery-4-free-1",
			Threshold: 4,
			Skus: []string{
				"10001200024432300015938",
				"10001200026432300015938",
				"10001200026432300015939",
				"10001200074412300015984",
			},
		},
		promo.BundlePrice{
			Label:      "premium-3-for-50",
			BundleSize: 3,
			FixedPrice: decimal.RequireFromString("50.00"),
			Skus: []string{
				"10001200076432300025934",
				"10001200076432300035934",
				"10001200024412300010988",
			},
		},
	}
}

// Rules returns the sample bonus rules, exercising every supported limit kind.
func Rules() (*bonus.Registry, error) {
	maxRedemptions := 2
	unitCap := int64(3)
	return bonus.NewRegistry(
		bonus.Rule{
			Name:          "spend-over-100-save-10pct",
			Origin:        bonus.OriginMarketingStaff,
			Target:        bonus.TargetProduct,
			Products:      bonus.AllProducts(),
			Condition:     bonus.MinAmount(decimal.RequireFromString("100")),
			Form:          bonus.Percent(decimal.RequireFromString("0.1")),
			Superposition: bonus.FixedTimes(1),
			Visible:       true,
		},
		bonus.Rule{
			Name:          "cheapest-3-half-price",
			Origin:        bonus.OriginPointsSystem,
			Target:        bonus.TargetProduct,
			Products:      bonus.SkuSet("10001200014432300015987", "10001200024432300015938", "10001200026432300015938"),
			Condition:     bonus.MinCount(4),
			Form:          bonus.Percent(decimal.RequireFromString("0.5")),
			UnitCap:       &unitCap,
			Superposition: bonus.FixedTimes(1),
			Visible:       true,
		},
		bonus.Rule{
			Name:           "loyal-customer-5-off",
			Origin:         bonus.OriginCustomerServiceStaff,
			Target:         bonus.TargetProduct,
			Products:       bonus.AllProducts(),
			Condition:      bonus.NoCondition(),
			Form:           bonus.FlatAmount(decimal.RequireFromString("5")),
			Superposition:  bonus.FixedTimes(1),
			MaxRedemptions: &maxRedemptions,
			UserID:         &AccountID,
			Visible:        true,
		},
		bonus.Rule{
			Name:          "free-shipping-over-50-count",
			Origin:        bonus.OriginReturnCompensation,
			Target:        bonus.TargetShipping,
			Products:      bonus.AllProducts(),
			Condition:     bonus.MinCount(50),
			Form:          bonus.Percent(decimal.RequireFromString("1")),
			Superposition: bonus.FixedTimes(1),
			Visible:       true,
		},
	)
}

// Coupons returns the sample redeemed coupons.
func Coupons() []coupon.Product {
	return []coupon.Product{
		{Code: "WELCOME5", Amount: decimal.RequireFromString("5")},
	}
}
