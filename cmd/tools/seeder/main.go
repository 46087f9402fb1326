// Seeder prices the sample cart against the demo promotions and bonus rules
// and prints the resulting breakdown. It exercises the whole pipeline without
// needing the HTTP server.
package main

import (
	"context"
	"log"
	"time"

	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/checkout"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/config"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/demo"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/obs"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/order"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/shipping"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := obs.NewLogger("console", "debug")

	rules, err := demo.Rules()
	if err != nil {
		log.Fatalf("register demo rules: %v", err)
	}

	svc := &checkout.Service{
		Activities: demo.Activities(),
		Rules:      rules,
		Quoter: shipping.TableQuoter{
			Standard:  cfg.ShippingStandardFee,
			Expedited: cfg.ShippingExpeditedFee,
		},
		Currency: cfg.CurrencyCode,
		Logger:   logger,
	}

	account := demo.Account()
	o := order.New(account, demo.Cart())
	res, err := svc.Price(context.Background(), checkout.Input{
		Order:   o,
		Method:  shipping.MethodStandard,
		Coupons: demo.Coupons(),
	})
	if err != nil {
		log.Fatalf("price order: %v", err)
	}

	for _, out := range res.Outcomes {
		if out.Applied {
			account.Record(user.RedemptionLog{RuleName: out.Rule, RedeemedAt: time.Now()})
			logger.Info().Str("rule", out.Rule).Str("bonus", out.Bonus.String()).Msg("rule applied")
		} else {
			logger.Info().Str("rule", out.Rule).Str("reason", string(out.Reason)).Msg("rule skipped")
		}
	}
	logger.Info().Int("redemptions", account.RedemptionCount()).Msg("redemption history updated")
	logger.Info().
		Str("items_amount", o.ItemsAmount().String()).
		Str("activity_bonus", o.ActivityBonus().String()).
		Str("coupon_bonus", o.CouponBonus().String()).
		Str("shipping_fee", o.ShippingFee().String()).
		Str("total_amount", o.TotalAmount().String()).
		Str("currency", cfg.CurrencyCode).
		Int64("weight_grams", o.TotalWeight()).
		Msg("order priced")
}
