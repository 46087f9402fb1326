package checkout

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/bonus"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/common"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/coupon"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/events"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/obs"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/order"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/promo"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/shipping"
)

// Service sequences the pricing pipeline over a single order: items total,
// promotion activities, bonus rules, shipping fee, coupons, summary. Each
// order is owned exclusively by one Price invocation; the service itself is
// read-only configuration and safe to share across orders.
type Service struct {
	Activities []promo.Activity
	Rules      *bonus.Registry
	Quoter     shipping.Quoter
	Currency   string
	Events     *events.Bus
	Logger     zerolog.Logger

	// Now overrides the evaluation clock for tests.
	Now func() time.Time
}

// Input carries everything one pricing run consumes.
type Input struct {
	Order   *order.Order
	Method  shipping.Method
	Dest    shipping.Address
	Coupons []coupon.Product
}

// Result is the priced order plus per-rule diagnostics.
type Result struct {
	Order    *order.Order
	Outcomes []bonus.Outcome
}

// Ready implements the health probe.
func (s *Service) Ready() error {
	if s == nil || s.Quoter == nil || s.Rules == nil {
		return errors.New("checkout service not configured")
	}
	return nil
}

// Price runs the full pipeline. Individual rule ineligibility never fails the
// run; only a missing collaborator or an unquotable shipping method does.
func (s *Service) Price(ctx context.Context, in Input) (*Result, error) {
	if err := s.Ready(); err != nil {
		return nil, err
	}
	if in.Order == nil {
		return nil, errors.New("checkout: order is required")
	}
	o := in.Order
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	o.ProcessItems()

	appliers := make([]order.Applier, 0, len(s.Activities))
	for _, a := range s.Activities {
		if a == nil {
			continue
		}
		if b := a.Bonus(o.Items); b.IsPositive() {
			if obs.ActivitiesAppliedTotal != nil {
				obs.ActivitiesAppliedTotal.WithLabelValues(a.Name()).Inc()
			}
			s.Logger.Debug().Str("activity", a.Name()).Str("bonus", b.String()).Msg("activity applied")
		} else {
			s.Logger.Debug().Str("activity", a.Name()).Msg("activity contributed nothing")
		}
		appliers = append(appliers, a)
	}
	o.ProcessActivities(appliers...)

	// The fee must be on the order before rules run: shipping-target rules
	// charge against it.
	fee, err := s.Quoter.Quote(in.Method, in.Dest, o.TotalWeight())
	if err != nil {
		if obs.QuotesTotal != nil {
			obs.QuotesTotal.WithLabelValues("shipping_error").Inc()
		}
		if errors.Is(err, shipping.ErrUnknownMethod) {
			return nil, common.NewAppError("BAD_REQUEST", err.Error(), http.StatusBadRequest, err)
		}
		return nil, common.NewAppError("SHIPPING_QUOTE_FAILED", "shipping fee lookup failed", http.StatusBadGateway, err)
	}
	o.ProcessShippingFee(fee)

	evalTime := now()
	rules := s.Rules.Rules()
	outcomes := make([]bonus.Outcome, 0, len(rules))
	for _, r := range rules {
		out := r.Apply(evalTime, o)
		outcomes = append(outcomes, out)
		result := "applied"
		if !out.Applied {
			result = string(out.Reason)
			s.Logger.Debug().
				Str("rule", out.Rule).
				Str("origin", out.Origin).
				Str("reason", result).
				Msg("bonus rule skipped")
		}
		if obs.RuleOutcomesTotal != nil {
			obs.RuleOutcomesTotal.WithLabelValues(out.Rule, result).Inc()
		}
	}

	coupons := make([]order.Applier, 0, len(in.Coupons))
	for _, c := range in.Coupons {
		coupons = append(coupons, c)
	}
	o.ProcessCoupons(coupons...)

	o.ProcessSummary()

	if obs.QuotesTotal != nil {
		obs.QuotesTotal.WithLabelValues("ok").Inc()
	}
	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicOrderPriced, o.ID, map[string]any{
			"items_amount":   o.ItemsAmount().String(),
			"activity_bonus": o.ActivityBonus().String(),
			"coupon_bonus":   o.CouponBonus().String(),
			"shipping_fee":   o.ShippingFee().String(),
			"total_amount":   o.TotalAmount().String(),
			"currency":       s.Currency,
		})
	}
	return &Result{Order: o, Outcomes: outcomes}, nil
}
