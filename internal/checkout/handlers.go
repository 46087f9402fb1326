package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/catalog"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/common"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/coupon"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/order"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/shipping"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/user"
)

// Handler wires the pricing pipeline to HTTP.
type Handler struct {
	Svc      *Service
	Users    *user.Directory
	Validate *validator.Validate
}

type quoteItem struct {
	Sku         string   `json:"sku" validate:"required"`
	UnitPrice   string   `json:"unitPrice" validate:"required"`
	MarketPrice string   `json:"marketPrice"`
	Qty         int64    `json:"qty" validate:"required,gt=0"`
	WeightGrams int64    `json:"weightGrams" validate:"gte=0"`
	Attrs       []string `json:"attrs"`
}

type quoteCoupon struct {
	Code   string `json:"code"`
	Amount string `json:"amount" validate:"required"`
}

type quoteRequest struct {
	Items          []quoteItem   `json:"items" validate:"required,min=1,dive"`
	ShippingMethod string        `json:"shippingMethod" validate:"required"`
	ZipCode        string        `json:"zipCode"`
	Coupons        []quoteCoupon `json:"coupons" validate:"dive"`
	UserID         string        `json:"userId"`
}

type ruleOutcome struct {
	Rule     string `json:"rule"`
	Origin   string `json:"origin"`
	Country  string `json:"country,omitempty"`
	Domain   string `json:"domain,omitempty"`
	Visible  bool   `json:"visible"`
	Optional bool   `json:"optional"`
	Applied  bool   `json:"applied"`
	Reason   string `json:"reason,omitempty"`
	Bonus    string `json:"bonus"`
}

type quoteResponse struct {
	OrderID          string        `json:"orderId"`
	Currency         string        `json:"currency"`
	ItemsAmount      string        `json:"itemsAmount"`
	ActivityBonus    string        `json:"activityBonus"`
	CouponBonus      string        `json:"couponBonus"`
	ShippingFee      string        `json:"shippingFee"`
	TotalAmount      string        `json:"totalAmount"`
	TotalWeightGrams int64         `json:"totalWeightGrams"`
	Rules            []ruleOutcome `json:"rules"`
}

// Quote prices a cart and returns the monetary breakdown.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid quote request", err.Error())
			return
		}
	}

	method, err := shipping.ParseMethod(req.ShippingMethod)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	items, err := buildBoughtSet(req.Items)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	coupons := make([]coupon.Product, 0, len(req.Coupons))
	for _, c := range req.Coupons {
		amount, err := decimal.NewFromString(strings.TrimSpace(c.Amount))
		if err != nil || amount.IsNegative() {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", fmt.Sprintf("invalid coupon amount %q", c.Amount), nil)
			return
		}
		coupons = append(coupons, coupon.Product{Code: c.Code, Amount: amount})
	}

	var customer order.Customer
	if strings.TrimSpace(req.UserID) != "" {
		uid, err := uuid.Parse(strings.TrimSpace(req.UserID))
		if err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid user id", nil)
			return
		}
		if h.Users != nil {
			if account, ok := h.Users.Find(uid); ok {
				customer = account
			}
		}
	}

	o := order.New(customer, items)
	res, err := h.Svc.Price(r.Context(), Input{
		Order:   o,
		Method:  method,
		Dest:    shipping.Address{ZipCode: req.ZipCode},
		Coupons: coupons,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	outcomes := make([]ruleOutcome, 0, len(res.Outcomes))
	for _, out := range res.Outcomes {
		outcomes = append(outcomes, ruleOutcome{
			Rule:     out.Rule,
			Origin:   out.Origin,
			Country:  out.Country,
			Domain:   out.Domain,
			Visible:  out.Visible,
			Optional: out.Optional,
			Applied:  out.Applied,
			Reason:   string(out.Reason),
			Bonus:    out.Bonus.String(),
		})
	}
	common.JSONData(w, http.StatusOK, quoteResponse{
		OrderID:          o.ID.String(),
		Currency:         h.Svc.Currency,
		ItemsAmount:      o.ItemsAmount().String(),
		ActivityBonus:    o.ActivityBonus().String(),
		CouponBonus:      o.CouponBonus().String(),
		ShippingFee:      o.ShippingFee().String(),
		TotalAmount:      o.TotalAmount().String(),
		TotalWeightGrams: o.TotalWeight(),
		Rules:            outcomes,
	})
}

func buildBoughtSet(items []quoteItem) (*catalog.BoughtSet, error) {
	set := catalog.NewBoughtSet()
	for _, it := range items {
		price, err := decimal.NewFromString(strings.TrimSpace(it.UnitPrice))
		if err != nil {
			return nil, fmt.Errorf("invalid unit price %q for sku %s", it.UnitPrice, it.Sku)
		}
		market := price
		if strings.TrimSpace(it.MarketPrice) != "" {
			market, err = decimal.NewFromString(strings.TrimSpace(it.MarketPrice))
			if err != nil {
				return nil, fmt.Errorf("invalid market price %q for sku %s", it.MarketPrice, it.Sku)
			}
		}
		sku, err := catalog.NewSku(it.Sku, price, market, it.WeightGrams, it.Attrs...)
		if err != nil {
			return nil, err
		}
		if err := set.Add(sku, it.Qty); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
}
