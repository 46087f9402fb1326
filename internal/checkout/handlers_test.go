package checkout

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/bonus"
	"github.com/lazystitan/e-commerce-platform-feasibility-study/internal/user"
)

func testHandler(t *testing.T, rules ...bonus.Rule) *Handler {
	t.Helper()
	return &Handler{
		Svc:      testService(t, nil, rules...),
		Users:    user.NewDirectory(),
		Validate: validator.New(),
	}
}

func postQuote(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Quote(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestQuoteHappyPath(t *testing.T) {
	h := testHandler(t)
	rec := postQuote(t, h, `{
		"items": [
			{"sku": "apple", "unitPrice": "1.50", "qty": 4, "weightGrams": 100},
			{"sku": "bread", "unitPrice": "3.25", "qty": 1, "weightGrams": 400}
		],
		"shippingMethod": "standard",
		"coupons": [{"code": "WELCOME5", "amount": "2"}]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	require.Equal(t, "9.25", data["itemsAmount"])
	require.Equal(t, "10.87", data["shippingFee"])
	require.Equal(t, "2", data["couponBonus"])
	// 9.25 + 10.87 - 2
	require.Equal(t, "18.12", data["totalAmount"])
	require.Equal(t, "USD", data["currency"])
	require.EqualValues(t, 800, data["totalWeightGrams"])
	require.NotEmpty(t, data["orderId"])
}

func TestQuoteReportsRuleOutcomes(t *testing.T) {
	h := testHandler(t, bonus.Rule{
		Name:      "never-fires",
		Target:    bonus.TargetProduct,
		Products:  bonus.SkuSet("caviar"),
		Condition: bonus.NoCondition(),
		Form:      bonus.FlatAmount(decimal.RequireFromString("1")),
	})
	rec := postQuote(t, h, `{
		"items": [{"sku": "apple", "unitPrice": "1", "qty": 1}],
		"shippingMethod": "standard"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	rules, ok := data["rules"].([]any)
	require.True(t, ok)
	require.Len(t, rules, 1)
	outcome := rules[0].(map[string]any)
	require.Equal(t, "never-fires", outcome["rule"])
	require.Equal(t, false, outcome["applied"])
	require.Equal(t, "condition-not-met", outcome["reason"])
}

func TestQuoteRejectsInvalidJSON(t *testing.T) {
	rec := postQuote(t, testHandler(t), `{"items": [`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuoteValidatesRequest(t *testing.T) {
	cases := map[string]string{
		"no items":        `{"items": [], "shippingMethod": "standard"}`,
		"missing price":   `{"items": [{"sku": "apple", "qty": 1}], "shippingMethod": "standard"}`,
		"zero qty":        `{"items": [{"sku": "apple", "unitPrice": "1", "qty": 0}], "shippingMethod": "standard"}`,
		"missing method":  `{"items": [{"sku": "apple", "unitPrice": "1", "qty": 1}]}`,
		"negative weight": `{"items": [{"sku": "apple", "unitPrice": "1", "qty": 1, "weightGrams": -5}], "shippingMethod": "standard"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := postQuote(t, testHandler(t), body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}

func TestQuoteRejectsUnknownShippingMethod(t *testing.T) {
	rec := postQuote(t, testHandler(t), `{
		"items": [{"sku": "apple", "unitPrice": "1", "qty": 1}],
		"shippingMethod": "drone"
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuoteRejectsMalformedPricesAndCoupons(t *testing.T) {
	h := testHandler(t)

	rec := postQuote(t, h, `{
		"items": [{"sku": "apple", "unitPrice": "not-a-number", "qty": 1}],
		"shippingMethod": "standard"
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postQuote(t, h, `{
		"items": [{"sku": "apple", "unitPrice": "1", "qty": 1}],
		"shippingMethod": "standard",
		"coupons": [{"code": "X", "amount": "-3"}]
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postQuote(t, h, `{
		"items": [{"sku": "apple", "unitPrice": "1", "qty": 1}],
		"shippingMethod": "standard",
		"userId": "not-a-uuid"
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuoteMapsShippingFailureToGatewayError(t *testing.T) {
	h := testHandler(t)
	h.Svc.Quoter = failingQuoter{}

	rec := postQuote(t, h, `{
		"items": [{"sku": "apple", "unitPrice": "1", "qty": 1}],
		"shippingMethod": "standard"
	}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, "SHIPPING_QUOTE_FAILED", envelope.Error.Code)
}

func TestQuoteResolvesKnownUser(t *testing.T) {
	h := testHandler(t)
	accountID := uuid.New()
	h.Users.Put(user.NewAccount(accountID, "Roy"))

	scoped := bonus.Rule{
		Name:      "personal-5-off",
		Target:    bonus.TargetProduct,
		Products:  bonus.AllProducts(),
		Condition: bonus.NoCondition(),
		Form:      bonus.FlatAmount(decimal.RequireFromString("5")),
		UserID:    &accountID,
	}
	require.NoError(t, h.Svc.Rules.Add(scoped))

	rec := postQuote(t, h, `{
		"items": [{"sku": "apple", "unitPrice": "20", "qty": 1}],
		"shippingMethod": "standard",
		"userId": "`+accountID.String()+`"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	require.Equal(t, "5", data["activityBonus"])
}
