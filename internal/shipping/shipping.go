package shipping

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownMethod is returned for an unrecognised shipping method selector.
var ErrUnknownMethod = errors.New("shipping: unknown method")

// Method selects a shipping service level.
type Method int

const (
	// MethodStandard is regular ground shipping.
	MethodStandard Method = iota + 1
	// MethodExpedited is accelerated shipping.
	MethodExpedited
)

// ParseMethod maps a wire selector onto a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard":
		return MethodStandard, nil
	case "expedited":
		return MethodExpedited, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// String returns the wire selector.
func (m Method) String() string {
	switch m {
	case MethodStandard:
		return "standard"
	case MethodExpedited:
		return "expedited"
	default:
		return "unknown"
	}
}

// Region is one level of a destination hierarchy.
type Region struct {
	ID   int32
	Code string
	Name string
}

// Address is the shipping destination.
type Address struct {
	Country  Region
	Province Region
	City     Region
	ZipCode  string
}

// Quoter is the shipping collaborator contract: given a method, destination
// and total weight it returns the fee the order stores verbatim. The pricing
// core calls it exactly once per order.
type Quoter interface {
	Quote(method Method, dest Address, weightGrams int64) (decimal.Decimal, error)
}

// TableQuoter quotes flat fees per method from configuration. Destination
// and weight do not influence the fee yet.
type TableQuoter struct {
	Standard  decimal.Decimal
	Expedited decimal.Decimal
}

// Quote implements Quoter.
func (t TableQuoter) Quote(method Method, _ Address, _ int64) (decimal.Decimal, error) {
	switch method {
	case MethodStandard:
		return t.Standard, nil
	case MethodExpedited:
		return t.Expedited, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %d", ErrUnknownMethod, method)
	}
}
