package shipping

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseMethod(t *testing.T) {
	cases := []struct {
		in   string
		want Method
	}{
		{"standard", MethodStandard},
		{"Standard", MethodStandard},
		{"  expedited ", MethodExpedited},
		{"EXPEDITED", MethodExpedited},
	}
	for _, tc := range cases {
		got, err := ParseMethod(tc.in)
		if err != nil {
			t.Fatalf("ParseMethod(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseMethod(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := ParseMethod("drone"); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod, got %v", err)
	}
	if _, err := ParseMethod(""); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod, got %v", err)
	}
}

func TestTableQuoterFlatFees(t *testing.T) {
	q := TableQuoter{
		Standard:  decimal.RequireFromString("10.87"),
		Expedited: decimal.RequireFromString("21.77"),
	}

	fee, err := q.Quote(MethodStandard, Address{ZipCode: "10001"}, 500)
	if err != nil {
		t.Fatal(err)
	}
	if !fee.Equal(decimal.RequireFromString("10.87")) {
		t.Fatalf("standard fee = %s", fee)
	}

	fee, err = q.Quote(MethodExpedited, Address{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !fee.Equal(decimal.RequireFromString("21.77")) {
		t.Fatalf("expedited fee = %s", fee)
	}

	if _, err := q.Quote(Method(99), Address{}, 0); !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod, got %v", err)
	}
}

func TestMethodString(t *testing.T) {
	if MethodStandard.String() != "standard" || MethodExpedited.String() != "expedited" {
		t.Fatal("method selectors changed")
	}
}
