package messages

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestExtractPrice(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"plain amount", "We can do $24,500 out the door", "24500"},
		{"with cents", "Best I can offer is $23,750.00 today", "23750"},
		{"first of several", "Was $31,000, now $29,500", "31000"},
		{"no separator", "$27000 takes it home", "27000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractPrice(tc.text)
			if got == nil {
				t.Fatalf("expected %s, got nil", tc.want)
			}
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("expected %s got %s", tc.want, got)
			}
		})
	}
}

func TestExtractPriceRejectsSmallAmounts(t *testing.T) {
	for _, text := range []string{
		"There is a $500 doc fee",
		"Payments from $299.00 a month",
		"$1,000 down gets you started",
	} {
		if got := ExtractPrice(text); got != nil {
			t.Fatalf("expected nil for %q, got %s", text, got)
		}
	}
}

func TestExtractPriceNoMatch(t *testing.T) {
	for _, text := range []string{
		"Thanks for stopping by, let me check with my manager",
		"The price is 24500 dollars",
		"",
	} {
		if got := ExtractPrice(text); got != nil {
			t.Fatalf("expected nil for %q, got %s", text, got)
		}
	}
}
