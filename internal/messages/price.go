package messages

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// priceRe matches the first dollar amount in a message body, with optional
// thousands separators and cents.
var priceRe = regexp.MustCompile(`\$[\d,]+(?:\.\d{2})?`)

// minimumOfferPrice filters out figures that are clearly not vehicle prices,
// like doc fees or monthly payments quoted in passing.
var minimumOfferPrice = decimal.NewFromInt(1000)

// ExtractPrice scans free-form message text for the first dollar amount and
// returns it when it plausibly represents a vehicle offer. Returns nil when
// no qualifying amount is present.
func ExtractPrice(text string) *decimal.Decimal {
	match := priceRe.FindString(text)
	if match == "" {
		return nil
	}

	raw := strings.ReplaceAll(strings.TrimPrefix(match, "$"), ",", "")
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	if value.LessThanOrEqual(minimumOfferPrice) {
		return nil
	}
	return &value
}
