package enums

import "fmt"

// PurchaseType maps to the purchase_type enum in Postgres.
type PurchaseType string

const (
	PurchaseTypeCash    PurchaseType = "cash"
	PurchaseTypeFinance PurchaseType = "finance"
	PurchaseTypeLease   PurchaseType = "lease"
)

var validPurchaseTypes = []PurchaseType{
	PurchaseTypeCash,
	PurchaseTypeFinance,
	PurchaseTypeLease,
}

// IsValid checks whether the given type matches the canonical enum.
func (p PurchaseType) IsValid() bool {
	for _, candidate := range validPurchaseTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePurchaseType converts raw strings into PurchaseType.
func ParsePurchaseType(value string) (PurchaseType, error) {
	for _, candidate := range validPurchaseTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid purchase type %q", value)
}
