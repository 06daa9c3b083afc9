package enums

import "fmt"

// DealPriority maps to the deal_priority enum in Postgres.
type DealPriority string

const (
	DealPriorityLow    DealPriority = "low"
	DealPriorityMedium DealPriority = "medium"
	DealPriorityHigh   DealPriority = "high"
)

var validDealPriorities = []DealPriority{
	DealPriorityLow,
	DealPriorityMedium,
	DealPriorityHigh,
}

// IsValid checks whether the given priority matches the canonical enum.
func (p DealPriority) IsValid() bool {
	for _, candidate := range validDealPriorities {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseDealPriority converts raw strings into DealPriority.
func ParseDealPriority(value string) (DealPriority, error) {
	for _, candidate := range validDealPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid deal priority %q", value)
}
