package enums

import "fmt"

// SubscriptionTier maps to the subscription_tier enum in Postgres.
type SubscriptionTier string

const (
	SubscriptionTierFree         SubscriptionTier = "free"
	SubscriptionTierHaggler      SubscriptionTier = "haggler"
	SubscriptionTierNegotiator   SubscriptionTier = "negotiator"
	SubscriptionTierCloserAnnual SubscriptionTier = "closer_annual"
)

var validSubscriptionTiers = []SubscriptionTier{
	SubscriptionTierFree,
	SubscriptionTierHaggler,
	SubscriptionTierNegotiator,
	SubscriptionTierCloserAnnual,
}

// IsValid checks whether the given tier matches the canonical enum.
func (t SubscriptionTier) IsValid() bool {
	for _, candidate := range validSubscriptionTiers {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsPaid reports whether the tier is a paying plan. Paid plans are limited by
// active deals; the free plan is limited by total vehicles.
func (t SubscriptionTier) IsPaid() bool {
	return t.IsValid() && t != SubscriptionTierFree
}

// ParseSubscriptionTier converts raw strings into SubscriptionTier.
func ParseSubscriptionTier(value string) (SubscriptionTier, error) {
	for _, candidate := range validSubscriptionTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid subscription tier %q", value)
}
