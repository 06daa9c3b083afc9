package plans

import (
	"fmt"

	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
)

// Unlimited marks a tier with no deal cap.
const Unlimited = -1

var tierLimits = map[enums.SubscriptionTier]int{
	enums.SubscriptionTierFree:         1,
	enums.SubscriptionTierHaggler:      3,
	enums.SubscriptionTierNegotiator:   10,
	enums.SubscriptionTierCloserAnnual: Unlimited,
}

// Limit returns the cap for the tier. Unknown tiers fall back to the free
// plan rather than granting unlimited access.
func Limit(tier enums.SubscriptionTier) int {
	if limit, ok := tierLimits[tier]; ok {
		return limit
	}
	return tierLimits[enums.SubscriptionTierFree]
}

// Holdings is the snapshot of what the user currently has. The free tier
// counts total vehicles; paid tiers count active deals only.
type Holdings struct {
	TotalVehicles int
	ActiveDeals   int
}

// CheckCanCreate returns a plan-limit error when the tier's cap would be
// exceeded by tracking one more vehicle/deal.
func CheckCanCreate(tier enums.SubscriptionTier, holdings Holdings) error {
	limit := Limit(tier)
	if limit == Unlimited {
		return nil
	}

	counted := holdings.ActiveDeals
	noun := "active deals"
	if !tier.IsPaid() {
		counted = holdings.TotalVehicles
		noun = "vehicles"
	}

	if counted >= limit {
		return pkgerrors.New(pkgerrors.CodePlanLimit,
			fmt.Sprintf("the %s plan allows %d %s; upgrade to track more", planName(tier), limit, noun)).
			WithDetails(map[string]any{"tier": string(tier), "limit": limit, "current": counted})
	}
	return nil
}

func planName(tier enums.SubscriptionTier) string {
	switch tier {
	case enums.SubscriptionTierHaggler:
		return "Haggler"
	case enums.SubscriptionTierNegotiator:
		return "Negotiator"
	case enums.SubscriptionTierCloserAnnual:
		return "Closer (Annual)"
	default:
		return "Free"
	}
}
