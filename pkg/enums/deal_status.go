package enums

import "fmt"

// DealStatus maps to the deal_status enum in Postgres.
type DealStatus string

const (
	DealStatusQuoteRequested DealStatus = "quote_requested"
	DealStatusNegotiating    DealStatus = "negotiating"
	DealStatusFinalOffer     DealStatus = "final_offer"
	DealStatusAccepted       DealStatus = "accepted"
	DealStatusDeclined       DealStatus = "declined"
	DealStatusExpired        DealStatus = "expired"
	DealStatusWon            DealStatus = "deal_won"
	DealStatusLost           DealStatus = "deal_lost"
)

var validDealStatuses = []DealStatus{
	DealStatusQuoteRequested,
	DealStatusNegotiating,
	DealStatusFinalOffer,
	DealStatusAccepted,
	DealStatusDeclined,
	DealStatusExpired,
	DealStatusWon,
	DealStatusLost,
}

// IsValid checks whether the given status matches the canonical enum.
func (s DealStatus) IsValid() bool {
	for _, candidate := range validDealStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsActive reports whether the status still permits offer negotiation.
func (s DealStatus) IsActive() bool {
	switch s {
	case DealStatusQuoteRequested, DealStatusNegotiating, DealStatusFinalOffer:
		return true
	}
	return false
}

// ActiveDealStatuses lists the statuses for which IsActive is true, in
// lifecycle order. Used for IN clauses so queries and IsActive cannot drift.
func ActiveDealStatuses() []DealStatus {
	return []DealStatus{DealStatusQuoteRequested, DealStatusNegotiating, DealStatusFinalOffer}
}

// IsTerminal reports whether the status ends the deal lifecycle. Terminal
// deals only accept record-keeping updates (notes).
func (s DealStatus) IsTerminal() bool {
	switch s {
	case DealStatusAccepted, DealStatusDeclined, DealStatusExpired, DealStatusWon, DealStatusLost:
		return true
	}
	return false
}

// ParseDealStatus converts raw strings into DealStatus.
func ParseDealStatus(value string) (DealStatus, error) {
	for _, candidate := range validDealStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid deal status %q", value)
}

// dealTransitions describes the negotiation-phase state machine. Negotiating
// is reachable from any active status because an inbound offer can arrive at
// any point.
var dealTransitions = map[DealStatus][]DealStatus{
	DealStatusQuoteRequested: {DealStatusNegotiating, DealStatusFinalOffer, DealStatusAccepted, DealStatusDeclined, DealStatusExpired},
	DealStatusNegotiating:    {DealStatusNegotiating, DealStatusFinalOffer, DealStatusAccepted, DealStatusDeclined, DealStatusExpired},
	DealStatusFinalOffer:     {DealStatusNegotiating, DealStatusAccepted, DealStatusDeclined, DealStatusExpired},
}

// CanTransition reports whether the negotiation-phase move from s to next is
// allowed. Completion outcomes (deal_won/deal_lost) are not reachable here;
// they are only set by the explicit complete-deal action.
func (s DealStatus) CanTransition(next DealStatus) bool {
	for _, candidate := range dealTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}
