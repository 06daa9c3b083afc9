package notifications

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hagglehub/hagglehub-backend/pkg/db/models"
	"github.com/hagglehub/hagglehub-backend/pkg/enums"
)

const (
	// quoteExpiryWindow is how far ahead an expiring quote raises an alert.
	quoteExpiryWindow = 3 * 24 * time.Hour
	// staleFollowUpAge is how long a deal may sit untouched before a nudge.
	staleFollowUpAge = 5 * 24 * time.Hour
	// maxFollowUpAlerts bounds the follow-up nudges per pass.
	maxFollowUpAlerts = 3
	// maxAlerts bounds the whole alert list.
	maxAlerts = 10
	// maxNamedDealers is how many dealer names the unread summary spells out.
	maxNamedDealers = 2
)

// Alert is one derived notification. Alerts are recomputed on every read and
// never persisted.
type Alert struct {
	Type     enums.AlertType `json:"type"`
	Title    string          `json:"title"`
	Body     string          `json:"body"`
	Count    int             `json:"count,omitempty"`
	DealID   *uuid.UUID      `json:"deal_id,omitempty"`
	Target   string          `json:"target"`
	Priority string          `json:"priority"`
}

// Snapshot is the read model the aggregator derives alerts from. All rows
// belong to one user.
type Snapshot struct {
	Now            time.Time
	Deals          []models.Deal
	UnreadInbound  []models.Message
	LastMessageAt  map[uuid.UUID]time.Time
	DealerNames    map[uuid.UUID]string
	FallbackDealID *uuid.UUID
}

// lastActivity is when the deal's thread last moved: the newest message in
// either direction, or the deal's creation when no message exists yet.
func (s Snapshot) lastActivity(deal *models.Deal) time.Time {
	if at, ok := s.LastMessageAt[deal.ID]; ok {
		return at
	}
	return deal.CreatedAt
}

// BuildAlerts derives the user's notification list from a snapshot. Unread
// messages collapse into a single aggregate alert; messages parked on the
// fallback deal get their own entry; quotes expiring within three days and
// deals idle past five days each raise per-deal alerts. The list is capped at
// ten entries.
func BuildAlerts(s Snapshot) []Alert {
	alerts := make([]Alert, 0, maxAlerts)

	if a := unreadAlert(s); a != nil {
		alerts = append(alerts, *a)
	}
	if a := uncategorizedAlert(s); a != nil {
		alerts = append(alerts, *a)
	}
	alerts = append(alerts, expiringQuoteAlerts(s)...)
	alerts = append(alerts, followUpAlerts(s)...)

	if len(alerts) > maxAlerts {
		alerts = alerts[:maxAlerts]
	}
	return alerts
}

// unreadAlert aggregates unread dealer replies that already belong to a real
// negotiation.
func unreadAlert(s Snapshot) *Alert {
	var matched []models.Message
	for _, m := range s.UnreadInbound {
		if s.FallbackDealID != nil && m.DealID == *s.FallbackDealID {
			continue
		}
		matched = append(matched, m)
	}
	if len(matched) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]bool)
	var names []string
	for _, m := range matched {
		if seen[m.DealerID] {
			continue
		}
		seen[m.DealerID] = true
		if name, ok := s.DealerNames[m.DealerID]; ok && name != "" {
			names = append(names, name)
		}
	}

	noun := "messages"
	if len(matched) == 1 {
		noun = "message"
	}
	return &Alert{
		Type:     enums.AlertTypeUnreadMessages,
		Title:    fmt.Sprintf("%d unread %s", len(matched), noun),
		Body:     fmt.Sprintf("New replies from %s", summarizeNames(names)),
		Count:    len(matched),
		Target:   "/messages",
		Priority: "high",
	}
}

// summarizeNames spells out the first two dealers and folds the rest into a
// "+N more" suffix.
func summarizeNames(names []string) string {
	switch {
	case len(names) == 0:
		return "your dealers"
	case len(names) <= maxNamedDealers:
		return strings.Join(names, " and ")
	default:
		shown := strings.Join(names[:maxNamedDealers], ", ")
		return fmt.Sprintf("%s +%d more", shown, len(names)-maxNamedDealers)
	}
}

func uncategorizedAlert(s Snapshot) *Alert {
	if s.FallbackDealID == nil {
		return nil
	}
	count := 0
	for _, m := range s.UnreadInbound {
		if m.DealID == *s.FallbackDealID {
			count++
		}
	}
	if count == 0 {
		return nil
	}

	noun := "messages"
	if count == 1 {
		noun = "message"
	}
	return &Alert{
		Type:     enums.AlertTypeUncategorized,
		Title:    fmt.Sprintf("%d uncategorized %s", count, noun),
		Body:     "Assign them to a deal so replies stay in one thread",
		Count:    count,
		Target:   "/inbox",
		Priority: "medium",
	}
}

func expiringQuoteAlerts(s Snapshot) []Alert {
	var alerts []Alert
	deadline := s.Now.Add(quoteExpiryWindow)
	for i := range s.Deals {
		deal := &s.Deals[i]
		if !deal.Status.IsActive() || deal.QuoteExpires == nil {
			continue
		}
		expires := *deal.QuoteExpires
		if !expires.After(s.Now) || expires.After(deadline) {
			continue
		}

		id := deal.ID
		alerts = append(alerts, Alert{
			Type:     enums.AlertTypeExpiringQuote,
			Title:    fmt.Sprintf("Quote from %s expires soon", dealerName(s, deal.DealerID)),
			Body:     fmt.Sprintf("The quote expires %s", expires.Format("Jan 2")),
			DealID:   &id,
			Target:   fmt.Sprintf("/deals/%s", id),
			Priority: "high",
		})
	}
	return alerts
}

func followUpAlerts(s Snapshot) []Alert {
	cutoff := s.Now.Add(-staleFollowUpAge)

	var stale []*models.Deal
	for i := range s.Deals {
		deal := &s.Deals[i]
		if !deal.Status.IsActive() || deal.IsFallback {
			continue
		}
		if s.lastActivity(deal).Before(cutoff) {
			stale = append(stale, deal)
		}
	}
	// Oldest first so the most neglected deals surface within the cap.
	sort.Slice(stale, func(i, j int) bool {
		return s.lastActivity(stale[i]).Before(s.lastActivity(stale[j]))
	})
	if len(stale) > maxFollowUpAlerts {
		stale = stale[:maxFollowUpAlerts]
	}

	alerts := make([]Alert, 0, len(stale))
	for _, deal := range stale {
		id := deal.ID
		days := int(s.Now.Sub(s.lastActivity(deal)).Hours() / 24)
		alerts = append(alerts, Alert{
			Type:     enums.AlertTypeFollowUp,
			Title:    fmt.Sprintf("Follow up with %s", dealerName(s, deal.DealerID)),
			Body:     fmt.Sprintf("No activity for %d days", days),
			DealID:   &id,
			Target:   fmt.Sprintf("/deals/%s", id),
			Priority: "low",
		})
	}
	return alerts
}

func dealerName(s Snapshot, dealerID uuid.UUID) string {
	if name, ok := s.DealerNames[dealerID]; ok && name != "" {
		return name
	}
	return "the dealer"
}
