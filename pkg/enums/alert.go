package enums

// AlertType identifies the derived notification categories produced by the
// aggregator.
type AlertType string

const (
	AlertTypeUnreadMessages AlertType = "unread_messages"
	AlertTypeUncategorized  AlertType = "uncategorized_messages"
	AlertTypeExpiringQuote  AlertType = "expiring_quote"
	AlertTypeFollowUp       AlertType = "follow_up"
)
