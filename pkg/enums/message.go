package enums

import "fmt"

// MessageDirection maps to the message_direction enum in Postgres.
type MessageDirection string

const (
	MessageDirectionInbound  MessageDirection = "inbound"
	MessageDirectionOutbound MessageDirection = "outbound"
)

var validMessageDirections = []MessageDirection{
	MessageDirectionInbound,
	MessageDirectionOutbound,
}

// IsValid checks whether the given direction matches the canonical enum.
func (d MessageDirection) IsValid() bool {
	for _, candidate := range validMessageDirections {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseMessageDirection converts raw strings into MessageDirection.
func ParseMessageDirection(value string) (MessageDirection, error) {
	for _, candidate := range validMessageDirections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid message direction %q", value)
}

// MessageChannel maps to the message_channel enum in Postgres.
type MessageChannel string

const (
	MessageChannelApp   MessageChannel = "app"
	MessageChannelEmail MessageChannel = "email"
	MessageChannelText  MessageChannel = "text"
)

var validMessageChannels = []MessageChannel{
	MessageChannelApp,
	MessageChannelEmail,
	MessageChannelText,
}

// IsValid checks whether the given channel matches the canonical enum.
func (c MessageChannel) IsValid() bool {
	for _, candidate := range validMessageChannels {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseMessageChannel converts raw strings into MessageChannel.
func ParseMessageChannel(value string) (MessageChannel, error) {
	for _, candidate := range validMessageChannels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid message channel %q", value)
}
