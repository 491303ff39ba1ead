package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type column on outbox_events.
type OutboxAggregateType string

const (
	AggregateQuote         OutboxAggregateType = "quote"
	AggregateOffer         OutboxAggregateType = "offer"
	AggregateKickoffTask   OutboxAggregateType = "kickoff_task"
	AggregateMessage       OutboxAggregateType = "message"
	AggregateChangeRequest OutboxAggregateType = "change_request"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateQuote,
	AggregateOffer,
	AggregateKickoffTask,
	AggregateMessage,
	AggregateChangeRequest,
}

// IsValid reports whether the value is a known aggregate type.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type column on outbox_events.
type OutboxEventType string

const (
	EventMessagePosted          OutboxEventType = "message_posted"
	EventOfferWon               OutboxEventType = "offer_won"
	EventQuoteStatusChanged     OutboxEventType = "quote_status_changed"
	EventKickoffChanged         OutboxEventType = "kickoff_changed"
	EventChangeRequestSubmitted OutboxEventType = "change_request_submitted"
)

var validOutboxEventTypes = []OutboxEventType{
	EventMessagePosted,
	EventOfferWon,
	EventQuoteStatusChanged,
	EventKickoffChanged,
	EventChangeRequestSubmitted,
}

// IsValid reports whether the value is a known event type.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
