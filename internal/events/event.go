// Package events defines the quote domain events.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"chanitec_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// QuoteCreated is published after a quote aggregate commits.
type QuoteCreated struct {
	BaseEvent
	QuoteID     string `json:"quoteId"`
	SupplyItems int    `json:"supplyItems"`
	LaborItems  int    `json:"laborItems"`
}

func (e QuoteCreated) EventName() string { return "quotes.quote.created" }

// QuoteReminderSet is published when a reminder date is stored on a quote.
type QuoteReminderSet struct {
	BaseEvent
	QuoteID      string `json:"quoteId"`
	ReminderDate string `json:"reminderDate"`
}

func (e QuoteReminderSet) EventName() string { return "quotes.quote.reminder_set" }

// QuoteConfirmed is published when a quote is confirmed or unconfirmed.
type QuoteConfirmed struct {
	BaseEvent
	QuoteID        string `json:"quoteId"`
	Confirmed      bool   `json:"confirmed"`
	NumberChanitec string `json:"numberChanitec"`
}

func (e QuoteConfirmed) EventName() string { return "quotes.quote.confirmed" }

// ItemsImported is published after a spreadsheet import commits.
type ItemsImported struct {
	BaseEvent
	FileName string `json:"fileName"`
	Imported int    `json:"imported"`
	Invalid  int    `json:"invalid"`
}

func (e ItemsImported) EventName() string { return "items.import.completed" }
