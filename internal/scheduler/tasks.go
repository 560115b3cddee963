package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskQuoteReminder = "quotes.reminder"

// QuoteReminderPayload identifies the quote and the reminder day the task was
// scheduled for. A task whose day no longer matches the quote is stale.
type QuoteReminderPayload struct {
	QuoteID      string `json:"quoteId"`
	ReminderDate string `json:"reminderDate"`
}

func NewQuoteReminderTask(payload QuoteReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskQuoteReminder, data), nil
}

func ParseQuoteReminderPayload(task *asynq.Task) (QuoteReminderPayload, error) {
	var payload QuoteReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return QuoteReminderPayload{}, err
	}
	return payload, nil
}

// reminderTaskID keeps one queued reminder per quote and day.
func reminderTaskID(payload QuoteReminderPayload) string {
	return "quote-reminder:" + payload.QuoteID + ":" + payload.ReminderDate
}
