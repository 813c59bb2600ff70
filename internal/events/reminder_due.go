package events

import "time"

const ReminderDueTopic = "worknest.reminder.due.v1"

// ReminderDueEvent is emitted by the reminder sweep for each active
// (unsuppressed, not yet dispatched today) reminder. The engine never
// sends email itself; the external mailer consumes this topic.
type ReminderDueEvent struct {
	EventType    string    `json:"event_type"`
	AssignmentID string    `json:"assignment_id"`
	CompanyID    string    `json:"company_id"`
	StaffID      string    `json:"staff_id"`
	Category     string    `json:"category"`
	DueDate      string    `json:"due_date"`
	EvaluatedOn  string    `json:"evaluated_on"`
	OccurredAt   time.Time `json:"occurred_at"`
}
