package events

import "time"

const LeaveApprovedTopic = "worknest.leave.approved.v1"

// LeaveApprovedEvent notifies downstream consumers (mailer, calendar
// sync) that a leave request was approved with a confirmed reliever.
type LeaveApprovedEvent struct {
	EventType  string    `json:"event_type"`
	LeaveID    string    `json:"leave_id"`
	CompanyID  string    `json:"company_id"`
	StaffID    string    `json:"staff_id"`
	RelieverID string    `json:"reliever_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Relaxed    bool      `json:"relaxed"`
	OccurredAt time.Time `json:"occurred_at"`
}
