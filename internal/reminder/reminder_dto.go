package reminder

type ReminderResponse struct {
	AssignmentID string `json:"assignment_id"`
	StaffID      string `json:"staff_id"`
	Title        string `json:"title"`
	ProjectCode  string `json:"project_code,omitempty"`
	Category     string `json:"category"`
	DueDate      string `json:"due_date"`
	DaysOverdue  int    `json:"days_overdue,omitempty"`
	Suppressed   bool   `json:"suppressed"`
}

type DispatchResponse struct {
	AssignmentID string `json:"assignment_id"`
	StaffID      string `json:"staff_id"`
	Category     string `json:"category"`
	SentOn       string `json:"sent_on"`
}

type AlertResponse struct {
	AssignmentID string `json:"assignment_id"`
	Title        string `json:"title"`
	ProjectCode  string `json:"project_code,omitempty"`
	Severity     string `json:"severity"`
	Message      string `json:"message"`
	DueDate      string `json:"due_date"`
}
