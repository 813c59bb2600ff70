package assignment

type CreateAssignmentRequest struct {
	StaffID      string `json:"staff_id" binding:"required,uuid"`
	Title        string `json:"title" binding:"required"`
	ProjectCode  string `json:"project_code"`
	DueDate      string `json:"due_date" binding:"required"`
	DaysAllotted int    `json:"days_allotted" binding:"min=1"`
}

type AssignmentResponse struct {
	ID           string  `json:"id"`
	CompanyID    string  `json:"company_id"`
	StaffID      string  `json:"staff_id"`
	Title        string  `json:"title"`
	ProjectCode  string  `json:"project_code,omitempty"`
	DueDate      string  `json:"due_date"`
	DaysAllotted int     `json:"days_allotted"`
	Status       string  `json:"status"`
	CompletedAt  *string `json:"completed_at,omitempty"`
	DaysTaken    *int    `json:"days_taken,omitempty"`
}
