package leave

type CreateLeaveRequest struct {
	StaffID   string `json:"staff_id" binding:"required,uuid"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type LeaveResponse struct {
	ID               string  `json:"id"`
	CompanyID        string  `json:"company_id"`
	StaffID          string  `json:"staff_id"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	TotalDays        int     `json:"total_days"`
	Reason           string  `json:"reason,omitempty"`
	SubmittedAt      string  `json:"submitted_at"`
	Status           string  `json:"status"`
	RelieverID       *string `json:"reliever_id,omitempty"`
	RelaxedSelection bool    `json:"relaxed_selection"`
	SelectionFailure *string `json:"selection_failure,omitempty"`
	CreatedBy        string  `json:"created_by"`
	ApprovedBy       *string `json:"approved_by,omitempty"`
	ApprovedAt       *string `json:"approved_at,omitempty"`
	RejectionReason  *string `json:"rejection_reason,omitempty"`
}
