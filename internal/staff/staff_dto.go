package staff

type CreateStaffRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	RankRaw  string `json:"rank"`
}

type UpdateStaffRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	RankRaw  string `json:"rank"`
}

type StaffResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	RankRaw   string `json:"rank"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}
