package jobs

type RunRequest struct {
	Date       string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Year       int    `json:"year" binding:"omitempty,min=1900,max=9999"`
	EmployeeID string `json:"employee_id" binding:"omitempty,uuid"`
	DryRun     bool   `json:"dry_run"`
	Force      bool   `json:"force"`
}

type JobResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type RunResponse struct {
	Job      string `json:"job"`
	Failures int    `json:"failures"`
	Report   any    `json:"report"`
}
