package employee

import "time"

type EmployeeResponse struct {
	ID              string `json:"id"`
	EmployeeNumber  string `json:"employee_id,omitempty"`
	FullName        string `json:"name"`
	Email           string `json:"email"`
	Designation     string `json:"designation,omitempty"`
	SubDepartmentID string `json:"sub_department_id,omitempty"`
}

type DeactivatedEmployee struct {
	ID          string `json:"id"`
	FullName    string `json:"name"`
	ClosingDate string `json:"closing_date"`
}

type DeactivationReport struct {
	Date        string                `json:"date"`
	DryRun      bool                  `json:"dry_run"`
	Candidates  []DeactivatedEmployee `json:"candidates"`
	Deactivated int64                 `json:"deactivated"`
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             e.ID.String(),
		EmployeeNumber: e.EmployeeNumber,
		FullName:       e.FullName,
		Email:          e.Email,
		Designation:    e.Designation,
	}
	if e.SubDepartmentID != nil {
		resp.SubDepartmentID = e.SubDepartmentID.String()
	}
	return resp
}

func mapToListResponse(rows []Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(rows))
	for _, e := range rows {
		out = append(out, mapToResponse(e))
	}
	return out
}

func mapToDeactivated(e Employee) DeactivatedEmployee {
	d := DeactivatedEmployee{ID: e.ID.String(), FullName: e.FullName}
	if e.ClosingDate != nil {
		d.ClosingDate = e.ClosingDate.Format(time.DateOnly)
	}
	return d
}

// Failures is always zero: deactivation is a single bulk update that
// either succeeds or returns an error.
func (r DeactivationReport) Failures() int {
	return 0
}
