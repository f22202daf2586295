package rbac

// EnforceRequest asks whether Role may perform Action on Resource. The
// HTTP check endpoint fills Role from the caller's token.
type EnforceRequest struct {
	Role     string `json:"role"`
	Resource string `json:"resource" binding:"required,oneof=leave leave_balance leave_report attendance holiday employee job"`
	Action   string `json:"action" binding:"required,max=32"`
}

type EnforceResponse struct {
	Role     string `json:"role"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Allowed  bool   `json:"allowed"`
}
