package request

// CreateServiceRequestRequest is the intake payload.
type CreateServiceRequestRequest struct {
	Description string `json:"description" binding:"required"`
}

// ReviewRequest carries the consultant decision (accept|reject). Reason is
// mandatory on reject; the use case enforces that.
type ReviewRequest struct {
	Decision string `json:"decision" binding:"required"`
	Reason   string `json:"reason"`
}
