package request

// ProjectAdvanceRequest moves a project one step forward.
type ProjectAdvanceRequest struct {
	Status string `json:"status" binding:"required"`
}
