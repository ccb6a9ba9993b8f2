package request

// ClientDecisionRequest is the portal decision body. The bearer token rides
// in the token query parameter, not here. Name/comment are contact data on
// approve; comment is mandatory on reject.
type ClientDecisionRequest struct {
	Decision string `json:"decision" binding:"required"`
	Name     string `json:"name"`
	Comment  string `json:"comment"`
}
