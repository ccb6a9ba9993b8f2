package entities

import "time"

// ServiceRequestStatus represents the lifecycle of a client service request.
//
// Domain notes:
//   - The engine is the source of truth for pipeline state.
//   - CLIENT_APPROVED / CLIENT_REJECTED / PROJECT_CREATED are reached only
//     through the client portal decision path.

type ServiceRequestStatus string

const (
	RequestStatusPendingReview      ServiceRequestStatus = "PENDING_REVIEW"
	RequestStatusConsultantAccepted ServiceRequestStatus = "CONSULTANT_ACCEPTED"
	RequestStatusConsultantRejected ServiceRequestStatus = "CONSULTANT_REJECTED"
	RequestStatusClientApproved     ServiceRequestStatus = "CLIENT_APPROVED"
	RequestStatusClientRejected     ServiceRequestStatus = "CLIENT_REJECTED"
	RequestStatusProjectCreated     ServiceRequestStatus = "PROJECT_CREATED"
)

// ServiceRequest is the client-submitted ask for consulting work.
//
// Storage model (DynamoDB):
//   - PK: id
//
// Reference codes are human facing (SR-2026-xxxx) and generated on intake.
type ServiceRequest struct {
	ID           string               `json:"id"`
	Reference    string               `json:"reference"`
	Description  string               `json:"description"`
	Status       ServiceRequestStatus `json:"status"`
	ReviewerID   string               `json:"reviewer_id,omitempty"`
	ReviewReason string               `json:"review_reason,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}
