package response

import (
	"time"

	"nexus_consulting/internal/domain/entities"
)

type ServiceRequestResponse struct {
	ID           string    `json:"id"`
	Reference    string    `json:"reference"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	ReviewerID   string    `json:"reviewer_id,omitempty"`
	ReviewReason string    `json:"review_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func FromServiceRequest(sr entities.ServiceRequest) ServiceRequestResponse {
	return ServiceRequestResponse{
		ID:           sr.ID,
		Reference:    sr.Reference,
		Description:  sr.Description,
		Status:       string(sr.Status),
		ReviewerID:   sr.ReviewerID,
		ReviewReason: sr.ReviewReason,
		CreatedAt:    sr.CreatedAt,
		UpdatedAt:    sr.UpdatedAt,
	}
}
