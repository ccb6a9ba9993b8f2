package response

import (
	"time"

	"nexus_consulting/internal/domain/entities"
)

type ProjectResponse struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	Code      string    `json:"code"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromProject(p entities.Project) ProjectResponse {
	return ProjectResponse{
		ID:        p.ID,
		RequestID: p.RequestID,
		Code:      p.Code,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
