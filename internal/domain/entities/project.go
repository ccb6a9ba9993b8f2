package entities

import "time"

// ProjectStatus is strictly forward-only: DRAFT -> ACTIVE -> CLOSED -> ARCHIVED.

type ProjectStatus string

const (
	ProjectStatusDraft    ProjectStatus = "DRAFT"
	ProjectStatusActive   ProjectStatus = "ACTIVE"
	ProjectStatusClosed   ProjectStatus = "CLOSED"
	ProjectStatusArchived ProjectStatus = "ARCHIVED"
)

// Project is the delivery-phase record created once sales close, at most
// once per service request.
//
// Storage model (DynamoDB):
//   - PK: request_id (at most one project per request)
//   - Code uniqueness is enforced by a separate reservation table.
type Project struct {
	ID        string        `json:"id"`
	RequestID string        `json:"request_id"`
	Code      string        `json:"code"`
	Status    ProjectStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
