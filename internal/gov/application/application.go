// Package application tracks citizen applications filed against catalogue
// services, from submission through officer review.
package application

import "time"

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
)

// ValidStatus reports whether status is a known review state.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Application is one citizen submission for a government service.
type Application struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ServiceID string    `json:"service_id"`
	Details   string    `json:"details"`
	Status    string    `json:"status"`
	Remarks   string    `json:"remarks"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
