// Package complaint handles citizen grievances and their triage by
// moderators.
package complaint

import "time"

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
)

// ValidStatus reports whether status is a known triage state.
func ValidStatus(status string) bool {
	switch status {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Complaint is one citizen grievance.
type Complaint struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	Status     string    `json:"status"`
	Resolution string    `json:"resolution"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
