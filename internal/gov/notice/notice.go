// Package notice publishes public announcements from the administration.
package notice

import "time"

// Notice is one public announcement.
type Notice struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	PostedBy  string    `json:"posted_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
