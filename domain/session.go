package domain

import "time"

// Session is the server-side half of a bearer token. A token is only
// accepted while its session exists.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}
