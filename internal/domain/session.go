package domain

import "time"

// Session is the server-side record of an authenticated login. Access tokens
// reference a session by id; a token whose session has been revoked is
// rejected even if the token itself has not expired.
type Session struct {
	ID        string
	StaffID   string
	CreatedAt time.Time
	ExpiresAt time.Time
}
