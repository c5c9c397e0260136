package domain

import "time"

// StaffProfile models an authenticated staff identity. Any holder of a valid
// session may update report statuses and author feedback; there is no role
// hierarchy beyond "has a session".
type StaffProfile struct {
	ID             string
	FullName       string
	Email          string
	PasswordHash   string
	EmailConfirmed bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
