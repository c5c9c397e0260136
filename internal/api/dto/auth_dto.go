package dto

import "time"

// SignUpRequest payload for new staff accounts.
type SignUpRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest payload for staff login.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ConfirmEmailRequest redeems an out-of-band confirmation token.
type ConfirmEmailRequest struct {
	Token string `json:"token"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
