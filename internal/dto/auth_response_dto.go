package dto

import "time"

// LoginResponse carries the access token issued after authentication. The
// refresh token travels in an HTTP-only cookie, not in the body.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"` // always "Bearer"
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

// RefreshRequest identifies the user asking for a token refresh; the refresh
// token itself is read from the cookie.
type RefreshRequest struct {
	UserID string `json:"userID" binding:"required"`
}
