package domain

import "time"

// User represents a registered user of the application.
type User struct {
	UserID       string `json:"userID"` // Primary key (UUID)
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Country      string `json:"country"`
	PasswordHash string `json:"-"`

	// AuthProvider is "local" for password users or the OAuth provider name.
	AuthProvider   string  `json:"authProvider"`
	ProviderUserID *string `json:"-"`
	Email          *string `json:"email,omitempty"`

	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`

	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// GoogleUserInfo is the subset of the Google userinfo payload we consume.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
