package models

import "time"

// User represents a user document in Firestore, keyed by uid
// @Description User account and profile overrides
type User struct {
	UID          string    `json:"uid" firestore:"-" example:"0b9c2f64-3d0e-4c8a-9a55-7d3c1f0a2b11"`
	Email        string    `json:"email" firestore:"email" example:"user@example.com"`
	DisplayName  string    `json:"displayName" firestore:"displayName" example:"Jane Doe"`
	Phone        string    `json:"phone" firestore:"phone"`
	LinkedIn     string    `json:"linkedin" firestore:"linkedin"`
	GitHub       string    `json:"github" firestore:"github"`
	Bio          string    `json:"bio" firestore:"bio"`
	Photo        string    `json:"photo" firestore:"photo"`
	PasswordHash string    `json:"-" firestore:"passwordHash"` // never sent to client
	Provider     string    `json:"provider" firestore:"provider" example:"email"` // "email" or "google"
	GoogleID     string    `json:"-" firestore:"googleId,omitempty"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// Auth providers
const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
)

// RegisterRequest represents registration request
// @Description User registration request
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email" example:"user@example.com"`
	Password    string `json:"password" binding:"required,min=6" example:"password123"`
	DisplayName string `json:"displayName" binding:"required" example:"Jane Doe"`
	Remember    bool   `json:"remember" example:"true"`
}

// LoginRequest represents login request
// @Description User login request; remember selects a durable session
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
	Remember bool   `json:"remember" example:"true"`
}

// GoogleAuthRequest represents Google SSO authentication request
// @Description Google SSO authentication request
type GoogleAuthRequest struct {
	IDToken  string `json:"idToken" binding:"required" example:"eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Remember bool   `json:"remember" example:"true"`
}

// AuthResponse represents authentication response
// @Description Authentication response with JWT token
type AuthResponse struct {
	Token     string    `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
	Message   string    `json:"message,omitempty" example:"Login successful"`
}
