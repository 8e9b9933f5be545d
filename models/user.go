package models

import (
	"math"
	"strings"
	"time"
)

// ProfileUpdateRequest represents a profile edit; nil fields are left unchanged
// @Description Profile override fields
type ProfileUpdateRequest struct {
	DisplayName *string `json:"displayName,omitempty" example:"Jane Doe"`
	Phone       *string `json:"phone,omitempty" example:"+1 555 0100"`
	LinkedIn    *string `json:"linkedin,omitempty" example:"https://linkedin.com/in/janedoe"`
	GitHub      *string `json:"github,omitempty" example:"https://github.com/janedoe"`
	Bio         *string `json:"bio,omitempty" example:"Backend engineer"`
}

// Apply copies the set fields onto the user
func (p *ProfileUpdateRequest) Apply(u *User) {
	if p.DisplayName != nil {
		u.DisplayName = strings.TrimSpace(*p.DisplayName)
	}
	if p.Phone != nil {
		u.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.LinkedIn != nil {
		u.LinkedIn = strings.TrimSpace(*p.LinkedIn)
	}
	if p.GitHub != nil {
		u.GitHub = strings.TrimSpace(*p.GitHub)
	}
	if p.Bio != nil {
		u.Bio = strings.TrimSpace(*p.Bio)
	}
}

// ProfileStats summarizes the dashboard view of a user
// @Description Dashboard statistics
type ProfileStats struct {
	ResumeCount int `json:"resumeCount" example:"3"`
	Completion  int `json:"completion" example:"67"` // percent of profile fields filled
}

// ProfileResponse represents the profile page payload
// @Description User profile with dashboard statistics
type ProfileResponse struct {
	User  *User        `json:"user"`
	Stats ProfileStats `json:"stats"`
}

// ProfileCompletion returns the rounded percentage of filled profile fields
func ProfileCompletion(u *User) int {
	if u == nil {
		return 0
	}
	fields := []string{u.DisplayName, u.Phone, u.LinkedIn, u.GitHub, u.Bio, u.Photo}
	filled := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			filled++
		}
	}
	return int(math.Round(float64(filled) / float64(len(fields)) * 100))
}

// ContactMessage is one document of the append-only "contactMessages" collection
type ContactMessage struct {
	ID        string    `json:"id,omitempty" firestore:"-"`
	Name      string    `json:"name" firestore:"name"`
	Email     string    `json:"email" firestore:"email"`
	Message   string    `json:"message" firestore:"message"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// ContactRequest represents the contact form submission
// @Description Contact form
type ContactRequest struct {
	Name    string `json:"name" binding:"required" example:"Jane Doe"`
	Email   string `json:"email" binding:"required,email" example:"jane@example.com"`
	Message string `json:"message" binding:"required" example:"Hello!"`
}
