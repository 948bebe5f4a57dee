package dto

import (
	"time"

	"swadesh-intern/internal/infrastructure/identity"
	"swadesh-intern/internal/workflow"
)

type UserResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Phone         string `json:"phone,omitempty"`
	EmailVerified bool   `json:"email_verified"`
}

func NewUserResponse(u identity.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.DisplayName, Phone: u.Phone, EmailVerified: u.EmailVerified}
}

type SessionResponse struct {
	User        UserResponse   `json:"user"`
	AccessToken string         `json:"access_token"`
	ExpiresAt   string         `json:"expires_at,omitempty"`
	Flow        *workflow.View `json:"flow,omitempty"`
}

func NewSessionResponse(s identity.Session, flow *workflow.View) SessionResponse {
	out := SessionResponse{User: NewUserResponse(s.User), AccessToken: s.AccessToken, Flow: flow}
	if !s.ExpiresAt.IsZero() {
		out.ExpiresAt = s.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return out
}
