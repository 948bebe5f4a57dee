package user

import (
	"time"

	"github.com/google/uuid"
)

// User is an account held by the local identity provider.
type User struct {
	ID              uuid.UUID
	Email           string
	DisplayName     string
	Phone           string
	PasswordHash    string
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (u User) Verified() bool {
	return u.EmailVerifiedAt != nil && !u.EmailVerifiedAt.IsZero()
}
