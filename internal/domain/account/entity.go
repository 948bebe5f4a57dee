package account

import (
	"context"
	"errors"
	"time"
)

type Role string

const (
	RoleCandidate  Role = "CANDIDATE"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

var (
	ErrNotFound      = errors.New("admin record not found")
	ErrAlreadyExists = errors.New("admin record already exists")
)

// Admin is the companion record that grants console access to an
// identity-provider user. Users without one are candidates.
type Admin struct {
	UserID    string
	Name      string
	Email     string
	Role      Role
	IsActive  bool
	PhotoURL  string
	CreatedBy string
	CreatedAt time.Time
}

func (a Admin) IsSuper() bool {
	return a.Role == RoleSuperAdmin
}

// CanAccessConsole is false for inactive records and unknown roles.
func (a Admin) CanAccessConsole() bool {
	if !a.IsActive {
		return false
	}
	return a.Role == RoleAdmin || a.Role == RoleSuperAdmin
}

type Repository interface {
	Get(ctx context.Context, userID string) (Admin, error)
	Create(ctx context.Context, a Admin) (Admin, error)
	Delete(ctx context.Context, userID string) error
	ListAdmins(ctx context.Context) ([]Admin, error)
	UpdatePhoto(ctx context.Context, userID, photoURL string) error
	Count(ctx context.Context) (int, error)
}
