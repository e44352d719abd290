package ports

import (
	"context"

	"github.com/issuedesk/issuedesk/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration. Role defaults
// to viewer; admin cannot be self-assigned through the open endpoint.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// UpdateProfileInput carries the self-service profile fields. Empty values
// leave the field unchanged. Role is deliberately absent.
type UpdateProfileInput struct {
	Username string
	Email    string
}

// AuthService implements registration, login and identity management.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// GenerateToken issues a signed, time-limited token binding userID.
	GenerateToken(userID string) (string, error)
	UpdateProfile(ctx context.Context, actor *domain.User, in UpdateProfileInput) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
