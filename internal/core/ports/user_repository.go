package ports

import (
	"context"

	"github.com/issuedesk/issuedesk/internal/core/domain"
)

// UserRepository defines persistence operations for user records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update applies username/email changes. A duplicate unique field
	// surfaces as domain.ErrUserExists.
	Update(ctx context.Context, id string, fields map[string]any) (*domain.User, error)
	// List returns all users, newest first.
	List(ctx context.Context) ([]*domain.User, error)
}
