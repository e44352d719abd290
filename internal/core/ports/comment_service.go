package ports

import (
	"context"

	"github.com/issuedesk/issuedesk/internal/core/domain"
)

// CommentService defines use-case operations for comments. Creation is open
// to any authenticated user; update and delete are restricted to the author
// and admins. All operations verify the referenced issue exists.
type CommentService interface {
	Create(ctx context.Context, actor *domain.User, issueID, content string) (*domain.Comment, error)
	Update(ctx context.Context, actor *domain.User, id, content string) (*domain.Comment, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
	ListByIssue(ctx context.Context, issueID string) ([]*domain.Comment, error)
}
