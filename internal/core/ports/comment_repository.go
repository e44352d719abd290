package ports

import (
	"context"

	"github.com/issuedesk/issuedesk/internal/core/domain"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	// UpdateContent replaces the comment body and returns the updated document.
	UpdateContent(ctx context.Context, id, content string) (*domain.Comment, error)
	Delete(ctx context.Context, id string) error
	// ListByIssue returns all comments on an issue, oldest first.
	ListByIssue(ctx context.Context, issueID string) ([]*domain.Comment, error)
	// Recent returns the most recently created comments, newest first.
	Recent(ctx context.Context, limit int) ([]*domain.Comment, error)
}
