package ports

import (
	"context"

	"github.com/issuedesk/issuedesk/internal/core/domain"
)

// ListIssuesFilter carries all query parameters for listing issues.
// All predicates combine with logical AND.
type ListIssuesFilter struct {
	Status     string   // optional: equality on status
	Priority   string   // optional: equality on priority
	AssignedTo string   // optional: equality on assignee user id
	CreatedBy  string   // optional: equality on creator user id
	Tags       []string // optional: set-membership match
	Search     string   // optional: text relevance over title+description
	Page       int      // 1-based
	Limit      int      // rows per page (capped at 100 by the service)
}

// IssueRepository defines persistence operations for issues. All operations
// are single-document and last-writer-wins; there is no optimistic locking.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) (*domain.Issue, error)
	FindByID(ctx context.Context, id string) (*domain.Issue, error)
	// Update applies a partial field patch and returns the updated document.
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Issue, error)
	Delete(ctx context.Context, id string) error
	// List returns a page of issues matching filter plus the total count.
	// Newest-created first. A page beyond the last returns an empty slice.
	List(ctx context.Context, filter ListIssuesFilter) ([]*domain.Issue, int64, error)

	// CountByStatus returns the number of issues in the given status;
	// an empty status counts all issues.
	CountByStatus(ctx context.Context, status domain.IssueStatus) (int64, error)
	CountByCreator(ctx context.Context, userID string) (int64, error)
	CountByAssignee(ctx context.Context, userID string) (int64, error)
	// Recent returns the most recent issues ordered by the given field
	// ("created_at" or "updated_at") descending.
	Recent(ctx context.Context, orderField string, limit int) ([]*domain.Issue, error)
}
