package ports

import (
	"context"

	"github.com/issuedesk/issuedesk/internal/core/domain"
)

// CreateIssueInput carries all data needed to create an issue. Field-level
// bounds are enforced by the transport validation layer before this input is
// built.
type CreateIssueInput struct {
	Title       string
	Description string
	Priority    string
	AssignedTo  string
	Tags        []string
}

// UpdateIssueInput is a partial patch: nil pointers leave the field
// unchanged. The creator field is not patchable and has no slot here.
type UpdateIssueInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssignedTo  *string
	Tags        []string
}

// ListIssuesResult is a page of issues plus pagination metadata.
type ListIssuesResult struct {
	Items      []*domain.Issue
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// IssueService defines use-case operations for issues. Every method takes
// the acting user explicitly; there is no ambient identity.
type IssueService interface {
	Create(ctx context.Context, actor *domain.User, in CreateIssueInput) (*domain.Issue, error)
	Get(ctx context.Context, id string) (*domain.Issue, error)
	Update(ctx context.Context, actor *domain.User, id string, in UpdateIssueInput) (*domain.Issue, error)
	Assign(ctx context.Context, actor *domain.User, id, assigneeID string) (*domain.Issue, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
	List(ctx context.Context, filter ListIssuesFilter) (*ListIssuesResult, error)
}
