package ports

import (
	"context"
	"time"

	"github.com/issuedesk/issuedesk/internal/core/domain"
)

// DashboardStats is the aggregate snapshot served to every authenticated user.
type DashboardStats struct {
	TotalIssues      int64             `json:"totalIssues"`
	OpenIssues       int64             `json:"openIssues"`
	InProgressIssues int64             `json:"inProgressIssues"`
	ResolvedIssues   int64             `json:"resolvedIssues"`
	ClosedIssues     int64             `json:"closedIssues"`
	MyCreatedIssues  int64             `json:"myCreatedIssues"`
	MyAssignedIssues int64             `json:"myAssignedIssues"`
	RecentIssues     []*domain.Issue   `json:"recentIssues"`
	RecentComments   []*domain.Comment `json:"recentComments"`
}

// ActivityEntry is one item of the merged issue+comment feed.
type ActivityEntry struct {
	Type      string          `json:"type"` // "issue_created" or "comment_added"
	Issue     *domain.Issue   `json:"issue,omitempty"`
	Comment   *domain.Comment `json:"comment,omitempty"`
	UserID    string          `json:"user_id"`
	Timestamp time.Time       `json:"timestamp"`
}

// DashboardService serves read-only aggregate views.
type DashboardService interface {
	Stats(ctx context.Context, actor *domain.User) (*DashboardStats, error)
	// Activity returns up to limit entries, newest first. limit <= 0 uses
	// the default of 20.
	Activity(ctx context.Context, limit int) ([]ActivityEntry, error)
}
