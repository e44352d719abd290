package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/issuedesk/issuedesk/internal/core/domain"
	"github.com/issuedesk/issuedesk/internal/core/ports"
)

const (
	recentWindow         = 10
	defaultActivityLimit = 20
)

// DashboardService serves aggregate counts and the merged activity feed.
type DashboardService struct {
	issues   ports.IssueRepository
	comments ports.CommentRepository
	log      zerolog.Logger
}

func NewDashboardService(issues ports.IssueRepository, comments ports.CommentRepository, log zerolog.Logger) *DashboardService {
	return &DashboardService{issues: issues, comments: comments, log: log}
}

// Stats returns global status counts, the actor's own counts, and the ten
// most recent issues and comments.
func (s *DashboardService) Stats(ctx context.Context, actor *domain.User) (*ports.DashboardStats, error) {
	stats := &ports.DashboardStats{}

	var err error
	if stats.TotalIssues, err = s.issues.CountByStatus(ctx, ""); err != nil {
		return nil, err
	}
	if stats.OpenIssues, err = s.issues.CountByStatus(ctx, domain.StatusOpen); err != nil {
		return nil, err
	}
	if stats.InProgressIssues, err = s.issues.CountByStatus(ctx, domain.StatusInProgress); err != nil {
		return nil, err
	}
	if stats.ResolvedIssues, err = s.issues.CountByStatus(ctx, domain.StatusResolved); err != nil {
		return nil, err
	}
	if stats.ClosedIssues, err = s.issues.CountByStatus(ctx, domain.StatusClosed); err != nil {
		return nil, err
	}
	if stats.MyCreatedIssues, err = s.issues.CountByCreator(ctx, actor.ID); err != nil {
		return nil, err
	}
	if stats.MyAssignedIssues, err = s.issues.CountByAssignee(ctx, actor.ID); err != nil {
		return nil, err
	}

	if stats.RecentIssues, err = s.issues.Recent(ctx, "updated_at", recentWindow); err != nil {
		return nil, err
	}
	if stats.RecentComments, err = s.comments.Recent(ctx, recentWindow); err != nil {
		return nil, err
	}
	if stats.RecentIssues == nil {
		stats.RecentIssues = []*domain.Issue{}
	}
	if stats.RecentComments == nil {
		stats.RecentComments = []*domain.Comment{}
	}

	return stats, nil
}

// Activity merges the newest issues and comments into a single feed sorted
// by timestamp descending, truncated to limit entries.
func (s *DashboardService) Activity(ctx context.Context, limit int) ([]ports.ActivityEntry, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	issues, err := s.issues.Recent(ctx, "created_at", limit)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}

	feed := make([]ports.ActivityEntry, 0, len(issues)+len(comments))
	for _, issue := range issues {
		feed = append(feed, ports.ActivityEntry{
			Type:      "issue_created",
			Issue:     issue,
			UserID:    issue.CreatedBy,
			Timestamp: issue.CreatedAt,
		})
	}
	for _, comment := range comments {
		feed = append(feed, ports.ActivityEntry{
			Type:      "comment_added",
			Comment:   comment,
			UserID:    comment.CreatedBy,
			Timestamp: comment.CreatedAt,
		})
	}

	sort.Slice(feed, func(i, j int) bool {
		return feed[i].Timestamp.After(feed[j].Timestamp)
	})
	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed, nil
}
