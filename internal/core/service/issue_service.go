package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/issuedesk/issuedesk/internal/core/domain"
	"github.com/issuedesk/issuedesk/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// IssueService implements issue CRUD, assignment and listing. Every
// successful mutation emits exactly one domain event to the general room
// (two when the status changes). Broadcast failures never roll back the
// store mutation.
type IssueService struct {
	repo        ports.IssueRepository
	broadcaster ports.Broadcaster
	log         zerolog.Logger
}

func NewIssueService(repo ports.IssueRepository, broadcaster ports.Broadcaster, log zerolog.Logger) *IssueService {
	if broadcaster == nil {
		broadcaster = ports.NopBroadcaster{}
	}
	return &IssueService{repo: repo, broadcaster: broadcaster, log: log}
}

// Create persists a new issue owned by actor.
func (s *IssueService) Create(ctx context.Context, actor *domain.User, in ports.CreateIssueInput) (*domain.Issue, error) {
	if !domain.CanCreateIssue(actor) {
		return nil, fmt.Errorf("create issue: role %s: %w", actor.Role, domain.ErrForbidden)
	}

	priority := domain.IssuePriority(in.Priority)
	if in.Priority == "" {
		priority = domain.PriorityMedium
	}

	now := time.Now().UTC()
	issue, err := s.repo.Create(ctx, &domain.Issue{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Status:      domain.StatusOpen,
		Priority:    priority,
		CreatedBy:   actor.ID,
		AssignedTo:  in.AssignedTo,
		Tags:        normalizeTags(in.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create issue")
		return nil, err
	}

	s.log.Info().Str("issue_id", issue.ID).Str("created_by", actor.ID).Msg("issue created")
	s.broadcaster.Broadcast(domain.RoomGeneral, domain.EventIssueCreated, issue)
	return issue, nil
}

// Get retrieves a single issue by id.
func (s *IssueService) Get(ctx context.Context, id string) (*domain.Issue, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies a partial patch. Allowed to admin, the creator, or the
// current assignee. A status change emits issue:status_changed carrying the
// old and new status in addition to the generic issue:updated event.
func (s *IssueService) Update(ctx context.Context, actor *domain.User, id string, in ports.UpdateIssueInput) (*domain.Issue, error) {
	issue, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanEditIssue(actor, issue) {
		return nil, fmt.Errorf("update issue %s: %w", id, domain.ErrForbidden)
	}

	oldStatus := issue.Status

	fields := map[string]any{}
	if in.Title != nil {
		fields["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		fields["description"] = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		fields["status"] = *in.Status
	}
	if in.Priority != nil {
		fields["priority"] = *in.Priority
	}
	if in.AssignedTo != nil {
		fields["assigned_to"] = *in.AssignedTo
	}
	if in.Tags != nil {
		fields["tags"] = normalizeTags(in.Tags)
	}
	if len(fields) == 0 {
		return issue, nil
	}
	fields["updated_at"] = time.Now().UTC()

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		s.log.Error().Err(err).Str("issue_id", id).Msg("failed to update issue")
		return nil, err
	}

	s.log.Info().Str("issue_id", id).Str("updated_by", actor.ID).Msg("issue updated")
	s.broadcaster.Broadcast(domain.RoomGeneral, domain.EventIssueUpdated, updated)

	if in.Status != nil && updated.Status != oldStatus {
		s.broadcaster.Broadcast(domain.RoomGeneral, domain.EventIssueStatusChanged, domain.StatusChange{
			Issue:     updated,
			OldStatus: oldStatus,
			NewStatus: updated.Status,
		})
	}

	return updated, nil
}

// Assign sets or clears the issue's assignee. Requires the contributor or
// admin role; ownership is not sufficient.
func (s *IssueService) Assign(ctx context.Context, actor *domain.User, id, assigneeID string) (*domain.Issue, error) {
	if !domain.CanAssignIssue(actor) {
		return nil, fmt.Errorf("assign issue %s: role %s: %w", id, actor.Role, domain.ErrForbidden)
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, map[string]any{
		"assigned_to": assigneeID,
		"updated_at":  time.Now().UTC(),
	})
	if err != nil {
		s.log.Error().Err(err).Str("issue_id", id).Msg("failed to assign issue")
		return nil, err
	}

	s.log.Info().Str("issue_id", id).Str("assigned_to", assigneeID).Str("assigned_by", actor.ID).Msg("issue assigned")
	s.broadcaster.Broadcast(domain.RoomGeneral, domain.EventIssueAssigned, updated)
	return updated, nil
}

// Delete removes an issue. Only the creator and admins may delete.
func (s *IssueService) Delete(ctx context.Context, actor *domain.User, id string) error {
	issue, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanDeleteIssue(actor, issue) {
		return fmt.Errorf("delete issue %s: %w", id, domain.ErrForbidden)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("issue_id", id).Msg("failed to delete issue")
		return err
	}

	s.log.Info().Str("issue_id", id).Str("deleted_by", actor.ID).Msg("issue deleted")
	s.broadcaster.Broadcast(domain.RoomGeneral, domain.EventIssueDeleted, map[string]string{"issueId": id})
	return nil
}

// List returns a filtered page, newest-created first. Page numbers are
// 1-based; a page past the end yields an empty result, not an error.
func (s *IssueService) List(ctx context.Context, filter ports.ListIssuesFilter) (*ports.ListIssuesResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	filter.Tags = normalizeTags(filter.Tags)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list issues")
		return nil, err
	}
	if items == nil {
		items = []*domain.Issue{}
	}

	return &ports.ListIssuesResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// normalizeTags lowercases and trims tags, dropping empties.
func normalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
