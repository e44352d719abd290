package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/issuedesk/issuedesk/internal/core/domain"
	"github.com/issuedesk/issuedesk/internal/core/ports"
)

// CommentService implements comment CRUD. Every operation verifies the
// referenced issue still exists before touching the comment store.
type CommentService struct {
	repo        ports.CommentRepository
	issues      ports.IssueRepository
	broadcaster ports.Broadcaster
	log         zerolog.Logger
}

func NewCommentService(repo ports.CommentRepository, issues ports.IssueRepository, broadcaster ports.Broadcaster, log zerolog.Logger) *CommentService {
	if broadcaster == nil {
		broadcaster = ports.NopBroadcaster{}
	}
	return &CommentService{repo: repo, issues: issues, broadcaster: broadcaster, log: log}
}

// Create attaches a comment to an existing issue. Any authenticated user may
// comment.
func (s *CommentService) Create(ctx context.Context, actor *domain.User, issueID, content string) (*domain.Comment, error) {
	if _, err := s.issues.FindByID(ctx, issueID); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	now := time.Now().UTC()
	comment, err := s.repo.Create(ctx, &domain.Comment{
		Content:   strings.TrimSpace(content),
		IssueID:   issueID,
		CreatedBy: actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.log.Error().Err(err).Str("issue_id", issueID).Msg("failed to create comment")
		return nil, err
	}

	s.log.Info().Str("comment_id", comment.ID).Str("issue_id", issueID).Str("created_by", actor.ID).Msg("comment created")
	s.broadcaster.Broadcast(domain.RoomGeneral, domain.EventCommentAdded, map[string]any{
		"comment": comment,
		"issueId": issueID,
	})
	return comment, nil
}

// Update replaces a comment's content. Author or admin only.
func (s *CommentService) Update(ctx context.Context, actor *domain.User, id, content string) (*domain.Comment, error) {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanModifyComment(actor, comment) {
		return nil, fmt.Errorf("update comment %s: %w", id, domain.ErrForbidden)
	}
	if _, err := s.issues.FindByID(ctx, comment.IssueID); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}

	updated, err := s.repo.UpdateContent(ctx, id, strings.TrimSpace(content))
	if err != nil {
		s.log.Error().Err(err).Str("comment_id", id).Msg("failed to update comment")
		return nil, err
	}

	s.log.Info().Str("comment_id", id).Str("updated_by", actor.ID).Msg("comment updated")
	s.broadcaster.Broadcast(domain.RoomGeneral, domain.EventCommentUpdated, updated)
	return updated, nil
}

// Delete removes a comment. Author or admin only.
func (s *CommentService) Delete(ctx context.Context, actor *domain.User, id string) error {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanModifyComment(actor, comment) {
		return fmt.Errorf("delete comment %s: %w", id, domain.ErrForbidden)
	}
	if _, err := s.issues.FindByID(ctx, comment.IssueID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("comment_id", id).Msg("failed to delete comment")
		return err
	}

	s.log.Info().Str("comment_id", id).Str("deleted_by", actor.ID).Msg("comment deleted")
	s.broadcaster.Broadcast(domain.RoomGeneral, domain.EventCommentDeleted, map[string]string{
		"commentId": id,
		"issueId":   comment.IssueID,
	})
	return nil
}

// ListByIssue returns an issue's comments oldest-first. A missing issue is
// NotFound, distinct from an issue with zero comments.
func (s *CommentService) ListByIssue(ctx context.Context, issueID string) ([]*domain.Comment, error) {
	if _, err := s.issues.FindByID(ctx, issueID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	comments, err := s.repo.ListByIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	return comments, nil
}
