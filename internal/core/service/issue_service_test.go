package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/issuedesk/issuedesk/internal/core/domain"
	"github.com/issuedesk/issuedesk/internal/core/ports"
)

type recordedEvent struct {
	Room    string
	Event   string
	Payload any
}

// recordingBroadcaster captures every emitted event for assertions.
type recordingBroadcaster struct {
	events []recordedEvent
}

func (b *recordingBroadcaster) Broadcast(room, event string, payload any) {
	b.events = append(b.events, recordedEvent{Room: room, Event: event, Payload: payload})
}

type stubIssueRepo struct {
	issues map[string]*domain.Issue
	nextID int
}

func newStubIssueRepo() *stubIssueRepo {
	return &stubIssueRepo{issues: make(map[string]*domain.Issue)}
}

func cloneIssue(i *domain.Issue) *domain.Issue {
	if i == nil {
		return nil
	}
	clone := *i
	clone.Tags = append([]string(nil), i.Tags...)
	return &clone
}

func (r *stubIssueRepo) Create(_ context.Context, issue *domain.Issue) (*domain.Issue, error) {
	copy := cloneIssue(issue)
	r.nextID++
	copy.ID = fmt.Sprintf("i%d", r.nextID)
	r.issues[copy.ID] = cloneIssue(copy)
	return copy, nil
}

func (r *stubIssueRepo) FindByID(_ context.Context, id string) (*domain.Issue, error) {
	if i, ok := r.issues[id]; ok {
		return cloneIssue(i), nil
	}
	return nil, domain.ErrIssueNotFound
}

func (r *stubIssueRepo) Update(_ context.Context, id string, fields map[string]any) (*domain.Issue, error) {
	issue, ok := r.issues[id]
	if !ok {
		return nil, domain.ErrIssueNotFound
	}
	if v, ok := fields["title"].(string); ok {
		issue.Title = v
	}
	if v, ok := fields["description"].(string); ok {
		issue.Description = v
	}
	if v, ok := fields["status"].(string); ok {
		issue.Status = domain.IssueStatus(v)
	}
	if v, ok := fields["priority"].(string); ok {
		issue.Priority = domain.IssuePriority(v)
	}
	if v, ok := fields["assigned_to"].(string); ok {
		issue.AssignedTo = v
	}
	if v, ok := fields["tags"].([]string); ok {
		issue.Tags = v
	}
	if v, ok := fields["updated_at"].(time.Time); ok {
		issue.UpdatedAt = v
	}
	return cloneIssue(issue), nil
}

func (r *stubIssueRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.issues[id]; !ok {
		return domain.ErrIssueNotFound
	}
	delete(r.issues, id)
	return nil
}

func (r *stubIssueRepo) List(_ context.Context, filter ports.ListIssuesFilter) ([]*domain.Issue, int64, error) {
	matched := make([]*domain.Issue, 0, len(r.issues))
	for _, i := range r.issues {
		if filter.Status != "" && string(i.Status) != filter.Status {
			continue
		}
		if filter.Priority != "" && string(i.Priority) != filter.Priority {
			continue
		}
		if filter.AssignedTo != "" && i.AssignedTo != filter.AssignedTo {
			continue
		}
		if filter.CreatedBy != "" && i.CreatedBy != filter.CreatedBy {
			continue
		}
		matched = append(matched, cloneIssue(i))
	}
	sort.Slice(matched, func(a, b int) bool {
		return matched[a].CreatedAt.After(matched[b].CreatedAt)
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubIssueRepo) CountByStatus(_ context.Context, status domain.IssueStatus) (int64, error) {
	var n int64
	for _, i := range r.issues {
		if status == "" || i.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *stubIssueRepo) CountByCreator(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, i := range r.issues {
		if i.CreatedBy == userID {
			n++
		}
	}
	return n, nil
}

func (r *stubIssueRepo) CountByAssignee(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, i := range r.issues {
		if i.AssignedTo == userID {
			n++
		}
	}
	return n, nil
}

func (r *stubIssueRepo) Recent(_ context.Context, orderField string, limit int) ([]*domain.Issue, error) {
	out := make([]*domain.Issue, 0, len(r.issues))
	for _, i := range r.issues {
		out = append(out, cloneIssue(i))
	}
	sort.Slice(out, func(a, b int) bool {
		if orderField == "updated_at" {
			return out[a].UpdatedAt.After(out[b].UpdatedAt)
		}
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var (
	admin       = &domain.User{ID: "admin1", Role: domain.RoleAdmin}
	contributor = &domain.User{ID: "contrib1", Role: domain.RoleContributor}
	viewer      = &domain.User{ID: "viewer1", Role: domain.RoleViewer}
)

func strPtr(s string) *string { return &s }

func TestIssueService_Create(t *testing.T) {
	repo := newStubIssueRepo()
	bc := &recordingBroadcaster{}
	svc := NewIssueService(repo, bc, zerolog.Nop())

	issue, err := svc.Create(context.Background(), contributor, ports.CreateIssueInput{
		Title:       "Login page broken",
		Description: "The login button does nothing on submit.",
		Tags:        []string{" Frontend ", "AUTH", ""},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if issue.Status != domain.StatusOpen {
		t.Fatalf("expected status open, got %s", issue.Status)
	}
	if issue.Priority != domain.PriorityMedium {
		t.Fatalf("expected default priority medium, got %s", issue.Priority)
	}
	if issue.CreatedBy != contributor.ID {
		t.Fatalf("expected creator %s, got %s", contributor.ID, issue.CreatedBy)
	}
	if len(issue.Tags) != 2 || issue.Tags[0] != "frontend" || issue.Tags[1] != "auth" {
		t.Fatalf("tags not normalized: %v", issue.Tags)
	}

	if len(bc.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bc.events))
	}
	if bc.events[0].Event != domain.EventIssueCreated || bc.events[0].Room != domain.RoomGeneral {
		t.Fatalf("unexpected event: %+v", bc.events[0])
	}
}

func TestIssueService_Create_ViewerForbidden(t *testing.T) {
	repo := newStubIssueRepo()
	bc := &recordingBroadcaster{}
	svc := NewIssueService(repo, bc, zerolog.Nop())

	_, err := svc.Create(context.Background(), viewer, ports.CreateIssueInput{
		Title:       "Should not exist",
		Description: "Viewers cannot create issues at all.",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(repo.issues) != 0 {
		t.Fatal("no issue should have been persisted")
	}
	if len(bc.events) != 0 {
		t.Fatal("no event should have been emitted")
	}
}

func TestIssueService_Update_TitleOnly(t *testing.T) {
	repo := newStubIssueRepo()
	bc := &recordingBroadcaster{}
	svc := NewIssueService(repo, bc, zerolog.Nop())

	issue, _ := svc.Create(context.Background(), contributor, ports.CreateIssueInput{
		Title:       "Original title here",
		Description: "Some description long enough.",
	})
	bc.events = nil

	updated, err := svc.Update(context.Background(), contributor, issue.ID, ports.UpdateIssueInput{
		Title: strPtr("Corrected title here"),
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != "Corrected title here" {
		t.Fatalf("title not updated: %s", updated.Title)
	}

	if len(bc.events) != 1 {
		t.Fatalf("expected exactly 1 event for a non-status update, got %d", len(bc.events))
	}
	if bc.events[0].Event != domain.EventIssueUpdated {
		t.Fatalf("expected issue:updated, got %s", bc.events[0].Event)
	}
}

func TestIssueService_Update_StatusChangeEmitsBothEvents(t *testing.T) {
	repo := newStubIssueRepo()
	bc := &recordingBroadcaster{}
	svc := NewIssueService(repo, bc, zerolog.Nop())

	issue, _ := svc.Create(context.Background(), contributor, ports.CreateIssueInput{
		Title:       "Status change subject",
		Description: "Tracks the status transition event.",
	})
	bc.events = nil

	_, err := svc.Update(context.Background(), contributor, issue.ID, ports.UpdateIssueInput{
		Status: strPtr("in_progress"),
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if len(bc.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(bc.events))
	}
	if bc.events[0].Event != domain.EventIssueUpdated {
		t.Fatalf("first event should be issue:updated, got %s", bc.events[0].Event)
	}
	if bc.events[1].Event != domain.EventIssueStatusChanged {
		t.Fatalf("second event should be issue:status_changed, got %s", bc.events[1].Event)
	}
	change, ok := bc.events[1].Payload.(domain.StatusChange)
	if !ok {
		t.Fatalf("unexpected payload type %T", bc.events[1].Payload)
	}
	if change.OldStatus != domain.StatusOpen || change.NewStatus != domain.StatusInProgress {
		t.Fatalf("unexpected transition %s -> %s", change.OldStatus, change.NewStatus)
	}
}

func TestIssueService_Update_SameStatusEmitsOneEvent(t *testing.T) {
	repo := newStubIssueRepo()
	bc := &recordingBroadcaster{}
	svc := NewIssueService(repo, bc, zerolog.Nop())

	issue, _ := svc.Create(context.Background(), contributor, ports.CreateIssueInput{
		Title:       "No-op status update",
		Description: "Setting the same status again.",
	})
	bc.events = nil

	if _, err := svc.Update(context.Background(), contributor, issue.ID, ports.UpdateIssueInput{
		Status: strPtr("open"),
	}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if len(bc.events) != 1 {
		t.Fatalf("expected only issue:updated for an unchanged status, got %d events", len(bc.events))
	}
}

func TestIssueService_Update_Authorization(t *testing.T) {
	repo := newStubIssueRepo()
	svc := NewIssueService(repo, &recordingBroadcaster{}, zerolog.Nop())

	issue, _ := svc.Create(context.Background(), contributor, ports.CreateIssueInput{
		Title:       "Restricted to owner",
		Description: "Only the creator, assignee or admin may edit.",
	})

	stranger := &domain.User{ID: "other", Role: domain.RoleContributor}
	if _, err := svc.Update(context.Background(), stranger, issue.ID, ports.UpdateIssueInput{Title: strPtr("Hijacked title now")}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for unrelated contributor, got %v", err)
	}

	if _, err := svc.Assign(context.Background(), admin, issue.ID, "viewer1"); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if _, err := svc.Update(context.Background(), viewer, issue.ID, ports.UpdateIssueInput{Title: strPtr("Assignee edited this")}); err != nil {
		t.Fatalf("assignee should be able to edit: %v", err)
	}
}

func TestIssueService_Assign(t *testing.T) {
	repo := newStubIssueRepo()
	bc := &recordingBroadcaster{}
	svc := NewIssueService(repo, bc, zerolog.Nop())

	issue, _ := svc.Create(context.Background(), contributor, ports.CreateIssueInput{
		Title:       "Needs an assignee",
		Description: "Assignment round-trips through the store.",
	})
	bc.events = nil

	updated, err := svc.Assign(context.Background(), contributor, issue.ID, "viewer1")
	if err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}
	if updated.AssignedTo != "viewer1" {
		t.Fatalf("expected assignee viewer1, got %s", updated.AssignedTo)
	}
	if len(bc.events) != 1 || bc.events[0].Event != domain.EventIssueAssigned {
		t.Fatalf("expected issue:assigned event, got %+v", bc.events)
	}

	if _, err := svc.Assign(context.Background(), viewer, issue.ID, "viewer1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("viewer assignment should be forbidden, got %v", err)
	}
}

func TestIssueService_Delete(t *testing.T) {
	repo := newStubIssueRepo()
	bc := &recordingBroadcaster{}
	svc := NewIssueService(repo, bc, zerolog.Nop())

	issue, _ := svc.Create(context.Background(), contributor, ports.CreateIssueInput{
		Title:       "To be deleted",
		Description: "Only the creator or an admin may delete.",
	})
	bc.events = nil

	stranger := &domain.User{ID: "other", Role: domain.RoleContributor}
	if err := svc.Delete(context.Background(), stranger, issue.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := svc.Delete(context.Background(), contributor, issue.ID); err != nil {
		t.Fatalf("creator delete failed: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), issue.ID); !errors.Is(err, domain.ErrIssueNotFound) {
		t.Fatal("issue should be gone from the store")
	}
	if len(bc.events) != 1 || bc.events[0].Event != domain.EventIssueDeleted {
		t.Fatalf("expected issue:deleted event, got %+v", bc.events)
	}

	if err := svc.Delete(context.Background(), admin, "missing"); !errors.Is(err, domain.ErrIssueNotFound) {
		t.Fatalf("expected ErrIssueNotFound, got %v", err)
	}
}

func TestIssueService_List_Pagination(t *testing.T) {
	repo := newStubIssueRepo()
	svc := NewIssueService(repo, nil, zerolog.Nop())

	base := time.Now().UTC()
	for i := 0; i < 25; i++ {
		issue := &domain.Issue{
			Title:       fmt.Sprintf("Issue number %02d", i),
			Description: "Pagination fixture issue body.",
			Status:      domain.StatusOpen,
			Priority:    domain.PriorityMedium,
			CreatedBy:   contributor.ID,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if _, err := repo.Create(context.Background(), issue); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	result, err := svc.List(context.Background(), ports.ListIssuesFilter{Page: 3, Limit: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(result.Items) != 5 {
		t.Fatalf("expected 5 items on the last page, got %d", len(result.Items))
	}
	if result.Total != 25 {
		t.Fatalf("expected total 25, got %d", result.Total)
	}
	if result.TotalPages != 3 {
		t.Fatalf("expected 3 total pages, got %d", result.TotalPages)
	}

	empty, err := svc.List(context.Background(), ports.ListIssuesFilter{Page: 10, Limit: 10})
	if err != nil {
		t.Fatalf("List past the end returned error: %v", err)
	}
	if empty.Items == nil || len(empty.Items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", empty.Items)
	}
}

func TestIssueService_List_Defaults(t *testing.T) {
	repo := newStubIssueRepo()
	svc := NewIssueService(repo, nil, zerolog.Nop())

	result, err := svc.List(context.Background(), ports.ListIssuesFilter{Page: -3, Limit: 5000})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if result.Page != 1 {
		t.Fatalf("expected page clamped to 1, got %d", result.Page)
	}
	if result.Limit != maxPageLimit {
		t.Fatalf("expected limit capped at %d, got %d", maxPageLimit, result.Limit)
	}

	result, err = svc.List(context.Background(), ports.ListIssuesFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if result.Limit != defaultPageLimit {
		t.Fatalf("expected default limit %d, got %d", defaultPageLimit, result.Limit)
	}
}
