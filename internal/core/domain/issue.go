package domain

import (
	"errors"
	"time"
)

// IssueStatus represents the lifecycle state of an issue.
type IssueStatus string

const (
	StatusOpen       IssueStatus = "open"
	StatusInProgress IssueStatus = "in_progress"
	StatusResolved   IssueStatus = "resolved"
	StatusClosed     IssueStatus = "closed"
)

// Valid reports whether s is one of the known statuses.
func (s IssueStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// IssuePriority represents how urgent an issue is.
type IssuePriority string

const (
	PriorityLow    IssuePriority = "low"
	PriorityMedium IssuePriority = "medium"
	PriorityHigh   IssuePriority = "high"
	PriorityUrgent IssuePriority = "urgent"
)

// Valid reports whether p is one of the known priorities.
func (p IssuePriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

var ErrIssueNotFound = errors.New("issue not found")
var ErrForbidden = errors.New("access forbidden")

// Issue is the core aggregate. CreatedBy is set once at creation and never
// changes; AssignedTo is empty when unassigned.
type Issue struct {
	ID          string        `json:"id" bson:"_id,omitempty"`
	Title       string        `json:"title" bson:"title"`
	Description string        `json:"description" bson:"description"`
	Status      IssueStatus   `json:"status" bson:"status"`
	Priority    IssuePriority `json:"priority" bson:"priority"`
	CreatedBy   string        `json:"created_by" bson:"created_by"`
	AssignedTo  string        `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	Tags        []string      `json:"tags" bson:"tags"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at"`
}
