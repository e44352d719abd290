package domain

// Event names delivered over the realtime channel. They mirror the mutation
// endpoints one-to-one.
const (
	EventIssueCreated       = "issue:created"
	EventIssueUpdated       = "issue:updated"
	EventIssueStatusChanged = "issue:status_changed"
	EventIssueAssigned      = "issue:assigned"
	EventIssueDeleted       = "issue:deleted"

	EventCommentAdded   = "comment:added"
	EventCommentUpdated = "comment:updated"
	EventCommentDeleted = "comment:deleted"

	EventNotification = "notification"
)

// Client-initiated control message types.
const (
	MsgJoinIssue  = "join:issue"
	MsgLeaveIssue = "leave:issue"
)

// RoomGeneral is joined by every authenticated connection at handshake.
const RoomGeneral = "general"

// UserRoom returns the personal room for a user.
func UserRoom(userID string) string { return "user:" + userID }

// IssueRoom returns the per-issue room clients may join and leave.
func IssueRoom(issueID string) string { return "issue:" + issueID }

// StatusChange is the payload of EventIssueStatusChanged.
type StatusChange struct {
	Issue     *Issue      `json:"issue"`
	OldStatus IssueStatus `json:"oldStatus"`
	NewStatus IssueStatus `json:"newStatus"`
}
