package domain

// Authorization policy: pure predicates over (actor, resource), no side
// effects. Handlers and services translate a false result into ErrForbidden.
// Admin may perform any action on any resource.

// CanCreateIssue reports whether actor may create issues.
func CanCreateIssue(actor *User) bool {
	return actor.Role == RoleAdmin || actor.Role == RoleContributor
}

// CanEditIssue reports whether actor may update fields of issue. The
// issue's creator and current assignee may edit, besides admins.
func CanEditIssue(actor *User, issue *Issue) bool {
	if actor.Role == RoleAdmin {
		return true
	}
	return issue.CreatedBy == actor.ID || (issue.AssignedTo != "" && issue.AssignedTo == actor.ID)
}

// CanAssignIssue reports whether actor may change an issue's assignee.
// Assignment requires the contributor or admin role regardless of ownership.
func CanAssignIssue(actor *User) bool {
	return actor.Role == RoleAdmin || actor.Role == RoleContributor
}

// CanDeleteIssue reports whether actor may delete issue. Only the creator
// and admins may delete; the assignee may not.
func CanDeleteIssue(actor *User, issue *Issue) bool {
	return actor.Role == RoleAdmin || issue.CreatedBy == actor.ID
}

// CanModifyComment reports whether actor may update or delete comment.
func CanModifyComment(actor *User, comment *Comment) bool {
	return actor.Role == RoleAdmin || comment.CreatedBy == actor.ID
}
