package handler

import "strings"

type createCommentRequest struct {
	Content string `json:"content"  validate:"required,min=1,max=1000"`
	IssueID string `json:"issue_id" validate:"required"`
}

// normalize trims surrounding whitespace so the length bounds apply to the
// value that would actually be stored. Runs between bind and validate.
func (r *createCommentRequest) normalize() {
	r.Content = strings.TrimSpace(r.Content)
	r.IssueID = strings.TrimSpace(r.IssueID)
}

type updateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

func (r *updateCommentRequest) normalize() {
	r.Content = strings.TrimSpace(r.Content)
}
