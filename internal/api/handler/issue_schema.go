package handler

import "strings"

type createIssueRequest struct {
	Title       string   `json:"title"       validate:"required,min=5,max=200"`
	Description string   `json:"description" validate:"required,min=10,max=2000"`
	Priority    string   `json:"priority"    validate:"omitempty,oneof=low medium high urgent"`
	AssignedTo  string   `json:"assigned_to" validate:"omitempty"`
	Tags        []string `json:"tags"        validate:"omitempty,dive,max=20"`
}

// normalize trims surrounding whitespace so the length bounds apply to the
// value that would actually be stored. Runs between bind and validate.
func (r *createIssueRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
}

// updateIssueRequest is a partial patch: absent fields stay nil and leave
// the stored value unchanged. A created_by field in the payload is silently
// ignored; the creator is immutable.
type updateIssueRequest struct {
	Title       *string  `json:"title"       validate:"omitempty,min=5,max=200"`
	Description *string  `json:"description" validate:"omitempty,min=10,max=2000"`
	Status      *string  `json:"status"      validate:"omitempty,oneof=open in_progress resolved closed"`
	Priority    *string  `json:"priority"    validate:"omitempty,oneof=low medium high urgent"`
	AssignedTo  *string  `json:"assigned_to" validate:"omitempty"`
	Tags        []string `json:"tags"        validate:"omitempty,dive,max=20"`
}

func (r *updateIssueRequest) normalize() {
	if r.Title != nil {
		trimmed := strings.TrimSpace(*r.Title)
		r.Title = &trimmed
	}
	if r.Description != nil {
		trimmed := strings.TrimSpace(*r.Description)
		r.Description = &trimmed
	}
}

type assignIssueRequest struct {
	AssignedTo string `json:"assigned_to"`
}
