package handler

import (
	"strings"

	"github.com/issuedesk/issuedesk/internal/core/domain"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"omitempty,oneof=contributor viewer"`
}

// normalize trims username and email so the length bounds apply to the
// value that would actually be stored. Passwords are taken verbatim.
func (r *registerRequest) normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Username string `json:"username" validate:"omitempty,min=3,max=30"`
	Email    string `json:"email"    validate:"omitempty,email"`
}

func (r *updateProfileRequest) normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
}

// authResponse bundles the session token with the user it identifies.
type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}
