package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/issuedesk/issuedesk/internal/core/domain"
	"github.com/issuedesk/issuedesk/internal/core/ports"
)

const bcryptCost = 12

// AuthService implements registration, login and profile management.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Register creates a new user account and returns a session token for it.
// Role defaults to viewer; admin cannot be requested through registration.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	role := domain.Role(in.Role)
	if in.Role == "" {
		role = domain.RoleViewer
	}
	if !role.Valid() || role == domain.RoleAdmin {
		return "", nil, fmt.Errorf("register: role %q not allowed: %w", in.Role, domain.ErrInvalidCredentials)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.repo.Create(ctx, &domain.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Str("role", string(user.Role)).Msg("user registered")
	return token, user, nil
}

// Login verifies email+password. Unknown email and wrong password yield the
// identical error so credential existence is not leaked.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}

// GenerateToken issues an HS256 token binding userID for the configured TTL.
func (s *AuthService) GenerateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// UpdateProfile changes the actor's own username and/or email. Role is not
// reachable from here.
func (s *AuthService) UpdateProfile(ctx context.Context, actor *domain.User, in ports.UpdateProfileInput) (*domain.User, error) {
	fields := map[string]any{}
	if in.Username != "" {
		fields["username"] = strings.TrimSpace(in.Username)
	}
	if in.Email != "" {
		fields["email"] = strings.ToLower(strings.TrimSpace(in.Email))
	}
	if len(fields) == 0 {
		return actor, nil
	}
	fields["updated_at"] = time.Now().UTC()

	user, err := s.repo.Update(ctx, actor.ID, fields)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", actor.ID).Msg("profile updated")
	return user, nil
}

// ListUsers returns every user record. The admin gate lives at the route.
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}
