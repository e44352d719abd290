package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/issuedesk/issuedesk/internal/core/domain"
	"github.com/issuedesk/issuedesk/internal/core/ports"
)

func registerInput(username, email, password, role string) ports.RegisterInput {
	return ports.RegisterInput{Username: username, Email: email, Password: password, Role: role}
}

func updateProfileInput(username, email string) ports.UpdateProfileInput {
	return ports.UpdateProfileInput{Username: username, Email: email}
}

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	r.nextID++
	copy.ID = "u" + strconv.Itoa(r.nextID)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, id string, fields map[string]any) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if v, ok := fields["username"].(string); ok {
		for otherID, other := range r.users {
			if otherID != id && other.Username == v {
				return nil, domain.ErrUserExists
			}
		}
		u.Username = v
	}
	if v, ok := fields["email"].(string); ok {
		u.Email = v
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	token, user, err := svc.Register(context.Background(), registerInput("alice", "alice@example.com", "password1", "contributor"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected token, got empty")
	}
	if user.Role != domain.RoleContributor {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if user.PasswordHash == "password1" {
		t.Fatal("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_DefaultRoleIsViewer(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	_, user, err := svc.Register(context.Background(), registerInput("bob", "bob@example.com", "password1", ""))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleViewer {
		t.Fatalf("expected viewer role by default, got %s", user.Role)
	}
}

func TestAuthService_Register_AdminRoleRejected(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	_, _, err := svc.Register(context.Background(), registerInput("eve", "eve@example.com", "password1", "admin"))
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for admin self-registration, got %v", err)
	}

	_, _, err = svc.Register(context.Background(), registerInput("eve", "eve@example.com", "password1", "superuser"))
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown role, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	if _, _, err := svc.Register(context.Background(), registerInput("carol", "carol@example.com", "password1", "")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, _, err := svc.Register(context.Background(), registerInput("carol", "other@example.com", "password2", ""))
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for duplicate username, got %v", err)
	}
	_, _, err = svc.Register(context.Background(), registerInput("carol2", "carol@example.com", "password2", ""))
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for duplicate email, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	_, registered, err := svc.Register(context.Background(), registerInput("dana", "dana@example.com", "s3cretpass", ""))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "dana@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %s, got %s", registered.ID, user.ID)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["user_id"] != registered.ID {
		t.Fatalf("expected user_id claim %s, got %v", registered.ID, claims["user_id"])
	}
}

func TestAuthService_Login_EmailIsCaseInsensitive(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	if _, _, err := svc.Register(context.Background(), registerInput("erin", "Erin@Example.com", "s3cretpass", "")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "ERIN@example.COM", "s3cretpass"); err != nil {
		t.Fatalf("login with differently-cased email failed: %v", err)
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	if _, _, err := svc.Register(context.Background(), registerInput("frank", "frank@example.com", "goodpass1", "")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, wrongPw := svc.Login(context.Background(), "frank@example.com", "badpass")
	_, _, noUser := svc.Login(context.Background(), "ghost@example.com", "whatever")

	if !errors.Is(wrongPw, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPw)
	}
	if !errors.Is(noUser, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", noUser)
	}
	if wrongPw.Error() != noUser.Error() {
		t.Fatalf("failure modes must be indistinguishable: %q vs %q", wrongPw, noUser)
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	_, user, err := svc.Register(context.Background(), registerInput("gina", "gina@example.com", "password1", ""))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	updated, err := svc.UpdateProfile(context.Background(), user, updateProfileInput("gina2", "Gina2@Example.com"))
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.Username != "gina2" {
		t.Fatalf("expected username gina2, got %s", updated.Username)
	}
	if updated.Email != "gina2@example.com" {
		t.Fatalf("expected lowercased email, got %s", updated.Email)
	}
}

func TestAuthService_UpdateProfile_NoChanges(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour, zerolog.Nop())

	_, user, err := svc.Register(context.Background(), registerInput("hank", "hank@example.com", "password1", ""))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	same, err := svc.UpdateProfile(context.Background(), user, updateProfileInput("", ""))
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if same.Username != "hank" {
		t.Fatalf("expected unchanged user, got %+v", same)
	}
}
