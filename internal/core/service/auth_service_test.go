package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dwjc/job-connector/internal/core/domain"
	"github.com/dwjc/job-connector/internal/core/ports"
)

func signup(t *testing.T, svc *AuthService, name, email, password, role string) *domain.User {
	t.Helper()
	_, user, err := svc.Signup(context.Background(), ports.SignupInput{Name: name, Email: email, Password: password, Role: role})
	if err != nil {
		t.Fatalf("signup %s failed: %v", email, err)
	}
	return user
}

func TestAuthService_Signup_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	token, user, err := svc.Signup(context.Background(), ports.SignupInput{
		Name: " Alice ", Email: "Alice@Example.com", Password: "pass123", Role: domain.RolePoster,
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user.Email != "alice@example.com" || user.Name != "Alice" {
		t.Fatalf("expected normalised name and email, got %q %q", user.Name, user.Email)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	cases := []ports.SignupInput{
		{Name: "", Email: "a@example.com", Password: "pass123", Role: domain.RolePoster},
		{Name: "bob", Email: "b@example.com", Password: "short", Role: domain.RoleWorker},
		{Name: "bob", Email: "b@example.com", Password: "pass123", Role: "admin"},
	}
	for _, in := range cases {
		if _, _, err := svc.Signup(context.Background(), in); err != domain.ErrInvalidCredentials {
			t.Fatalf("expected ErrInvalidCredentials for %+v, got %v", in, err)
		}
	}
}

func TestAuthService_Signup_Duplicate(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	signup(t, svc, "bob", "bob@example.com", "pass123", domain.RoleWorker)
	_, _, err := svc.Signup(context.Background(), ports.SignupInput{Name: "bob2", Email: "BOB@example.com", Password: "pass456", Role: domain.RolePoster})
	if err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)
	signup(t, svc, "carol", "carol@example.com", "s3cret!", domain.RoleWorker)

	token, user, err := svc.Login(context.Background(), "carol@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user == nil || user.Name != "carol" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != domain.RoleWorker {
		t.Fatalf("expected role %s, got %v", domain.RoleWorker, claims["role"])
	}
	if claims["sub"] != user.ID || claims["name"] != "carol" {
		t.Fatalf("unexpected claims: %v", claims)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)
	signup(t, svc, "dave", "dave@example.com", "goodpass", domain.RolePoster)

	if _, _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_StoreError(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewAuthService(&failingUserRepo{stubUserRepo: newStubUserRepo(), err: boom}, "secret", time.Hour)

	if _, _, err := svc.Login(context.Background(), "erin@example.com", "pass123"); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

type failingUserRepo struct {
	*stubUserRepo
	err error
}

func (r *failingUserRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, r.err
}

func TestAuthService_ParseToken_RoundTrip(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)
	token, user, err := svc.Signup(context.Background(), ports.SignupInput{Name: "Frank", Email: "frank@example.com", Password: "pass123", Role: domain.RoleWorker})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	id, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken returned error: %v", err)
	}
	if id.ID != user.ID || id.Role != domain.RoleWorker || id.Name != "Frank" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthService_ParseToken_Rejects(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1", "role": domain.RolePoster, "exp": time.Now().Add(-time.Minute).Unix(),
	})
	expiredToken, _ := expired.SignedString([]byte("secret"))

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1", "role": domain.RolePoster, "exp": time.Now().Add(time.Hour).Unix(),
	})
	wrongKeyToken, _ := wrongKey.SignedString([]byte("other"))

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	})
	badRoleToken, _ := badRole.SignedString([]byte("secret"))

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "role": domain.RolePoster})
	noExpToken, _ := noExp.SignedString([]byte("secret"))

	for name, tok := range map[string]string{
		"expired":   expiredToken,
		"wrong key": wrongKeyToken,
		"bad role":  badRoleToken,
		"no exp":    noExpToken,
		"garbage":   "not-a-token",
	} {
		if _, err := svc.ParseToken(tok); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
