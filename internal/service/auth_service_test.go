package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ironloop/gym-app/internal/domain"

	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func newAuthFixture() (AuthService, *stubMemberRepo, *stubTrainerRepo) {
	memberRepo := newStubMemberRepo()
	trainerRepo := newStubTrainerRepo()
	svc := NewAuthService(memberRepo, trainerRepo, testSecret, time.Hour, "admin@example.com", "admin-pass")
	return svc, memberRepo, trainerRepo
}

func memberRegistration() MemberRegistration {
	return MemberRegistration{
		Name:     "Ada Member",
		Email:    "ada@example.com",
		Password: "supersecret",
		Phone:    "+1111111",
	}
}

func TestRegisterMemberAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthFixture()

	member, err := svc.RegisterMember(ctx, memberRegistration())
	if err != nil {
		t.Fatalf("RegisterMember failed: %v", err)
	}
	if member.PasswordHash != "" {
		t.Fatal("password hash must not leak out of the service")
	}
	if member.AssignmentStatus != domain.AssignmentNoTrainer {
		t.Fatalf("expected no_trainer status for a new member, got %s", member.AssignmentStatus)
	}

	token, principal, err := svc.Login(ctx, "ada@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if principal.Role != domain.RoleMember {
		t.Fatalf("expected member role, got %s", principal.Role)
	}
	if principal.ID != member.ID.Hex() {
		t.Fatalf("expected principal ID %s, got %s", member.ID.Hex(), principal.ID)
	}

	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("expected a valid signed token, got %v", err)
	}
	if claims.UserID != member.ID.Hex() || claims.Role != domain.RoleMember {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, _, err := svc.Login(ctx, "ada@example.com", "wrong"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed for bad password, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "supersecret"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed for unknown email, got %v", err)
	}
}

func TestRegisterTrainerAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthFixture()

	trainer, err := svc.RegisterTrainer(ctx, TrainerRegistration{
		Name:       "Tom Trainer",
		Email:      "tom@example.com",
		Password:   "supersecret",
		Specialty:  "powerlifting",
		HourlyRate: 55,
	})
	if err != nil {
		t.Fatalf("RegisterTrainer failed: %v", err)
	}
	if !trainer.Active {
		t.Fatal("new trainers start active")
	}
	if trainer.PasswordHash != "" {
		t.Fatal("password hash must not leak out of the service")
	}

	_, principal, err := svc.Login(ctx, "tom@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if principal.Role != domain.RoleTrainer {
		t.Fatalf("expected trainer role, got %s", principal.Role)
	}
}

func TestRegisterTrainerInvalidRate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthFixture()

	_, err := svc.RegisterTrainer(ctx, TrainerRegistration{
		Name: "Tom", Email: "tom@example.com", Password: "supersecret", HourlyRate: 0,
	})
	if err == nil {
		t.Fatal("expected error for non-positive hourly rate")
	}
}

func TestEmailUniqueAcrossRoles(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthFixture()

	if _, err := svc.RegisterMember(ctx, memberRegistration()); err != nil {
		t.Fatalf("RegisterMember failed: %v", err)
	}

	// A trainer cannot take an email already used by a member.
	_, err := svc.RegisterTrainer(ctx, TrainerRegistration{
		Name: "Tom", Email: "ada@example.com", Password: "supersecret", HourlyRate: 55,
	})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}

	reg := memberRegistration()
	reg.Phone = "+2222222"
	if _, err := svc.RegisterMember(ctx, reg); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthFixture()

	_, principal, err := svc.Login(ctx, "admin@example.com", "admin-pass")
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if principal.Role != domain.RoleAdmin || principal.ID != "admin" {
		t.Fatalf("unexpected admin principal: %+v", principal)
	}

	if _, _, err := svc.Login(ctx, "admin@example.com", "wrong"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed for bad admin password, got %v", err)
	}
}
