package service

import (
	"context"
	"errors"
	"time"

	"ironloop/gym-app/internal/domain"
	"ironloop/gym-app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrEmailAlreadyExists   = errors.New("account with this email already exists")
	ErrPhoneAlreadyExists   = errors.New("member with this phone already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// MemberRegistration carries the inputs for registering a member.
type MemberRegistration struct {
	Name            string
	Email           string
	Password        string
	Phone           string
	MembershipStart *time.Time
	MembershipEnd   *time.Time
}

// TrainerRegistration carries the inputs for registering a trainer.
type TrainerRegistration struct {
	Name           string
	Email          string
	Password       string
	Specialty      string
	Certifications []string
	HourlyRate     float64
}

// Principal is the authenticated actor the transport layer hands to the
// core services as a plain id + role pair.
type Principal struct {
	ID   string
	Role domain.Role
}

type AuthService interface {
	RegisterMember(ctx context.Context, reg MemberRegistration) (*domain.Member, error)
	RegisterTrainer(ctx context.Context, reg TrainerRegistration) (*domain.Trainer, error)
	Login(ctx context.Context, email, password string) (token string, principal *Principal, err error)
	GetJWTSecret() string
}

// authService implements the AuthService interface. Members and trainers
// authenticate against their own collections; the admin principal is
// bootstrap configuration, not a stored entity.
type authService struct {
	memberRepo    repository.MemberRepository
	trainerRepo   repository.TrainerRepository
	jwtSecret     string
	jwtExpiration time.Duration
	adminEmail    string
	adminHash     []byte
}

// NewAuthService creates a new instance of authService. adminEmail and
// adminPassword may be empty, in which case no admin login exists.
func NewAuthService(
	memberRepo repository.MemberRepository,
	trainerRepo repository.TrainerRepository,
	jwtSecret string,
	jwtExpiration time.Duration,
	adminEmail, adminPassword string,
) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}

	var adminHash []byte
	if adminEmail != "" && adminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			panic("failed to hash admin password")
		}
		adminHash = hash
	}

	return &authService{
		memberRepo:    memberRepo,
		trainerRepo:   trainerRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		adminEmail:    adminEmail,
		adminHash:     adminHash,
	}
}

// RegisterMember creates a new member account.
func (s *authService) RegisterMember(ctx context.Context, reg MemberRegistration) (*domain.Member, error) {
	if reg.Name == "" || reg.Email == "" || reg.Password == "" || reg.Phone == "" {
		return nil, errors.New("name, email, password, and phone cannot be empty")
	}

	if err := s.checkEmailFree(ctx, reg.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	member := &domain.Member{
		Name:             reg.Name,
		Email:            reg.Email,
		PasswordHash:     string(hashedPassword),
		Phone:            reg.Phone,
		MembershipStart:  reg.MembershipStart,
		MembershipEnd:    reg.MembershipEnd,
		AssignmentStatus: domain.AssignmentNoTrainer,
	}

	memberID, err := s.memberRepo.Create(ctx, member)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Unique index tripped on email or phone; email was checked
			// just above, so under normal flow this is the phone.
			return nil, ErrPhoneAlreadyExists
		}
		return nil, err
	}
	member.ID = memberID

	member.PasswordHash = ""
	return member, nil
}

// RegisterTrainer creates a new trainer account, active by default.
func (s *authService) RegisterTrainer(ctx context.Context, reg TrainerRegistration) (*domain.Trainer, error) {
	if reg.Name == "" || reg.Email == "" || reg.Password == "" {
		return nil, errors.New("name, email, and password cannot be empty")
	}
	if reg.HourlyRate <= 0 {
		return nil, errors.New("hourly rate must be positive")
	}

	if err := s.checkEmailFree(ctx, reg.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	trainer := &domain.Trainer{
		Name:           reg.Name,
		Email:          reg.Email,
		PasswordHash:   string(hashedPassword),
		Specialty:      reg.Specialty,
		Certifications: reg.Certifications,
		HourlyRate:     reg.HourlyRate,
		Active:         true,
	}

	trainerID, err := s.trainerRepo.Create(ctx, trainer)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	trainer.ID = trainerID

	trainer.PasswordHash = ""
	return trainer, nil
}

// checkEmailFree rejects an email already used by a member or a trainer.
func (s *authService) checkEmailFree(ctx context.Context, email string) error {
	if _, err := s.memberRepo.GetByEmail(ctx, email); err == nil {
		return ErrEmailAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if _, err := s.trainerRepo.GetByEmail(ctx, email); err == nil {
		return ErrEmailAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

// Login authenticates a member, trainer, or the bootstrap admin and
// returns a signed token plus the resolved principal.
func (s *authService) Login(ctx context.Context, email, password string) (string, *Principal, error) {
	if email == "" || password == "" {
		return "", nil, errors.New("email and password cannot be empty")
	}

	if s.adminEmail != "" && email == s.adminEmail {
		if err := bcrypt.CompareHashAndPassword(s.adminHash, []byte(password)); err != nil {
			return "", nil, ErrAuthenticationFailed
		}
		principal := &Principal{ID: "admin", Role: domain.RoleAdmin}
		token, err := s.generateJWT(principal)
		if err != nil {
			return "", nil, ErrTokenGeneration
		}
		return token, principal, nil
	}

	if member, err := s.memberRepo.GetByEmail(ctx, email); err == nil {
		return s.loginWithHash(member.PasswordHash, password, &Principal{ID: member.ID.Hex(), Role: domain.RoleMember})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", nil, err
	}

	if trainer, err := s.trainerRepo.GetByEmail(ctx, email); err == nil {
		return s.loginWithHash(trainer.PasswordHash, password, &Principal{ID: trainer.ID.Hex(), Role: domain.RoleTrainer})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", nil, err
	}

	return "", nil, ErrAuthenticationFailed
}

func (s *authService) loginWithHash(hash, password string, principal *Principal) (string, *Principal, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}
	token, err := s.generateJWT(principal)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	return token, principal, nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(principal *Principal) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		UserID: principal.ID,
		Role:   principal.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.ID,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "gym-app",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// GetJWTSecret returns the JWT secret for middleware authentication.
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
