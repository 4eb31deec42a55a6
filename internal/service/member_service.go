package service

import (
	"context"
	"errors"
	"time"

	"ironloop/gym-app/internal/domain"
	"ironloop/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberProfileUpdate carries the mutable profile fields of a member.
// Assignment fields are owned by the assignment service and not touched
// here.
type MemberProfileUpdate struct {
	Name            string
	Phone           string
	MembershipStart *time.Time
	MembershipEnd   *time.Time
}

// MemberService handles member profile CRUD, soft delete and restore.
type MemberService interface {
	GetMemberByID(ctx context.Context, memberID primitive.ObjectID) (*domain.Member, error)
	GetMemberByUUID(ctx context.Context, externalID string) (*domain.Member, error)
	ListMembers(ctx context.Context) ([]domain.Member, error)
	UpdateProfile(ctx context.Context, memberID primitive.ObjectID, update MemberProfileUpdate) (*domain.Member, error)
	DeleteMember(ctx context.Context, memberID primitive.ObjectID) error
	RestoreMember(ctx context.Context, memberID primitive.ObjectID) (*domain.Member, error)
}

type memberService struct {
	memberRepo repository.MemberRepository
}

// NewMemberService creates a new instance of memberService.
func NewMemberService(memberRepo repository.MemberRepository) MemberService {
	return &memberService{memberRepo: memberRepo}
}

func (s *memberService) GetMemberByID(ctx context.Context, memberID primitive.ObjectID) (*domain.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	member.PasswordHash = ""
	return member, nil
}

func (s *memberService) GetMemberByUUID(ctx context.Context, externalID string) (*domain.Member, error) {
	member, err := s.memberRepo.GetByUUID(ctx, externalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	member.PasswordHash = ""
	return member, nil
}

func (s *memberService) ListMembers(ctx context.Context) ([]domain.Member, error) {
	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range members {
		members[i].PasswordHash = ""
	}
	return members, nil
}

func (s *memberService) UpdateProfile(ctx context.Context, memberID primitive.ObjectID, update MemberProfileUpdate) (*domain.Member, error) {
	if update.Name == "" || update.Phone == "" {
		return nil, errors.New("name and phone cannot be empty")
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	member.Name = update.Name
	member.Phone = update.Phone
	member.MembershipStart = update.MembershipStart
	member.MembershipEnd = update.MembershipEnd

	if err := s.memberRepo.Update(ctx, member); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrPhoneAlreadyExists
		}
		return nil, err
	}

	member.PasswordHash = ""
	return member, nil
}

func (s *memberService) DeleteMember(ctx context.Context, memberID primitive.ObjectID) error {
	err := s.memberRepo.SoftDelete(ctx, memberID, time.Now().UTC())
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMemberNotFound
	}
	return err
}

// RestoreMember revives a soft-deleted member with all fields intact.
func (s *memberService) RestoreMember(ctx context.Context, memberID primitive.ObjectID) (*domain.Member, error) {
	member, err := s.memberRepo.Restore(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	member.PasswordHash = ""
	return member, nil
}
