package service

import (
	"context"
	"errors"
	"time"

	"ironloop/gym-app/internal/domain"
	"ironloop/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidHourlyRate = errors.New("hourly rate must be positive")

// TrainerProfileUpdate carries the mutable profile fields of a trainer.
type TrainerProfileUpdate struct {
	Name           string
	Specialty      string
	Certifications []string
	HourlyRate     float64
	Active         bool
}

// TrainerService handles trainer profile CRUD, soft delete and restore,
// plus the roster views a trainer needs.
type TrainerService interface {
	GetTrainerByID(ctx context.Context, trainerID primitive.ObjectID) (*domain.Trainer, error)
	GetTrainerByUUID(ctx context.Context, externalID string) (*domain.Trainer, error)
	ListTrainers(ctx context.Context) ([]domain.Trainer, error)
	UpdateProfile(ctx context.Context, trainerID primitive.ObjectID, update TrainerProfileUpdate) (*domain.Trainer, error)
	DeleteTrainer(ctx context.Context, trainerID primitive.ObjectID) error
	RestoreTrainer(ctx context.Context, trainerID primitive.ObjectID) (*domain.Trainer, error)
	GetAssignedMembers(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Member, error)
	HasCapacity(ctx context.Context, trainerID primitive.ObjectID) (bool, error)
}

type trainerService struct {
	trainerRepo repository.TrainerRepository
	memberRepo  repository.MemberRepository
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(trainerRepo repository.TrainerRepository, memberRepo repository.MemberRepository) TrainerService {
	return &trainerService{trainerRepo: trainerRepo, memberRepo: memberRepo}
}

func (s *trainerService) GetTrainerByID(ctx context.Context, trainerID primitive.ObjectID) (*domain.Trainer, error) {
	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	trainer.PasswordHash = ""
	return trainer, nil
}

func (s *trainerService) GetTrainerByUUID(ctx context.Context, externalID string) (*domain.Trainer, error) {
	trainer, err := s.trainerRepo.GetByUUID(ctx, externalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	trainer.PasswordHash = ""
	return trainer, nil
}

func (s *trainerService) ListTrainers(ctx context.Context) ([]domain.Trainer, error) {
	trainers, err := s.trainerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range trainers {
		trainers[i].PasswordHash = ""
	}
	return trainers, nil
}

func (s *trainerService) UpdateProfile(ctx context.Context, trainerID primitive.ObjectID, update TrainerProfileUpdate) (*domain.Trainer, error) {
	if update.Name == "" {
		return nil, errors.New("name cannot be empty")
	}
	if update.HourlyRate <= 0 {
		return nil, ErrInvalidHourlyRate
	}

	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	trainer.Name = update.Name
	trainer.Specialty = update.Specialty
	trainer.Certifications = update.Certifications
	trainer.HourlyRate = update.HourlyRate
	trainer.Active = update.Active

	if err := s.trainerRepo.Update(ctx, trainer); err != nil {
		return nil, err
	}

	trainer.PasswordHash = ""
	return trainer, nil
}

func (s *trainerService) DeleteTrainer(ctx context.Context, trainerID primitive.ObjectID) error {
	err := s.trainerRepo.SoftDelete(ctx, trainerID, time.Now().UTC())
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTrainerNotFound
	}
	return err
}

// RestoreTrainer revives a soft-deleted trainer with all fields intact.
func (s *trainerService) RestoreTrainer(ctx context.Context, trainerID primitive.ObjectID) (*domain.Trainer, error) {
	trainer, err := s.trainerRepo.Restore(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	trainer.PasswordHash = ""
	return trainer, nil
}

func (s *trainerService) GetAssignedMembers(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Member, error) {
	if _, err := s.trainerRepo.GetByID(ctx, trainerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	members, err := s.memberRepo.GetByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	for i := range members {
		members[i].PasswordHash = ""
	}
	return members, nil
}

// HasCapacity reports whether the trainer currently has no assigned
// members and is therefore immediately available.
func (s *trainerService) HasCapacity(ctx context.Context, trainerID primitive.ObjectID) (bool, error) {
	count, err := s.memberRepo.CountByTrainerID(ctx, trainerID)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
