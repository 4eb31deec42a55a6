package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ironloop/gym-app/internal/domain"
	"ironloop/gym-app/internal/repository"
	"ironloop/gym-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound      = errors.New("exercise not found")
	ErrExerciseAccessDenied  = errors.New("no permission to modify this exercise")
	ErrDuplicateExerciseName = errors.New("catalog exercise with this name already exists")
	ErrValidationFailed      = errors.New("exercise validation failed")
)

// ExerciseFields are the mutable attributes shared by catalog and custom
// exercises.
type ExerciseFields struct {
	Name         string
	Description  string
	Category     domain.ExerciseCategory
	MuscleGroup  domain.MuscleGroup
	Difficulty   domain.Difficulty
	Instructions string
	Equipment    string
}

// MediaUpload is the result of presigning a media upload for an exercise.
type MediaUpload struct {
	UploadURL string
	ObjectKey string
}

// ExerciseService manages the shared catalog and trainer-private custom
// exercises. Custom-exercise privacy is enforced here; catalog-level
// authorization (admin only) is the transport layer's concern.
type ExerciseService interface {
	CreateCatalogExercise(ctx context.Context, fields ExerciseFields) (*domain.Exercise, error)
	CreateCustomExercise(ctx context.Context, trainerID primitive.ObjectID, fields ExerciseFields) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, exerciseID, trainerID primitive.ObjectID, fields ExerciseFields) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, exerciseID, trainerID primitive.ObjectID) error

	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	ListCatalog(ctx context.Context) ([]domain.Exercise, error)
	ListCustomByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error)
	FilterByCategory(ctx context.Context, category domain.ExerciseCategory) ([]domain.Exercise, error)
	FilterByMuscleGroup(ctx context.Context, muscle domain.MuscleGroup) ([]domain.Exercise, error)
	FilterByDifficulty(ctx context.Context, difficulty domain.Difficulty) ([]domain.Exercise, error)
	SearchByName(ctx context.Context, substring string) ([]domain.Exercise, error)
	CountCatalog(ctx context.Context) (int64, error)

	GenerateMediaUploadURL(ctx context.Context, exerciseID, trainerID primitive.ObjectID, contentType string) (*MediaUpload, error)
	GetMediaDownloadURL(ctx context.Context, exerciseID primitive.ObjectID, objectKey string) (string, error)
}

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	trainerRepo  repository.TrainerRepository
	fileStorage  storage.FileStorage
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(
	exerciseRepo repository.ExerciseRepository,
	trainerRepo repository.TrainerRepository,
	fileStorage storage.FileStorage,
) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		trainerRepo:  trainerRepo,
		fileStorage:  fileStorage,
	}
}

// CreateCatalogExercise creates a globally visible exercise. Names are
// unique among live catalog exercises, ignoring case; the check here gives
// a clean error and the collation index backs it under concurrency.
func (s *exerciseService) CreateCatalogExercise(ctx context.Context, fields ExerciseFields) (*domain.Exercise, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	if _, err := s.exerciseRepo.GetCatalogByName(ctx, fields.Name); err == nil {
		return nil, ErrDuplicateExerciseName
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	exercise := newExercise(fields)
	exercise.IsCustom = false

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateExerciseName
		}
		return nil, err
	}
	exercise.ID = exerciseID
	return exercise, nil
}

// CreateCustomExercise creates a trainer-private exercise. No duplicate
// name check applies across custom exercises.
func (s *exerciseService) CreateCustomExercise(ctx context.Context, trainerID primitive.ObjectID, fields ExerciseFields) (*domain.Exercise, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	if !trainer.Active {
		return nil, ErrTrainerNotFound
	}

	exercise := newExercise(fields)
	exercise.IsCustom = true
	exercise.TrainerID = &trainerID

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = exerciseID
	return exercise, nil
}

// UpdateExercise rewrites an exercise's attributes. Custom exercises may
// only be touched by their owning trainer; catalog exercises carry no
// ownership check here.
func (s *exerciseService) UpdateExercise(ctx context.Context, exerciseID, trainerID primitive.ObjectID, fields ExerciseFields) (*domain.Exercise, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	exercise, err := s.modifiableExercise(ctx, exerciseID, trainerID)
	if err != nil {
		return nil, err
	}

	exercise.Name = fields.Name
	exercise.Description = fields.Description
	exercise.Category = fields.Category
	exercise.MuscleGroup = fields.MuscleGroup
	exercise.Difficulty = fields.Difficulty
	exercise.Instructions = fields.Instructions
	exercise.Equipment = fields.Equipment

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateExerciseName
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// DeleteExercise soft-deletes with the same ownership rule as update.
func (s *exerciseService) DeleteExercise(ctx context.Context, exerciseID, trainerID primitive.ObjectID) error {
	exercise, err := s.modifiableExercise(ctx, exerciseID, trainerID)
	if err != nil {
		return err
	}

	if err := s.exerciseRepo.SoftDelete(ctx, exercise.ID, time.Now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	return nil
}

func (s *exerciseService) modifiableExercise(ctx context.Context, exerciseID, trainerID primitive.ObjectID) (*domain.Exercise, error) {
	if exerciseID == primitive.NilObjectID {
		return nil, errors.New("exercise ID is required")
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if exercise.IsCustom && !exercise.OwnedBy(trainerID) {
		return nil, ErrExerciseAccessDenied
	}
	return exercise, nil
}

// === Read operations ===

func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) ListCatalog(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.GetCatalog(ctx)
}

func (s *exerciseService) ListCustomByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	return s.exerciseRepo.GetCustomByTrainerID(ctx, trainerID)
}

func (s *exerciseService) FilterByCategory(ctx context.Context, category domain.ExerciseCategory) ([]domain.Exercise, error) {
	return s.exerciseRepo.GetByCategory(ctx, category)
}

func (s *exerciseService) FilterByMuscleGroup(ctx context.Context, muscle domain.MuscleGroup) ([]domain.Exercise, error) {
	return s.exerciseRepo.GetByMuscleGroup(ctx, muscle)
}

func (s *exerciseService) FilterByDifficulty(ctx context.Context, difficulty domain.Difficulty) ([]domain.Exercise, error) {
	return s.exerciseRepo.GetByDifficulty(ctx, difficulty)
}

func (s *exerciseService) SearchByName(ctx context.Context, substring string) ([]domain.Exercise, error) {
	if substring == "" {
		return nil, ErrValidationFailed
	}
	return s.exerciseRepo.SearchByName(ctx, substring)
}

func (s *exerciseService) CountCatalog(ctx context.Context) (int64, error) {
	return s.exerciseRepo.CountCatalog(ctx)
}

// === Media ===

// GenerateMediaUploadURL presigns a PUT for an exercise media object and
// records the object key on the exercise. The caller uploads directly to
// storage with the returned URL.
func (s *exerciseService) GenerateMediaUploadURL(ctx context.Context, exerciseID, trainerID primitive.ObjectID, contentType string) (*MediaUpload, error) {
	if contentType == "" {
		return nil, ErrValidationFailed
	}

	exercise, err := s.modifiableExercise(ctx, exerciseID, trainerID)
	if err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("exercises/%s/%s", exercise.ID.Hex(), uuid.NewString())
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	exercise.MediaURLs = append(exercise.MediaURLs, objectKey)
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return nil, err
	}

	return &MediaUpload{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// GetMediaDownloadURL presigns a GET for one of the exercise's recorded
// media objects.
func (s *exerciseService) GetMediaDownloadURL(ctx context.Context, exerciseID primitive.ObjectID, objectKey string) (string, error) {
	exercise, err := s.GetExerciseByID(ctx, exerciseID)
	if err != nil {
		return "", err
	}

	found := false
	for _, key := range exercise.MediaURLs {
		if key == objectKey {
			found = true
			break
		}
	}
	if !found {
		return "", ErrExerciseNotFound
	}

	return s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
}

func newExercise(fields ExerciseFields) *domain.Exercise {
	return &domain.Exercise{
		Name:         fields.Name,
		Description:  fields.Description,
		Category:     fields.Category,
		MuscleGroup:  fields.MuscleGroup,
		Difficulty:   fields.Difficulty,
		Instructions: fields.Instructions,
		Equipment:    fields.Equipment,
	}
}

func validateFields(fields ExerciseFields) error {
	if fields.Name == "" {
		return ErrValidationFailed
	}
	return nil
}
