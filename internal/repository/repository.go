package repository

import (
	"context"
	"time"

	"ironloop/gym-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("conflict")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// SessionRunner executes fn inside a single store transaction. Every write
// performed through the repositories with the callback's context commits
// or rolls back together.
type SessionRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MemberRepository defines the interface for interacting with member data.
// All reads exclude soft-deleted rows unless stated otherwise.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Member, error)
	GetByUUID(ctx context.Context, uuid string) (*domain.Member, error)
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Member, error)
	CountByTrainerID(ctx context.Context, trainerID primitive.ObjectID) (int64, error)
	List(ctx context.Context) ([]domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
	SoftDelete(ctx context.Context, id primitive.ObjectID, at time.Time) error
	Restore(ctx context.Context, id primitive.ObjectID) (*domain.Member, error)
}

// TrainerRepository defines the interface for interacting with trainer data.
type TrainerRepository interface {
	Create(ctx context.Context, trainer *domain.Trainer) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error)
	GetByUUID(ctx context.Context, uuid string) (*domain.Trainer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Trainer, error)
	List(ctx context.Context) ([]domain.Trainer, error)
	Update(ctx context.Context, trainer *domain.Trainer) error
	SoftDelete(ctx context.Context, id primitive.ObjectID, at time.Time) error
	Restore(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error)
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	// GetCatalogByName matches catalog exercises case-insensitively.
	GetCatalogByName(ctx context.Context, name string) (*domain.Exercise, error)
	GetCatalog(ctx context.Context) ([]domain.Exercise, error)
	GetCustomByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error)
	GetByCategory(ctx context.Context, category domain.ExerciseCategory) ([]domain.Exercise, error)
	GetByMuscleGroup(ctx context.Context, muscle domain.MuscleGroup) ([]domain.Exercise, error)
	GetByDifficulty(ctx context.Context, difficulty domain.Difficulty) ([]domain.Exercise, error)
	SearchByName(ctx context.Context, substring string) ([]domain.Exercise, error)
	CountCatalog(ctx context.Context) (int64, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	SoftDelete(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// RequestRepository defines the interface for trainer assignment requests.
type RequestRepository interface {
	Create(ctx context.Context, request *domain.TrainerAssignmentRequest) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainerAssignmentRequest, error)
	GetPendingByMemberID(ctx context.Context, memberID primitive.ObjectID) (*domain.TrainerAssignmentRequest, error)
	GetByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.TrainerAssignmentRequest, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainerAssignmentRequest, error)
	GetPendingByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainerAssignmentRequest, error)
	CountPendingByTrainerID(ctx context.Context, trainerID primitive.ObjectID) (int64, error)
	Update(ctx context.Context, request *domain.TrainerAssignmentRequest) error
}

// PlanRepository defines the interface for workout plan aggregates.
// Days and their exercises are embedded in the plan document.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	// GetByDayID resolves the plan owning the given embedded day.
	GetByDayID(ctx context.Context, dayID primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	GetByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	GetActiveByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	CountActiveByMemberID(ctx context.Context, memberID primitive.ObjectID) (int64, error)
	Update(ctx context.Context, plan *domain.WorkoutPlan) error
	SoftDelete(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// CompletionRepository defines the interface for workout completion records.
type CompletionRepository interface {
	Create(ctx context.Context, completion *domain.WorkoutCompletion) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutCompletion, error)
	GetByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.WorkoutCompletion, error)
	GetByMemberIDAndRange(ctx context.Context, memberID primitive.ObjectID, from, to time.Time) ([]domain.WorkoutCompletion, error)
	CountByMemberID(ctx context.Context, memberID primitive.ObjectID) (int64, error)
}
