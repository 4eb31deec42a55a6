package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"ironloop/gym-app/internal/domain"
	"ironloop/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound            = errors.New("workout plan not found")
	ErrDayNotFound             = errors.New("workout day not found")
	ErrWorkoutExerciseNotFound = errors.New("workout exercise not found")
	ErrCompletionNotFound      = errors.New("workout completion not found")
	ErrPlanAccessDenied        = errors.New("no permission to modify this plan")
	ErrMemberNotAssigned       = errors.New("member is not assigned to you")
	ErrPlanNotDraft            = errors.New("only a draft plan can be activated")
	ErrPlanNeedsDay            = errors.New("plan must have at least one day to activate")
	ErrPlanBadTransition       = errors.New("invalid plan status transition")
	ErrWorkoutNotOwned         = errors.New("this workout is not yours")
	ErrInvalidRating           = errors.New("rating must be between 1 and 5")
	ErrInvalidSetsReps         = errors.New("sets and reps must be positive")
)

// PlanCreation carries the inputs for creating a workout plan.
type PlanCreation struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	Notes       string
}

// ExercisePrescription carries the inputs for adding an exercise to a day.
type ExercisePrescription struct {
	ExerciseID     primitive.ObjectID
	Sets           int
	Reps           int
	Weight         *float64
	RestSeconds    *int
	OrderInWorkout int
	Notes          string
}

// LogEntry is one performed exercise inside a completion request.
type LogEntry struct {
	WorkoutExerciseID primitive.ObjectID
	SetsCompleted     int
	RepsCompleted     int
	WeightUsed        *float64
	Notes             string
}

// WorkoutService owns plan authoring (trainer side) and plan consumption
// (member side). Ownership checks live here, not in the transport layer.
type WorkoutService interface {
	CreateWorkoutPlan(ctx context.Context, trainerID, memberID primitive.ObjectID, creation PlanCreation) (*domain.WorkoutPlan, error)
	AddWorkoutDay(ctx context.Context, planID, trainerID primitive.ObjectID, dayName string, dayNumber int, notes string) (*domain.WorkoutPlan, error)
	AddExerciseToDay(ctx context.Context, dayID, trainerID primitive.ObjectID, prescription ExercisePrescription) (*domain.WorkoutPlan, error)
	ActivateWorkoutPlan(ctx context.Context, planID, trainerID primitive.ObjectID) (*domain.WorkoutPlan, error)
	UpdatePlanStatus(ctx context.Context, planID, trainerID primitive.ObjectID, status domain.PlanStatus) (*domain.WorkoutPlan, error)
	DeleteWorkoutPlan(ctx context.Context, planID, trainerID primitive.ObjectID) error
	CompleteWorkout(ctx context.Context, memberID, dayID primitive.ObjectID, rating *int, notes string, entries []LogEntry) (*domain.WorkoutCompletion, error)

	GetPlanByID(ctx context.Context, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetPlansByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	GetPlansByMember(ctx context.Context, memberID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	GetActivePlansByMember(ctx context.Context, memberID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	CountActivePlansByMember(ctx context.Context, memberID primitive.ObjectID) (int64, error)
	GetCompletionHistory(ctx context.Context, memberID primitive.ObjectID, from, to *time.Time) ([]domain.WorkoutCompletion, error)
	CountCompletions(ctx context.Context, memberID primitive.ObjectID) (int64, error)
}

type workoutService struct {
	planRepo       repository.PlanRepository
	completionRepo repository.CompletionRepository
	memberRepo     repository.MemberRepository
	trainerRepo    repository.TrainerRepository
	exerciseRepo   repository.ExerciseRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	planRepo repository.PlanRepository,
	completionRepo repository.CompletionRepository,
	memberRepo repository.MemberRepository,
	trainerRepo repository.TrainerRepository,
	exerciseRepo repository.ExerciseRepository,
) WorkoutService {
	return &workoutService{
		planRepo:       planRepo,
		completionRepo: completionRepo,
		memberRepo:     memberRepo,
		trainerRepo:    trainerRepo,
		exerciseRepo:   exerciseRepo,
	}
}

// CreateWorkoutPlan creates a draft plan for a member currently assigned
// to the calling trainer.
func (s *workoutService) CreateWorkoutPlan(ctx context.Context, trainerID, memberID primitive.ObjectID, creation PlanCreation) (*domain.WorkoutPlan, error) {
	if trainerID == primitive.NilObjectID || memberID == primitive.NilObjectID {
		return nil, errors.New("trainer ID and member ID are required")
	}
	if creation.Name == "" {
		return nil, errors.New("plan name is required")
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

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	if member.AssignedTrainerID == nil || *member.AssignedTrainerID != trainerID {
		return nil, ErrMemberNotAssigned
	}

	plan := &domain.WorkoutPlan{
		Name:        creation.Name,
		Description: creation.Description,
		TrainerID:   trainerID,
		MemberID:    memberID,
		Status:      domain.PlanDraft,
		StartDate:   creation.StartDate,
		EndDate:     creation.EndDate,
		Notes:       creation.Notes,
		Days:        []domain.WorkoutDay{},
	}

	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = planID
	return plan, nil
}

// AddWorkoutDay appends a day to a plan owned by the calling trainer.
// DayNumber is taken as given; insertion order is preserved for display.
func (s *workoutService) AddWorkoutDay(ctx context.Context, planID, trainerID primitive.ObjectID, dayName string, dayNumber int, notes string) (*domain.WorkoutPlan, error) {
	if dayName == "" {
		return nil, errors.New("day name is required")
	}
	if dayNumber <= 0 {
		return nil, errors.New("day number must be positive")
	}

	plan, err := s.ownedPlan(ctx, planID, trainerID)
	if err != nil {
		return nil, err
	}

	plan.Days = append(plan.Days, domain.WorkoutDay{
		ID:        primitive.NewObjectID(),
		DayName:   dayName,
		DayNumber: dayNumber,
		Notes:     notes,
		Exercises: []domain.WorkoutExercise{},
	})

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// AddExerciseToDay appends a prescription to a day of a plan owned by the
// calling trainer. The exercise may be catalog or custom; no ownership
// check applies to the exercise itself here.
func (s *workoutService) AddExerciseToDay(ctx context.Context, dayID, trainerID primitive.ObjectID, prescription ExercisePrescription) (*domain.WorkoutPlan, error) {
	if prescription.Sets <= 0 || prescription.Reps <= 0 {
		return nil, ErrInvalidSetsReps
	}
	if prescription.OrderInWorkout <= 0 {
		return nil, errors.New("order in workout must be positive")
	}

	plan, err := s.planRepo.GetByDayID(ctx, dayID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}
	if plan.TrainerID != trainerID {
		return nil, ErrPlanAccessDenied
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, prescription.ExerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	day := plan.Day(dayID)
	if day == nil {
		return nil, ErrDayNotFound
	}

	day.Exercises = append(day.Exercises, domain.WorkoutExercise{
		ID:             primitive.NewObjectID(),
		ExerciseID:     exercise.ID,
		ExerciseName:   exercise.Name,
		Sets:           prescription.Sets,
		Reps:           prescription.Reps,
		Weight:         prescription.Weight,
		RestSeconds:    prescription.RestSeconds,
		OrderInWorkout: prescription.OrderInWorkout,
		Notes:          prescription.Notes,
	})

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// ActivateWorkoutPlan moves a draft plan with at least one day to active.
func (s *workoutService) ActivateWorkoutPlan(ctx context.Context, planID, trainerID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.ownedPlan(ctx, planID, trainerID)
	if err != nil {
		return nil, err
	}

	if plan.Status != domain.PlanDraft {
		return nil, ErrPlanNotDraft
	}
	if len(plan.Days) == 0 {
		return nil, ErrPlanNeedsDay
	}

	plan.Status = domain.PlanActive
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// UpdatePlanStatus covers the transitions activation does not: pausing,
// resuming, and completing an active plan. Nothing transitions
// automatically.
func (s *workoutService) UpdatePlanStatus(ctx context.Context, planID, trainerID primitive.ObjectID, status domain.PlanStatus) (*domain.WorkoutPlan, error) {
	plan, err := s.ownedPlan(ctx, planID, trainerID)
	if err != nil {
		return nil, err
	}

	allowed := (plan.Status == domain.PlanActive && status == domain.PlanPaused) ||
		(plan.Status == domain.PlanPaused && status == domain.PlanActive) ||
		(plan.Status == domain.PlanActive && status == domain.PlanCompleted)
	if !allowed {
		return nil, ErrPlanBadTransition
	}

	plan.Status = status
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// DeleteWorkoutPlan soft-deletes a plan owned by the calling trainer. Its
// embedded days and exercises become unreachable through plan-scoped
// reads without being individually marked.
func (s *workoutService) DeleteWorkoutPlan(ctx context.Context, planID, trainerID primitive.ObjectID) error {
	plan, err := s.ownedPlan(ctx, planID, trainerID)
	if err != nil {
		return err
	}
	return s.planRepo.SoftDelete(ctx, plan.ID, time.Now().UTC())
}

func (s *workoutService) ownedPlan(ctx context.Context, planID, trainerID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	if planID == primitive.NilObjectID || trainerID == primitive.NilObjectID {
		return nil, errors.New("plan ID and trainer ID are required")
	}

	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.TrainerID != trainerID {
		return nil, ErrPlanAccessDenied
	}
	return plan, nil
}

// CompleteWorkout records a member finishing one day of their own plan,
// with per-exercise logs. Each log entry must reference a prescription in
// the completed day; the log snapshots that prescription's exercise name.
func (s *workoutService) CompleteWorkout(ctx context.Context, memberID, dayID primitive.ObjectID, rating *int, notes string, entries []LogEntry) (*domain.WorkoutCompletion, error) {
	if memberID == primitive.NilObjectID || dayID == primitive.NilObjectID {
		return nil, errors.New("member ID and day ID are required")
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return nil, ErrInvalidRating
	}

	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	plan, err := s.planRepo.GetByDayID(ctx, dayID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}
	if plan.MemberID != memberID {
		return nil, ErrWorkoutNotOwned
	}

	day := plan.Day(dayID)
	if day == nil {
		return nil, ErrDayNotFound
	}

	logs := make([]domain.ExerciseLog, 0, len(entries))
	for _, entry := range entries {
		if entry.SetsCompleted <= 0 || entry.RepsCompleted <= 0 {
			return nil, ErrInvalidSetsReps
		}
		prescription := day.Exercise(entry.WorkoutExerciseID)
		if prescription == nil {
			return nil, ErrWorkoutExerciseNotFound
		}
		logs = append(logs, domain.ExerciseLog{
			ID:                primitive.NewObjectID(),
			WorkoutExerciseID: prescription.ID,
			ExerciseName:      prescription.ExerciseName,
			SetsCompleted:     entry.SetsCompleted,
			RepsCompleted:     entry.RepsCompleted,
			WeightUsed:        entry.WeightUsed,
			Notes:             entry.Notes,
		})
	}

	completion := &domain.WorkoutCompletion{
		MemberID:     memberID,
		PlanID:       plan.ID,
		WorkoutDayID: dayID,
		CompletedAt:  time.Now().UTC(),
		Rating:       rating,
		Notes:        notes,
		Logs:         logs,
	}

	completionID, err := s.completionRepo.Create(ctx, completion)
	if err != nil {
		return nil, err
	}
	completion.ID = completionID
	return completion, nil
}

// === Read operations ===

// GetPlanByID returns the plan with each day's exercises in display order:
// ascending orderInWorkout, ties broken by insertion order.
func (s *workoutService) GetPlanByID(ctx context.Context, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	sortPlanForDisplay(plan)
	return plan, nil
}

func (s *workoutService) GetPlansByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	plans, err := s.planRepo.GetByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	sortPlansForDisplay(plans)
	return plans, nil
}

func (s *workoutService) GetPlansByMember(ctx context.Context, memberID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	if memberID == primitive.NilObjectID {
		return nil, errors.New("member ID is required")
	}
	plans, err := s.planRepo.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	sortPlansForDisplay(plans)
	return plans, nil
}

func (s *workoutService) GetActivePlansByMember(ctx context.Context, memberID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	if memberID == primitive.NilObjectID {
		return nil, errors.New("member ID is required")
	}
	plans, err := s.planRepo.GetActiveByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	sortPlansForDisplay(plans)
	return plans, nil
}

func (s *workoutService) CountActivePlansByMember(ctx context.Context, memberID primitive.ObjectID) (int64, error) {
	if memberID == primitive.NilObjectID {
		return 0, errors.New("member ID is required")
	}
	return s.planRepo.CountActiveByMemberID(ctx, memberID)
}

// GetCompletionHistory returns a member's completions, optionally limited
// to a date range. A single bound is an open-ended range: the missing end
// defaults to the beginning of time or to now.
func (s *workoutService) GetCompletionHistory(ctx context.Context, memberID primitive.ObjectID, from, to *time.Time) ([]domain.WorkoutCompletion, error) {
	if memberID == primitive.NilObjectID {
		return nil, errors.New("member ID is required")
	}
	if from == nil && to == nil {
		return s.completionRepo.GetByMemberID(ctx, memberID)
	}

	lo, hi := time.Time{}, time.Now().UTC()
	if from != nil {
		lo = *from
	}
	if to != nil {
		hi = *to
	}
	return s.completionRepo.GetByMemberIDAndRange(ctx, memberID, lo, hi)
}

func (s *workoutService) CountCompletions(ctx context.Context, memberID primitive.ObjectID) (int64, error) {
	if memberID == primitive.NilObjectID {
		return 0, errors.New("member ID is required")
	}
	return s.completionRepo.CountByMemberID(ctx, memberID)
}

func sortPlansForDisplay(plans []domain.WorkoutPlan) {
	for i := range plans {
		sortPlanForDisplay(&plans[i])
	}
}

func sortPlanForDisplay(plan *domain.WorkoutPlan) {
	for i := range plan.Days {
		exercises := plan.Days[i].Exercises
		sort.SliceStable(exercises, func(a, b int) bool {
			return exercises[a].OrderInWorkout < exercises[b].OrderInWorkout
		})
	}
}
