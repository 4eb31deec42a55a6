package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ironloop/gym-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type workoutFixture struct {
	planRepo       *stubPlanRepo
	completionRepo *stubCompletionRepo
	memberRepo     *stubMemberRepo
	trainerRepo    *stubTrainerRepo
	exerciseRepo   *stubExerciseRepo
	svc            WorkoutService

	trainer *domain.Trainer
	member  *domain.Member
}

func newWorkoutFixture() *workoutFixture {
	f := &workoutFixture{
		planRepo:       newStubPlanRepo(),
		completionRepo: newStubCompletionRepo(),
		memberRepo:     newStubMemberRepo(),
		trainerRepo:    newStubTrainerRepo(),
		exerciseRepo:   newStubExerciseRepo(),
	}
	f.svc = NewWorkoutService(f.planRepo, f.completionRepo, f.memberRepo, f.trainerRepo, f.exerciseRepo)

	f.trainer = f.trainerRepo.put(&domain.Trainer{
		Name: "Tom Trainer", Email: "tom@example.com", HourlyRate: 50, Active: true,
	})
	trainerID := f.trainer.ID
	f.member = f.memberRepo.put(&domain.Member{
		Name:              "Ada Member",
		Email:             "ada@example.com",
		AssignedTrainerID: &trainerID,
		AssignmentStatus:  domain.AssignmentActive,
	})
	return f
}

func (f *workoutFixture) seedExercise(name string) *domain.Exercise {
	return f.exerciseRepo.put(&domain.Exercise{
		Name:        name,
		Category:    domain.CategoryStrength,
		MuscleGroup: domain.MuscleLegs,
		Difficulty:  domain.DifficultyIntermediate,
	})
}

func TestPlanAuthoringFlow(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture()
	squat := f.seedExercise("Barbell Squat")
	lunge := f.seedExercise("Walking Lunge")

	plan, err := f.svc.CreateWorkoutPlan(ctx, f.trainer.ID, f.member.ID, PlanCreation{Name: "Leg Block"})
	if err != nil {
		t.Fatalf("CreateWorkoutPlan failed: %v", err)
	}
	if plan.Status != domain.PlanDraft {
		t.Fatalf("expected new plan to be draft, got %s", plan.Status)
	}

	plan, err = f.svc.AddWorkoutDay(ctx, plan.ID, f.trainer.ID, "Day A", 1, "")
	if err != nil {
		t.Fatalf("AddWorkoutDay failed: %v", err)
	}
	if len(plan.Days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(plan.Days))
	}
	dayID := plan.Days[0].ID

	plan, err = f.svc.AddExerciseToDay(ctx, dayID, f.trainer.ID, ExercisePrescription{
		ExerciseID: squat.ID, Sets: 5, Reps: 5, OrderInWorkout: 2,
	})
	if err != nil {
		t.Fatalf("AddExerciseToDay failed: %v", err)
	}
	plan, err = f.svc.AddExerciseToDay(ctx, dayID, f.trainer.ID, ExercisePrescription{
		ExerciseID: lunge.ID, Sets: 3, Reps: 12, OrderInWorkout: 1,
	})
	if err != nil {
		t.Fatalf("AddExerciseToDay failed: %v", err)
	}

	if got := plan.Days[0].Exercises[0].ExerciseName; got != "Barbell Squat" {
		t.Fatalf("expected exercise name snapshot, got %q", got)
	}

	// Reads order exercises by orderInWorkout.
	fetched, err := f.svc.GetPlanByID(ctx, plan.ID)
	if err != nil {
		t.Fatalf("GetPlanByID failed: %v", err)
	}
	exercises := fetched.Days[0].Exercises
	if len(exercises) != 2 {
		t.Fatalf("expected 2 exercises, got %d", len(exercises))
	}
	if exercises[0].ExerciseName != "Walking Lunge" || exercises[1].ExerciseName != "Barbell Squat" {
		t.Fatalf("expected exercises sorted by order, got %q then %q",
			exercises[0].ExerciseName, exercises[1].ExerciseName)
	}
}

func TestCreatePlanMemberNotAssigned(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture()
	stranger := f.memberRepo.put(&domain.Member{
		Name: "Stranger", Email: "stranger@example.com", AssignmentStatus: domain.AssignmentNoTrainer,
	})

	_, err := f.svc.CreateWorkoutPlan(ctx, f.trainer.ID, stranger.ID, PlanCreation{Name: "Nope"})
	if !errors.Is(err, ErrMemberNotAssigned) {
		t.Fatalf("expected ErrMemberNotAssigned, got %v", err)
	}
}

func TestAddExerciseValidation(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture()
	squat := f.seedExercise("Barbell Squat")

	plan, err := f.svc.CreateWorkoutPlan(ctx, f.trainer.ID, f.member.ID, PlanCreation{Name: "Leg Block"})
	if err != nil {
		t.Fatalf("CreateWorkoutPlan failed: %v", err)
	}
	plan, err = f.svc.AddWorkoutDay(ctx, plan.ID, f.trainer.ID, "Day A", 1, "")
	if err != nil {
		t.Fatalf("AddWorkoutDay failed: %v", err)
	}
	dayID := plan.Days[0].ID

	_, err = f.svc.AddExerciseToDay(ctx, dayID, f.trainer.ID, ExercisePrescription{
		ExerciseID: squat.ID, Sets: 0, Reps: 10, OrderInWorkout: 1,
	})
	if !errors.Is(err, ErrInvalidSetsReps) {
		t.Fatalf("expected ErrInvalidSetsReps, got %v", err)
	}

	_, err = f.svc.AddExerciseToDay(ctx, dayID, f.trainer.ID, ExercisePrescription{
		ExerciseID: primitive.NewObjectID(), Sets: 3, Reps: 10, OrderInWorkout: 1,
	})
	if !errors.Is(err, ErrExerciseNotFound) {
		t.Fatalf("expected ErrExerciseNotFound, got %v", err)
	}

	other := f.trainerRepo.put(&domain.Trainer{
		Name: "Other", Email: "other-coach@example.com", HourlyRate: 45, Active: true,
	})
	_, err = f.svc.AddExerciseToDay(ctx, dayID, other.ID, ExercisePrescription{
		ExerciseID: squat.ID, Sets: 3, Reps: 10, OrderInWorkout: 1,
	})
	if !errors.Is(err, ErrPlanAccessDenied) {
		t.Fatalf("expected ErrPlanAccessDenied, got %v", err)
	}
}

func TestActivatePlanRules(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture()

	plan, err := f.svc.CreateWorkoutPlan(ctx, f.trainer.ID, f.member.ID, PlanCreation{Name: "Empty Plan"})
	if err != nil {
		t.Fatalf("CreateWorkoutPlan failed: %v", err)
	}

	_, err = f.svc.ActivateWorkoutPlan(ctx, plan.ID, f.trainer.ID)
	if !errors.Is(err, ErrPlanNeedsDay) {
		t.Fatalf("expected ErrPlanNeedsDay for a dayless plan, got %v", err)
	}

	if _, err := f.svc.AddWorkoutDay(ctx, plan.ID, f.trainer.ID, "Day A", 1, ""); err != nil {
		t.Fatalf("AddWorkoutDay failed: %v", err)
	}

	activated, err := f.svc.ActivateWorkoutPlan(ctx, plan.ID, f.trainer.ID)
	if err != nil {
		t.Fatalf("ActivateWorkoutPlan failed: %v", err)
	}
	if activated.Status != domain.PlanActive {
		t.Fatalf("expected active plan, got %s", activated.Status)
	}

	_, err = f.svc.ActivateWorkoutPlan(ctx, plan.ID, f.trainer.ID)
	if !errors.Is(err, ErrPlanNotDraft) {
		t.Fatalf("expected ErrPlanNotDraft on re-activation, got %v", err)
	}
}

func TestUpdatePlanStatusTransitions(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture()

	plan, err := f.svc.CreateWorkoutPlan(ctx, f.trainer.ID, f.member.ID, PlanCreation{Name: "Block"})
	if err != nil {
		t.Fatalf("CreateWorkoutPlan failed: %v", err)
	}
	if _, err := f.svc.AddWorkoutDay(ctx, plan.ID, f.trainer.ID, "Day A", 1, ""); err != nil {
		t.Fatalf("AddWorkoutDay failed: %v", err)
	}

	// Draft cannot be paused or completed directly.
	if _, err := f.svc.UpdatePlanStatus(ctx, plan.ID, f.trainer.ID, domain.PlanPaused); !errors.Is(err, ErrPlanBadTransition) {
		t.Fatalf("expected ErrPlanBadTransition for draft->paused, got %v", err)
	}

	if _, err := f.svc.ActivateWorkoutPlan(ctx, plan.ID, f.trainer.ID); err != nil {
		t.Fatalf("ActivateWorkoutPlan failed: %v", err)
	}

	paused, err := f.svc.UpdatePlanStatus(ctx, plan.ID, f.trainer.ID, domain.PlanPaused)
	if err != nil {
		t.Fatalf("active->paused failed: %v", err)
	}
	if paused.Status != domain.PlanPaused {
		t.Fatalf("expected paused, got %s", paused.Status)
	}

	if _, err := f.svc.UpdatePlanStatus(ctx, plan.ID, f.trainer.ID, domain.PlanCompleted); !errors.Is(err, ErrPlanBadTransition) {
		t.Fatalf("expected ErrPlanBadTransition for paused->completed, got %v", err)
	}

	resumed, err := f.svc.UpdatePlanStatus(ctx, plan.ID, f.trainer.ID, domain.PlanActive)
	if err != nil {
		t.Fatalf("paused->active failed: %v", err)
	}
	if resumed.Status != domain.PlanActive {
		t.Fatalf("expected active, got %s", resumed.Status)
	}

	completed, err := f.svc.UpdatePlanStatus(ctx, plan.ID, f.trainer.ID, domain.PlanCompleted)
	if err != nil {
		t.Fatalf("active->completed failed: %v", err)
	}
	if completed.Status != domain.PlanCompleted {
		t.Fatalf("expected completed, got %s", completed.Status)
	}
}

func TestCompleteWorkout(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture()
	squat := f.seedExercise("Barbell Squat")

	plan, err := f.svc.CreateWorkoutPlan(ctx, f.trainer.ID, f.member.ID, PlanCreation{Name: "Leg Block"})
	if err != nil {
		t.Fatalf("CreateWorkoutPlan failed: %v", err)
	}
	plan, err = f.svc.AddWorkoutDay(ctx, plan.ID, f.trainer.ID, "Day A", 1, "")
	if err != nil {
		t.Fatalf("AddWorkoutDay failed: %v", err)
	}
	dayID := plan.Days[0].ID
	plan, err = f.svc.AddExerciseToDay(ctx, dayID, f.trainer.ID, ExercisePrescription{
		ExerciseID: squat.ID, Sets: 5, Reps: 5, OrderInWorkout: 1,
	})
	if err != nil {
		t.Fatalf("AddExerciseToDay failed: %v", err)
	}
	prescriptionID := plan.Days[0].Exercises[0].ID
	if _, err := f.svc.ActivateWorkoutPlan(ctx, plan.ID, f.trainer.ID); err != nil {
		t.Fatalf("ActivateWorkoutPlan failed: %v", err)
	}

	rating := 4
	completion, err := f.svc.CompleteWorkout(ctx, f.member.ID, dayID, &rating, "felt strong", []LogEntry{
		{WorkoutExerciseID: prescriptionID, SetsCompleted: 5, RepsCompleted: 5},
	})
	if err != nil {
		t.Fatalf("CompleteWorkout failed: %v", err)
	}
	if completion.PlanID != plan.ID || completion.WorkoutDayID != dayID {
		t.Fatal("completion must reference the completed plan and day")
	}
	if len(completion.Logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(completion.Logs))
	}
	if completion.Logs[0].ExerciseName != "Barbell Squat" {
		t.Fatalf("expected log to snapshot the exercise name, got %q", completion.Logs[0].ExerciseName)
	}

	history, err := f.svc.GetCompletionHistory(ctx, f.member.ID, nil, nil)
	if err != nil {
		t.Fatalf("GetCompletionHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 completion in history, got %d", len(history))
	}
	count, err := f.svc.CountCompletions(ctx, f.member.ID)
	if err != nil {
		t.Fatalf("CountCompletions failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected completion count 1, got %d", count)
	}
}

func TestCompleteWorkoutValidation(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture()
	squat := f.seedExercise("Barbell Squat")

	plan, err := f.svc.CreateWorkoutPlan(ctx, f.trainer.ID, f.member.ID, PlanCreation{Name: "Leg Block"})
	if err != nil {
		t.Fatalf("CreateWorkoutPlan failed: %v", err)
	}
	plan, err = f.svc.AddWorkoutDay(ctx, plan.ID, f.trainer.ID, "Day A", 1, "")
	if err != nil {
		t.Fatalf("AddWorkoutDay failed: %v", err)
	}
	dayID := plan.Days[0].ID
	plan, err = f.svc.AddExerciseToDay(ctx, dayID, f.trainer.ID, ExercisePrescription{
		ExerciseID: squat.ID, Sets: 5, Reps: 5, OrderInWorkout: 1,
	})
	if err != nil {
		t.Fatalf("AddExerciseToDay failed: %v", err)
	}
	prescriptionID := plan.Days[0].Exercises[0].ID

	bad := 6
	_, err = f.svc.CompleteWorkout(ctx, f.member.ID, dayID, &bad, "", nil)
	if !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}

	_, err = f.svc.CompleteWorkout(ctx, f.member.ID, dayID, nil, "", []LogEntry{
		{WorkoutExerciseID: primitive.NewObjectID(), SetsCompleted: 3, RepsCompleted: 8},
	})
	if !errors.Is(err, ErrWorkoutExerciseNotFound) {
		t.Fatalf("expected ErrWorkoutExerciseNotFound, got %v", err)
	}

	stranger := f.memberRepo.put(&domain.Member{
		Name: "Stranger", Email: "stranger@example.com", AssignmentStatus: domain.AssignmentNoTrainer,
	})
	_, err = f.svc.CompleteWorkout(ctx, stranger.ID, dayID, nil, "", []LogEntry{
		{WorkoutExerciseID: prescriptionID, SetsCompleted: 3, RepsCompleted: 8},
	})
	if !errors.Is(err, ErrWorkoutNotOwned) {
		t.Fatalf("expected ErrWorkoutNotOwned, got %v", err)
	}
}

func TestCompletionHistorySingleBound(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture()

	march := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	june := time.Date(2026, 6, 10, 8, 0, 0, 0, time.UTC)
	for _, at := range []time.Time{march, june} {
		if _, err := f.completionRepo.Create(ctx, &domain.WorkoutCompletion{
			MemberID:     f.member.ID,
			PlanID:       primitive.NewObjectID(),
			WorkoutDayID: primitive.NewObjectID(),
			CompletedAt:  at,
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	// Only a lower bound: everything from May onward.
	may := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	history, err := f.svc.GetCompletionHistory(ctx, f.member.ID, &may, nil)
	if err != nil {
		t.Fatalf("GetCompletionHistory failed: %v", err)
	}
	if len(history) != 1 || !history[0].CompletedAt.Equal(june) {
		t.Fatalf("expected only the June completion, got %+v", history)
	}

	// Only an upper bound: everything up to May.
	history, err = f.svc.GetCompletionHistory(ctx, f.member.ID, nil, &may)
	if err != nil {
		t.Fatalf("GetCompletionHistory failed: %v", err)
	}
	if len(history) != 1 || !history[0].CompletedAt.Equal(march) {
		t.Fatalf("expected only the March completion, got %+v", history)
	}

	// No bounds: full history.
	history, err = f.svc.GetCompletionHistory(ctx, f.member.ID, nil, nil)
	if err != nil {
		t.Fatalf("GetCompletionHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected full history, got %d completions", len(history))
	}
}

func TestDeletePlanHidesIt(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture()

	plan, err := f.svc.CreateWorkoutPlan(ctx, f.trainer.ID, f.member.ID, PlanCreation{Name: "Short-lived"})
	if err != nil {
		t.Fatalf("CreateWorkoutPlan failed: %v", err)
	}

	other := f.trainerRepo.put(&domain.Trainer{
		Name: "Other", Email: "other-coach@example.com", HourlyRate: 45, Active: true,
	})
	if err := f.svc.DeleteWorkoutPlan(ctx, plan.ID, other.ID); !errors.Is(err, ErrPlanAccessDenied) {
		t.Fatalf("expected ErrPlanAccessDenied, got %v", err)
	}

	if err := f.svc.DeleteWorkoutPlan(ctx, plan.ID, f.trainer.ID); err != nil {
		t.Fatalf("DeleteWorkoutPlan failed: %v", err)
	}

	if _, err := f.svc.GetPlanByID(ctx, plan.ID); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound after delete, got %v", err)
	}
	plans, err := f.svc.GetPlansByTrainer(ctx, f.trainer.ID)
	if err != nil {
		t.Fatalf("GetPlansByTrainer failed: %v", err)
	}
	if len(plans) != 0 {
		t.Fatalf("expected deleted plan hidden from listings, got %d plans", len(plans))
	}
}
