package service

import (
	"context"
	"strings"
	"time"

	"ironloop/gym-app/internal/domain"
	"ironloop/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository stubs shared across the service tests. They mimic
// the store's observable behavior: not-found on soft-deleted rows, the
// one-pending-request-per-member unique index, and the case-insensitive
// catalog name index.

type stubSessionRunner struct{}

func (stubSessionRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- members ---

type stubMemberRepo struct {
	members map[primitive.ObjectID]*domain.Member
}

func newStubMemberRepo() *stubMemberRepo {
	return &stubMemberRepo{members: make(map[primitive.ObjectID]*domain.Member)}
}

func (r *stubMemberRepo) put(m *domain.Member) *domain.Member {
	if m.ID == primitive.NilObjectID {
		m.ID = primitive.NewObjectID()
	}
	cp := *m
	r.members[m.ID] = &cp
	return m
}

func (r *stubMemberRepo) Create(_ context.Context, member *domain.Member) (primitive.ObjectID, error) {
	for _, m := range r.members {
		if strings.EqualFold(m.Email, member.Email) {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	member.ID = primitive.NewObjectID()
	cp := *member
	r.members[member.ID] = &cp
	return member.ID, nil
}

func (r *stubMemberRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Member, error) {
	m, ok := r.members[id]
	if !ok || m.Deleted {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *stubMemberRepo) GetByUUID(_ context.Context, uuid string) (*domain.Member, error) {
	for _, m := range r.members {
		if m.UUID == uuid && !m.Deleted {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubMemberRepo) GetByEmail(_ context.Context, email string) (*domain.Member, error) {
	for _, m := range r.members {
		if strings.EqualFold(m.Email, email) && !m.Deleted {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubMemberRepo) GetByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.Member, error) {
	var out []domain.Member
	for _, m := range r.members {
		if !m.Deleted && m.AssignedTrainerID != nil && *m.AssignedTrainerID == trainerID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMemberRepo) CountByTrainerID(ctx context.Context, trainerID primitive.ObjectID) (int64, error) {
	members, _ := r.GetByTrainerID(ctx, trainerID)
	return int64(len(members)), nil
}

func (r *stubMemberRepo) List(_ context.Context) ([]domain.Member, error) {
	var out []domain.Member
	for _, m := range r.members {
		if !m.Deleted {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMemberRepo) Update(_ context.Context, member *domain.Member) error {
	existing, ok := r.members[member.ID]
	if !ok || existing.Deleted {
		return repository.ErrNotFound
	}
	cp := *member
	r.members[member.ID] = &cp
	return nil
}

func (r *stubMemberRepo) SoftDelete(_ context.Context, id primitive.ObjectID, at time.Time) error {
	m, ok := r.members[id]
	if !ok || m.Deleted {
		return repository.ErrNotFound
	}
	m.MarkDeleted(at)
	return nil
}

func (r *stubMemberRepo) Restore(_ context.Context, id primitive.ObjectID) (*domain.Member, error) {
	m, ok := r.members[id]
	if !ok || !m.Deleted {
		return nil, repository.ErrNotFound
	}
	m.ClearDeleted()
	cp := *m
	return &cp, nil
}

// --- trainers ---

type stubTrainerRepo struct {
	trainers map[primitive.ObjectID]*domain.Trainer
}

func newStubTrainerRepo() *stubTrainerRepo {
	return &stubTrainerRepo{trainers: make(map[primitive.ObjectID]*domain.Trainer)}
}

func (r *stubTrainerRepo) put(t *domain.Trainer) *domain.Trainer {
	if t.ID == primitive.NilObjectID {
		t.ID = primitive.NewObjectID()
	}
	cp := *t
	r.trainers[t.ID] = &cp
	return t
}

func (r *stubTrainerRepo) Create(_ context.Context, trainer *domain.Trainer) (primitive.ObjectID, error) {
	for _, t := range r.trainers {
		if strings.EqualFold(t.Email, trainer.Email) {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	trainer.ID = primitive.NewObjectID()
	cp := *trainer
	r.trainers[trainer.ID] = &cp
	return trainer.ID, nil
}

func (r *stubTrainerRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	t, ok := r.trainers[id]
	if !ok || t.Deleted {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *stubTrainerRepo) GetByUUID(_ context.Context, uuid string) (*domain.Trainer, error) {
	for _, t := range r.trainers {
		if t.UUID == uuid && !t.Deleted {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubTrainerRepo) GetByEmail(_ context.Context, email string) (*domain.Trainer, error) {
	for _, t := range r.trainers {
		if strings.EqualFold(t.Email, email) && !t.Deleted {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubTrainerRepo) List(_ context.Context) ([]domain.Trainer, error) {
	var out []domain.Trainer
	for _, t := range r.trainers {
		if !t.Deleted {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTrainerRepo) Update(_ context.Context, trainer *domain.Trainer) error {
	existing, ok := r.trainers[trainer.ID]
	if !ok || existing.Deleted {
		return repository.ErrNotFound
	}
	cp := *trainer
	r.trainers[trainer.ID] = &cp
	return nil
}

func (r *stubTrainerRepo) SoftDelete(_ context.Context, id primitive.ObjectID, at time.Time) error {
	t, ok := r.trainers[id]
	if !ok || t.Deleted {
		return repository.ErrNotFound
	}
	t.MarkDeleted(at)
	return nil
}

func (r *stubTrainerRepo) Restore(_ context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	t, ok := r.trainers[id]
	if !ok || !t.Deleted {
		return nil, repository.ErrNotFound
	}
	t.ClearDeleted()
	cp := *t
	return &cp, nil
}

// --- exercises ---

type stubExerciseRepo struct {
	exercises map[primitive.ObjectID]*domain.Exercise
}

func newStubExerciseRepo() *stubExerciseRepo {
	return &stubExerciseRepo{exercises: make(map[primitive.ObjectID]*domain.Exercise)}
}

func (r *stubExerciseRepo) put(e *domain.Exercise) *domain.Exercise {
	if e.ID == primitive.NilObjectID {
		e.ID = primitive.NewObjectID()
	}
	cp := *e
	r.exercises[e.ID] = &cp
	return e
}

func (r *stubExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if !exercise.IsCustom {
		for _, e := range r.exercises {
			if !e.IsCustom && !e.Deleted && strings.EqualFold(e.Name, exercise.Name) {
				return primitive.NilObjectID, repository.ErrConflict
			}
		}
	}
	exercise.ID = primitive.NewObjectID()
	cp := *exercise
	r.exercises[exercise.ID] = &cp
	return exercise.ID, nil
}

func (r *stubExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	e, ok := r.exercises[id]
	if !ok || e.Deleted {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *stubExerciseRepo) GetCatalogByName(_ context.Context, name string) (*domain.Exercise, error) {
	for _, e := range r.exercises {
		if !e.IsCustom && !e.Deleted && strings.EqualFold(e.Name, name) {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubExerciseRepo) GetCatalog(_ context.Context) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, e := range r.exercises {
		if !e.IsCustom && !e.Deleted {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *stubExerciseRepo) GetCustomByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, e := range r.exercises {
		if e.IsCustom && !e.Deleted && e.TrainerID != nil && *e.TrainerID == trainerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *stubExerciseRepo) GetByCategory(_ context.Context, category domain.ExerciseCategory) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, e := range r.exercises {
		if !e.Deleted && e.Category == category {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *stubExerciseRepo) GetByMuscleGroup(_ context.Context, muscle domain.MuscleGroup) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, e := range r.exercises {
		if !e.Deleted && e.MuscleGroup == muscle {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *stubExerciseRepo) GetByDifficulty(_ context.Context, difficulty domain.Difficulty) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, e := range r.exercises {
		if !e.Deleted && e.Difficulty == difficulty {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *stubExerciseRepo) SearchByName(_ context.Context, substring string) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, e := range r.exercises {
		if !e.Deleted && strings.Contains(strings.ToLower(e.Name), strings.ToLower(substring)) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *stubExerciseRepo) CountCatalog(ctx context.Context) (int64, error) {
	catalog, _ := r.GetCatalog(ctx)
	return int64(len(catalog)), nil
}

func (r *stubExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	existing, ok := r.exercises[exercise.ID]
	if !ok || existing.Deleted {
		return repository.ErrNotFound
	}
	cp := *exercise
	r.exercises[exercise.ID] = &cp
	return nil
}

func (r *stubExerciseRepo) SoftDelete(_ context.Context, id primitive.ObjectID, at time.Time) error {
	e, ok := r.exercises[id]
	if !ok || e.Deleted {
		return repository.ErrNotFound
	}
	e.MarkDeleted(at)
	return nil
}

// --- assignment requests ---

type stubRequestRepo struct {
	requests map[primitive.ObjectID]*domain.TrainerAssignmentRequest
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{requests: make(map[primitive.ObjectID]*domain.TrainerAssignmentRequest)}
}

func (r *stubRequestRepo) put(req *domain.TrainerAssignmentRequest) *domain.TrainerAssignmentRequest {
	if req.ID == primitive.NilObjectID {
		req.ID = primitive.NewObjectID()
	}
	cp := *req
	r.requests[req.ID] = &cp
	return req
}

func (r *stubRequestRepo) Create(_ context.Context, request *domain.TrainerAssignmentRequest) (primitive.ObjectID, error) {
	// Mirrors the partial unique index on (memberId, status=pending).
	for _, existing := range r.requests {
		if existing.MemberID == request.MemberID && existing.Status == domain.RequestPending {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	request.ID = primitive.NewObjectID()
	cp := *request
	r.requests[request.ID] = &cp
	return request.ID, nil
}

func (r *stubRequestRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.TrainerAssignmentRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *stubRequestRepo) GetPendingByMemberID(_ context.Context, memberID primitive.ObjectID) (*domain.TrainerAssignmentRequest, error) {
	for _, req := range r.requests {
		if req.MemberID == memberID && req.Status == domain.RequestPending {
			cp := *req
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubRequestRepo) GetByMemberID(_ context.Context, memberID primitive.ObjectID) ([]domain.TrainerAssignmentRequest, error) {
	var out []domain.TrainerAssignmentRequest
	for _, req := range r.requests {
		if req.MemberID == memberID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *stubRequestRepo) GetByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.TrainerAssignmentRequest, error) {
	var out []domain.TrainerAssignmentRequest
	for _, req := range r.requests {
		if req.TrainerID == trainerID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *stubRequestRepo) GetPendingByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.TrainerAssignmentRequest, error) {
	var out []domain.TrainerAssignmentRequest
	for _, req := range r.requests {
		if req.TrainerID == trainerID && req.Status == domain.RequestPending {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *stubRequestRepo) CountPendingByTrainerID(ctx context.Context, trainerID primitive.ObjectID) (int64, error) {
	pending, _ := r.GetPendingByTrainerID(ctx, trainerID)
	return int64(len(pending)), nil
}

func (r *stubRequestRepo) Update(_ context.Context, request *domain.TrainerAssignmentRequest) error {
	if _, ok := r.requests[request.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *request
	r.requests[request.ID] = &cp
	return nil
}

// --- workout plans ---

type stubPlanRepo struct {
	plans map[primitive.ObjectID]*domain.WorkoutPlan
}

func newStubPlanRepo() *stubPlanRepo {
	return &stubPlanRepo{plans: make(map[primitive.ObjectID]*domain.WorkoutPlan)}
}

func (r *stubPlanRepo) Create(_ context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	plan.ID = primitive.NewObjectID()
	cp := *plan
	r.plans[plan.ID] = &cp
	return plan.ID, nil
}

func (r *stubPlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	p, ok := r.plans[id]
	if !ok || p.Deleted {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPlanRepo) GetByDayID(_ context.Context, dayID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	for _, p := range r.plans {
		if p.Deleted {
			continue
		}
		for i := range p.Days {
			if p.Days[i].ID == dayID {
				cp := *p
				return &cp, nil
			}
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubPlanRepo) GetByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	var out []domain.WorkoutPlan
	for _, p := range r.plans {
		if !p.Deleted && p.TrainerID == trainerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPlanRepo) GetByMemberID(_ context.Context, memberID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	var out []domain.WorkoutPlan
	for _, p := range r.plans {
		if !p.Deleted && p.MemberID == memberID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPlanRepo) GetActiveByMemberID(_ context.Context, memberID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	var out []domain.WorkoutPlan
	for _, p := range r.plans {
		if !p.Deleted && p.MemberID == memberID && p.Status == domain.PlanActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPlanRepo) CountActiveByMemberID(ctx context.Context, memberID primitive.ObjectID) (int64, error) {
	active, _ := r.GetActiveByMemberID(ctx, memberID)
	return int64(len(active)), nil
}

func (r *stubPlanRepo) Update(_ context.Context, plan *domain.WorkoutPlan) error {
	existing, ok := r.plans[plan.ID]
	if !ok || existing.Deleted {
		return repository.ErrNotFound
	}
	cp := *plan
	r.plans[plan.ID] = &cp
	return nil
}

func (r *stubPlanRepo) SoftDelete(_ context.Context, id primitive.ObjectID, at time.Time) error {
	p, ok := r.plans[id]
	if !ok || p.Deleted {
		return repository.ErrNotFound
	}
	p.MarkDeleted(at)
	return nil
}

// --- workout completions ---

type stubCompletionRepo struct {
	completions map[primitive.ObjectID]*domain.WorkoutCompletion
}

func newStubCompletionRepo() *stubCompletionRepo {
	return &stubCompletionRepo{completions: make(map[primitive.ObjectID]*domain.WorkoutCompletion)}
}

func (r *stubCompletionRepo) Create(_ context.Context, completion *domain.WorkoutCompletion) (primitive.ObjectID, error) {
	completion.ID = primitive.NewObjectID()
	cp := *completion
	r.completions[completion.ID] = &cp
	return completion.ID, nil
}

func (r *stubCompletionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutCompletion, error) {
	c, ok := r.completions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCompletionRepo) GetByMemberID(_ context.Context, memberID primitive.ObjectID) ([]domain.WorkoutCompletion, error) {
	var out []domain.WorkoutCompletion
	for _, c := range r.completions {
		if c.MemberID == memberID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCompletionRepo) GetByMemberIDAndRange(_ context.Context, memberID primitive.ObjectID, from, to time.Time) ([]domain.WorkoutCompletion, error) {
	var out []domain.WorkoutCompletion
	for _, c := range r.completions {
		if c.MemberID == memberID && !c.CompletedAt.Before(from) && !c.CompletedAt.After(to) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCompletionRepo) CountByMemberID(ctx context.Context, memberID primitive.ObjectID) (int64, error) {
	completions, _ := r.GetByMemberID(ctx, memberID)
	return int64(len(completions)), nil
}
