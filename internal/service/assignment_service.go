package service

import (
	"context"
	"errors"
	"time"

	"ironloop/gym-app/internal/domain"
	"ironloop/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrMemberNotFound          = errors.New("member not found")
	ErrTrainerNotFound         = errors.New("trainer not found")
	ErrRequestNotFound         = errors.New("assignment request not found")
	ErrRequestAlreadyPending   = errors.New("member already has a pending request")
	ErrMemberAlreadyAssigned   = errors.New("member already has an assigned trainer")
	ErrRequestAlreadyResponded = errors.New("request has already been responded to")
	ErrRequestAccessDenied     = errors.New("no permission to respond to this request")
	ErrOnlyPendingCancellable  = errors.New("only a pending request can be cancelled")
	ErrNoTrainerToRemove       = errors.New("member has no trainer to remove")
)

// AssignmentService owns the trainer-request state machine. Pending is the
// only non-terminal request state; each terminal transition also rewrites
// the member's assignment status, and the two writes commit together.
type AssignmentService interface {
	RequestTrainer(ctx context.Context, memberID, trainerID primitive.ObjectID, message string) (*domain.TrainerAssignmentRequest, error)
	AcceptRequest(ctx context.Context, requestID, trainerID primitive.ObjectID, response string) (*domain.TrainerAssignmentRequest, error)
	RejectRequest(ctx context.Context, requestID, trainerID primitive.ObjectID, response string) (*domain.TrainerAssignmentRequest, error)
	CancelRequest(ctx context.Context, requestID, memberID primitive.ObjectID) (*domain.TrainerAssignmentRequest, error)
	RemoveTrainer(ctx context.Context, memberID primitive.ObjectID) (*domain.Member, error)

	GetRequestByID(ctx context.Context, requestID primitive.ObjectID) (*domain.TrainerAssignmentRequest, error)
	GetRequestsForMember(ctx context.Context, memberID primitive.ObjectID) ([]domain.TrainerAssignmentRequest, error)
	GetRequestsForTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainerAssignmentRequest, error)
	GetPendingRequestsForTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainerAssignmentRequest, error)
	CountPendingForTrainer(ctx context.Context, trainerID primitive.ObjectID) (int64, error)
}

type assignmentService struct {
	memberRepo  repository.MemberRepository
	trainerRepo repository.TrainerRepository
	requestRepo repository.RequestRepository
	sessions    repository.SessionRunner
}

// NewAssignmentService creates a new instance of assignmentService.
func NewAssignmentService(
	memberRepo repository.MemberRepository,
	trainerRepo repository.TrainerRepository,
	requestRepo repository.RequestRepository,
	sessions repository.SessionRunner,
) AssignmentService {
	return &assignmentService{
		memberRepo:  memberRepo,
		trainerRepo: trainerRepo,
		requestRepo: requestRepo,
		sessions:    sessions,
	}
}

// RequestTrainer opens a pending request from a member to an active
// trainer. Rejected and cancelled members are as eligible as members who
// never requested; only a live pending request or an active assignment
// blocks.
func (s *assignmentService) RequestTrainer(ctx context.Context, memberID, trainerID primitive.ObjectID, message string) (*domain.TrainerAssignmentRequest, error) {
	if memberID == primitive.NilObjectID || trainerID == primitive.NilObjectID {
		return nil, errors.New("member ID and trainer ID are required")
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	if member.AssignmentStatus == domain.AssignmentActive || member.HasTrainer() {
		return nil, ErrMemberAlreadyAssigned
	}
	if member.AssignmentStatus == domain.AssignmentPending {
		return nil, ErrRequestAlreadyPending
	}
	if _, err := s.requestRepo.GetPendingByMemberID(ctx, memberID); err == nil {
		return nil, ErrRequestAlreadyPending
	} else if !errors.Is(err, repository.ErrNotFound) {
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

	request := &domain.TrainerAssignmentRequest{
		MemberID:    memberID,
		TrainerID:   trainerID,
		Status:      domain.RequestPending,
		Message:     message,
		RequestedAt: time.Now().UTC(),
	}

	err = s.sessions.WithTransaction(ctx, func(txCtx context.Context) error {
		requestID, err := s.requestRepo.Create(txCtx, request)
		if err != nil {
			return err
		}
		request.ID = requestID

		member.AssignmentStatus = domain.AssignmentPending
		return s.memberRepo.Update(txCtx, member)
	})
	if err != nil {
		// The partial unique index catches the race where two concurrent
		// requests for the same member both pass the pending check.
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrRequestAlreadyPending
		}
		return nil, err
	}

	return request, nil
}

// AcceptRequest transitions a pending request to accepted and assigns the
// trainer to the member. This is the only path by which a member's
// assigned trainer becomes non-nil.
func (s *assignmentService) AcceptRequest(ctx context.Context, requestID, trainerID primitive.ObjectID, response string) (*domain.TrainerAssignmentRequest, error) {
	return s.respond(ctx, requestID, trainerID, response, domain.RequestAccepted)
}

// RejectRequest transitions a pending request to rejected. The member's
// assigned trainer is left untouched.
func (s *assignmentService) RejectRequest(ctx context.Context, requestID, trainerID primitive.ObjectID, response string) (*domain.TrainerAssignmentRequest, error) {
	return s.respond(ctx, requestID, trainerID, response, domain.RequestRejected)
}

func (s *assignmentService) respond(ctx context.Context, requestID, trainerID primitive.ObjectID, response string, outcome domain.RequestStatus) (*domain.TrainerAssignmentRequest, error) {
	if requestID == primitive.NilObjectID || trainerID == primitive.NilObjectID {
		return nil, errors.New("request ID and trainer ID are required")
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if request.TrainerID != trainerID {
		return nil, ErrRequestAccessDenied
	}
	if request.Status.IsTerminal() {
		return nil, ErrRequestAlreadyResponded
	}

	member, err := s.memberRepo.GetByID(ctx, request.MemberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	request.Status = outcome
	request.TrainerResponse = response
	request.RespondedAt = &now

	switch outcome {
	case domain.RequestAccepted:
		member.AssignedTrainerID = &trainerID
		member.AssignmentStatus = domain.AssignmentActive
	case domain.RequestRejected:
		member.AssignmentStatus = domain.AssignmentRejected
	}

	err = s.sessions.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.requestRepo.Update(txCtx, request); err != nil {
			return err
		}
		return s.memberRepo.Update(txCtx, member)
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// CancelRequest lets the requesting member withdraw a still-pending request.
func (s *assignmentService) CancelRequest(ctx context.Context, requestID, memberID primitive.ObjectID) (*domain.TrainerAssignmentRequest, error) {
	if requestID == primitive.NilObjectID || memberID == primitive.NilObjectID {
		return nil, errors.New("request ID and member ID are required")
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if request.MemberID != memberID {
		return nil, ErrRequestAccessDenied
	}
	if request.Status.IsTerminal() {
		return nil, ErrOnlyPendingCancellable
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	request.Status = domain.RequestCancelled
	request.RespondedAt = &now
	member.AssignmentStatus = domain.AssignmentNoTrainer

	err = s.sessions.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.requestRepo.Update(txCtx, request); err != nil {
			return err
		}
		return s.memberRepo.Update(txCtx, member)
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// RemoveTrainer clears a member's assigned trainer. Request history is
// untouched: this is a pure unassignment.
func (s *assignmentService) RemoveTrainer(ctx context.Context, memberID primitive.ObjectID) (*domain.Member, error) {
	if memberID == primitive.NilObjectID {
		return nil, errors.New("member ID is required")
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	if !member.HasTrainer() {
		return nil, ErrNoTrainerToRemove
	}

	member.AssignedTrainerID = nil
	member.AssignmentStatus = domain.AssignmentNoTrainer
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	member.PasswordHash = ""
	return member, nil
}

// === Read operations ===

func (s *assignmentService) GetRequestByID(ctx context.Context, requestID primitive.ObjectID) (*domain.TrainerAssignmentRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return request, nil
}

func (s *assignmentService) GetRequestsForMember(ctx context.Context, memberID primitive.ObjectID) ([]domain.TrainerAssignmentRequest, error) {
	if memberID == primitive.NilObjectID {
		return nil, errors.New("member ID is required")
	}
	return s.requestRepo.GetByMemberID(ctx, memberID)
}

func (s *assignmentService) GetRequestsForTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainerAssignmentRequest, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	return s.requestRepo.GetByTrainerID(ctx, trainerID)
}

func (s *assignmentService) GetPendingRequestsForTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainerAssignmentRequest, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	return s.requestRepo.GetPendingByTrainerID(ctx, trainerID)
}

func (s *assignmentService) CountPendingForTrainer(ctx context.Context, trainerID primitive.ObjectID) (int64, error) {
	if trainerID == primitive.NilObjectID {
		return 0, errors.New("trainer ID is required")
	}
	return s.requestRepo.CountPendingByTrainerID(ctx, trainerID)
}
