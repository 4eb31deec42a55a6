package service

import (
	"context"
	"errors"
	"testing"

	"ironloop/gym-app/internal/domain"
)

func newTrainerFixture() (TrainerService, *stubTrainerRepo, *stubMemberRepo) {
	trainerRepo := newStubTrainerRepo()
	memberRepo := newStubMemberRepo()
	return NewTrainerService(trainerRepo, memberRepo), trainerRepo, memberRepo
}

func TestTrainerUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, trainerRepo, _ := newTrainerFixture()

	trainer := trainerRepo.put(&domain.Trainer{
		Name: "Tom Trainer", Email: "tom@example.com", HourlyRate: 50, Active: true,
	})

	updated, err := svc.UpdateProfile(ctx, trainer.ID, TrainerProfileUpdate{
		Name:           "Tom T.",
		Specialty:      "mobility",
		Certifications: []string{"CSCS"},
		HourlyRate:     65,
		Active:         false,
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Specialty != "mobility" || updated.HourlyRate != 65 || updated.Active {
		t.Fatalf("profile not updated: %+v", updated)
	}

	_, err = svc.UpdateProfile(ctx, trainer.ID, TrainerProfileUpdate{Name: "Tom", HourlyRate: -1})
	if !errors.Is(err, ErrInvalidHourlyRate) {
		t.Fatalf("expected ErrInvalidHourlyRate, got %v", err)
	}
}

func TestTrainerDeleteAndRestore(t *testing.T) {
	ctx := context.Background()
	svc, trainerRepo, _ := newTrainerFixture()

	trainer := trainerRepo.put(&domain.Trainer{
		Name: "Tom Trainer", Email: "tom@example.com", HourlyRate: 50, Active: true,
	})

	if err := svc.DeleteTrainer(ctx, trainer.ID); err != nil {
		t.Fatalf("DeleteTrainer failed: %v", err)
	}
	if _, err := svc.GetTrainerByID(ctx, trainer.ID); !errors.Is(err, ErrTrainerNotFound) {
		t.Fatalf("expected ErrTrainerNotFound for deleted trainer, got %v", err)
	}

	restored, err := svc.RestoreTrainer(ctx, trainer.ID)
	if err != nil {
		t.Fatalf("RestoreTrainer failed: %v", err)
	}
	if restored.Name != "Tom Trainer" || restored.HourlyRate != 50 || !restored.Active {
		t.Fatalf("restore must keep all fields intact, got %+v", restored)
	}
}

func TestTrainerRosterAndCapacity(t *testing.T) {
	ctx := context.Background()
	svc, trainerRepo, memberRepo := newTrainerFixture()

	trainer := trainerRepo.put(&domain.Trainer{
		Name: "Tom Trainer", Email: "tom@example.com", HourlyRate: 50, Active: true,
	})

	available, err := svc.HasCapacity(ctx, trainer.ID)
	if err != nil {
		t.Fatalf("HasCapacity failed: %v", err)
	}
	if !available {
		t.Fatal("trainer with no members should have capacity")
	}

	trainerID := trainer.ID
	memberRepo.put(&domain.Member{
		Name:              "Ada Member",
		Email:             "ada@example.com",
		PasswordHash:      "hash",
		AssignedTrainerID: &trainerID,
		AssignmentStatus:  domain.AssignmentActive,
	})

	roster, err := svc.GetAssignedMembers(ctx, trainer.ID)
	if err != nil {
		t.Fatalf("GetAssignedMembers failed: %v", err)
	}
	if len(roster) != 1 || roster[0].Name != "Ada Member" {
		t.Fatalf("expected the assigned member in the roster, got %+v", roster)
	}
	if roster[0].PasswordHash != "" {
		t.Fatal("password hash must not leak out of the service")
	}

	available, err = svc.HasCapacity(ctx, trainer.ID)
	if err != nil {
		t.Fatalf("HasCapacity failed: %v", err)
	}
	if available {
		t.Fatal("trainer with an assigned member is not available")
	}
}
