package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ironloop/gym-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemberUpdateProfile(t *testing.T) {
	ctx := context.Background()
	memberRepo := newStubMemberRepo()
	svc := NewMemberService(memberRepo)

	member := memberRepo.put(&domain.Member{
		Name:             "Ada Member",
		Email:            "ada@example.com",
		Phone:            "+1111111",
		PasswordHash:     "hash",
		AssignmentStatus: domain.AssignmentNoTrainer,
	})

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	updated, err := svc.UpdateProfile(ctx, member.ID, MemberProfileUpdate{
		Name:            "Ada M.",
		Phone:           "+3333333",
		MembershipStart: &start,
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Name != "Ada M." || updated.Phone != "+3333333" {
		t.Fatalf("profile not updated: %+v", updated)
	}
	if updated.PasswordHash != "" {
		t.Fatal("password hash must not leak out of the service")
	}
	if updated.MembershipStart == nil || !updated.MembershipStart.Equal(start) {
		t.Fatal("expected membership start recorded")
	}

	if _, err := svc.UpdateProfile(ctx, member.ID, MemberProfileUpdate{Name: "", Phone: "+3333333"}); err == nil {
		t.Fatal("expected error for empty name")
	}
	if _, err := svc.UpdateProfile(ctx, primitive.NewObjectID(), MemberProfileUpdate{Name: "X", Phone: "+4"}); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestMemberDeleteAndRestore(t *testing.T) {
	ctx := context.Background()
	memberRepo := newStubMemberRepo()
	svc := NewMemberService(memberRepo)

	member := memberRepo.put(&domain.Member{
		Name:             "Ada Member",
		Email:            "ada@example.com",
		Phone:            "+1111111",
		AssignmentStatus: domain.AssignmentNoTrainer,
	})

	if err := svc.DeleteMember(ctx, member.ID); err != nil {
		t.Fatalf("DeleteMember failed: %v", err)
	}

	if _, err := svc.GetMemberByID(ctx, member.ID); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound for deleted member, got %v", err)
	}
	members, err := svc.ListMembers(ctx)
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("expected deleted member hidden from listings, got %d", len(members))
	}
	if err := svc.DeleteMember(ctx, member.ID); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound on double delete, got %v", err)
	}

	restored, err := svc.RestoreMember(ctx, member.ID)
	if err != nil {
		t.Fatalf("RestoreMember failed: %v", err)
	}
	if restored.Name != "Ada Member" || restored.Email != "ada@example.com" || restored.Phone != "+1111111" {
		t.Fatalf("restore must keep all fields intact, got %+v", restored)
	}
	if restored.IsDeleted() {
		t.Fatal("restored member must not be marked deleted")
	}

	if _, err := svc.GetMemberByID(ctx, member.ID); err != nil {
		t.Fatalf("restored member should be readable: %v", err)
	}
	if _, err := svc.RestoreMember(ctx, member.ID); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound restoring a live member, got %v", err)
	}
}

func TestGetMemberByUUID(t *testing.T) {
	ctx := context.Background()
	memberRepo := newStubMemberRepo()
	svc := NewMemberService(memberRepo)

	member := memberRepo.put(&domain.Member{
		UUID:             "3e9c9e3a-0000-0000-0000-000000000001",
		Name:             "Ada Member",
		Email:            "ada@example.com",
		AssignmentStatus: domain.AssignmentNoTrainer,
	})

	found, err := svc.GetMemberByUUID(ctx, member.UUID)
	if err != nil {
		t.Fatalf("GetMemberByUUID failed: %v", err)
	}
	if found.ID != member.ID {
		t.Fatal("expected lookup by public identifier to find the member")
	}

	if _, err := svc.GetMemberByUUID(ctx, "missing"); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}
