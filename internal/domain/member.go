package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleMember  Role = "member"
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

// AssignmentStatus mirrors the lifecycle of a member's current (or most
// recent) trainer request. It is kept in lockstep with the request record
// by the assignment service.
type AssignmentStatus string

const (
	AssignmentNoTrainer AssignmentStatus = "no_trainer"
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentActive    AssignmentStatus = "active"
	AssignmentRejected  AssignmentStatus = "rejected"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

// Member represents a gym member.
type Member struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UUID         string             `bson:"uuid" json:"uuid"` // Stable public identifier
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Phone        string             `bson:"phone" json:"phone"`    // Unique among non-deleted members

	MembershipStart *time.Time `bson:"membershipStart,omitempty" json:"membershipStart,omitempty"`
	MembershipEnd   *time.Time `bson:"membershipEnd,omitempty" json:"membershipEnd,omitempty"`

	// Set only when a request reaches accepted; cleared by RemoveTrainer.
	AssignedTrainerID *primitive.ObjectID `bson:"assignedTrainerId,omitempty" json:"assignedTrainerId,omitempty"`
	AssignmentStatus  AssignmentStatus    `bson:"assignmentStatus" json:"assignmentStatus"`

	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
	SoftDelete `bson:",inline"`
}

// HasTrainer reports whether the member currently has an accepted trainer.
func (m *Member) HasTrainer() bool {
	return m.AssignedTrainerID != nil && *m.AssignedTrainerID != primitive.NilObjectID
}

// CanRequestTrainer reports whether the member is eligible to open a new
// trainer request. Rejected and cancelled count the same as no_trainer;
// only a live pending request or an active assignment blocks a new one.
func (m *Member) CanRequestTrainer() bool {
	return m.AssignmentStatus != AssignmentPending && m.AssignmentStatus != AssignmentActive
}
