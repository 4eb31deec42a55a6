package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestStatus type for the trainer-request lifecycle.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestAccepted  RequestStatus = "accepted"  // Trainer took the member on
	RequestRejected  RequestStatus = "rejected"  // Trainer declined
	RequestCancelled RequestStatus = "cancelled" // Member withdrew before a response
)

// IsTerminal reports whether the status permits no further transitions.
// Pending is the only non-terminal state.
func (s RequestStatus) IsTerminal() bool {
	return s != RequestPending
}

// TrainerAssignmentRequest tracks a member's request to be coached by a
// trainer. At most one pending request exists per member at any time;
// the store enforces this with a partial unique index.
type TrainerAssignmentRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UUID      string             `bson:"uuid" json:"uuid"`
	MemberID  primitive.ObjectID `bson:"memberId" json:"memberId"`
	TrainerID primitive.ObjectID `bson:"trainerId" json:"trainerId"`

	Status          RequestStatus `bson:"status" json:"status"`
	Message         string        `bson:"message,omitempty" json:"message,omitempty"`                 // Optional note from the member
	TrainerResponse string        `bson:"trainerResponse,omitempty" json:"trainerResponse,omitempty"` // Set on accept/reject
	RequestedAt     time.Time     `bson:"requestedAt" json:"requestedAt"`
	RespondedAt     *time.Time    `bson:"respondedAt,omitempty" json:"respondedAt,omitempty"` // Set on any terminal transition

	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
	SoftDelete `bson:",inline"`
}
