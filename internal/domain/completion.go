package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutCompletion records a member finishing one workout day. The
// completion exclusively owns its exercise logs, which are embedded so
// the whole record is written atomically.
type WorkoutCompletion struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UUID     string             `bson:"uuid" json:"uuid"`
	MemberID primitive.ObjectID `bson:"memberId" json:"memberId"`

	PlanID       primitive.ObjectID `bson:"planId" json:"planId"` // Denormalized for history queries
	WorkoutDayID primitive.ObjectID `bson:"workoutDayId" json:"workoutDayId"`

	CompletedAt time.Time `bson:"completedAt" json:"completedAt"`
	Rating      *int      `bson:"rating,omitempty" json:"rating,omitempty"` // 1-5
	Notes       string    `bson:"notes,omitempty" json:"notes,omitempty"`

	Logs []ExerciseLog `bson:"logs" json:"logs"`

	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
	SoftDelete `bson:",inline"`
}

// ExerciseLog records the performed sets/reps for one prescribed exercise.
type ExerciseLog struct {
	ID                primitive.ObjectID `bson:"_id" json:"id"`
	WorkoutExerciseID primitive.ObjectID `bson:"workoutExerciseId" json:"workoutExerciseId"`
	ExerciseName      string             `bson:"exerciseName" json:"exerciseName"`

	SetsCompleted int      `bson:"setsCompleted" json:"setsCompleted"`
	RepsCompleted int      `bson:"repsCompleted" json:"repsCompleted"`
	WeightUsed    *float64 `bson:"weightUsed,omitempty" json:"weightUsed,omitempty"`
	Notes         string   `bson:"notes,omitempty" json:"notes,omitempty"`
}
