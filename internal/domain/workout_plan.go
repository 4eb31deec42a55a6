package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanStatus type for the workout plan lifecycle.
type PlanStatus string

const (
	PlanDraft     PlanStatus = "draft"
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
	PlanPaused    PlanStatus = "paused"
)

// WorkoutPlan is a trainer-authored plan for one member. The plan
// exclusively owns its days, and each day its exercises, so the whole
// aggregate lives in one document; any mutation of the day list is a
// single atomic write.
type WorkoutPlan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UUID        string             `bson:"uuid" json:"uuid"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	TrainerID primitive.ObjectID `bson:"trainerId" json:"trainerId"` // Authoring trainer
	MemberID  primitive.ObjectID `bson:"memberId" json:"memberId"`   // Member the plan is for

	Status    PlanStatus `bson:"status" json:"status"`
	StartDate *time.Time `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate   *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Notes     string     `bson:"notes,omitempty" json:"notes,omitempty"`

	Days []WorkoutDay `bson:"days" json:"days"` // Insertion order preserved

	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
	SoftDelete `bson:",inline"`
}

// WorkoutDay is one training day inside a plan. DayNumber is caller
// supplied and conventionally unique within a plan, but not enforced.
type WorkoutDay struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	DayName   string             `bson:"dayName" json:"dayName"`
	DayNumber int                `bson:"dayNumber" json:"dayNumber"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`

	Exercises []WorkoutExercise `bson:"exercises" json:"exercises"`
}

// WorkoutExercise prescribes one exercise within a day. ExerciseName is a
// snapshot of the referenced exercise's name taken when the prescription
// is added, so plan and completion projections need no extra lookup.
type WorkoutExercise struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	ExerciseID   primitive.ObjectID `bson:"exerciseId" json:"exerciseId"` // Weak reference, no cascade
	ExerciseName string             `bson:"exerciseName" json:"exerciseName"`

	Sets           int      `bson:"sets" json:"sets"`
	Reps           int      `bson:"reps" json:"reps"`
	Weight         *float64 `bson:"weight,omitempty" json:"weight,omitempty"`
	RestSeconds    *int     `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	OrderInWorkout int      `bson:"orderInWorkout" json:"orderInWorkout"`
	Notes          string   `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Day returns the day with the given id, or nil.
func (p *WorkoutPlan) Day(dayID primitive.ObjectID) *WorkoutDay {
	for i := range p.Days {
		if p.Days[i].ID == dayID {
			return &p.Days[i]
		}
	}
	return nil
}

// Exercise returns the prescribed exercise with the given id, or nil.
func (d *WorkoutDay) Exercise(workoutExerciseID primitive.ObjectID) *WorkoutExercise {
	for i := range d.Exercises {
		if d.Exercises[i].ID == workoutExerciseID {
			return &d.Exercises[i]
		}
	}
	return nil
}
