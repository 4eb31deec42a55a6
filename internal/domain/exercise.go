package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseCategory groups exercises by training modality.
type ExerciseCategory string

const (
	CategoryStrength    ExerciseCategory = "strength"
	CategoryCardio      ExerciseCategory = "cardio"
	CategoryFlexibility ExerciseCategory = "flexibility"
	CategoryBalance     ExerciseCategory = "balance"
	CategoryFunctional  ExerciseCategory = "functional"
)

// MuscleGroup identifies the primary muscle an exercise targets.
type MuscleGroup string

const (
	MuscleChest     MuscleGroup = "chest"
	MuscleBack      MuscleGroup = "back"
	MuscleShoulders MuscleGroup = "shoulders"
	MuscleArms      MuscleGroup = "arms"
	MuscleLegs      MuscleGroup = "legs"
	MuscleCore      MuscleGroup = "core"
	MuscleFullBody  MuscleGroup = "full_body"
)

// Difficulty rates how demanding an exercise is.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Exercise is a single exercise definition. Catalog exercises
// (IsCustom=false) are visible to everyone and have no owner; custom
// exercises belong to the trainer who created them and are enforced as
// private at the service layer.
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UUID        string             `bson:"uuid" json:"uuid"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	Category     ExerciseCategory `bson:"category" json:"category"`
	MuscleGroup  MuscleGroup      `bson:"muscleGroup" json:"muscleGroup"`
	Difficulty   Difficulty       `bson:"difficulty" json:"difficulty"`
	Instructions string           `bson:"instructions,omitempty" json:"instructions,omitempty"`
	Equipment    string           `bson:"equipment,omitempty" json:"equipment,omitempty"`
	MediaURLs    []string         `bson:"mediaUrls,omitempty" json:"mediaUrls,omitempty"`

	IsCustom  bool                `bson:"isCustom" json:"isCustom"`
	TrainerID *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"` // Set iff IsCustom

	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
	SoftDelete `bson:",inline"`
}

// OwnedBy reports whether a custom exercise belongs to the given trainer.
// Catalog exercises have no owner.
func (e *Exercise) OwnedBy(trainerID primitive.ObjectID) bool {
	return e.IsCustom && e.TrainerID != nil && *e.TrainerID == trainerID
}
