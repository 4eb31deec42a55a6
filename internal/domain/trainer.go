package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trainer represents a coach who can be assigned members and author
// workout plans for them.
type Trainer struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UUID         string             `bson:"uuid" json:"uuid"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"` // Unique
	PasswordHash string             `bson:"passwordHash" json:"-"`

	Specialty      string   `bson:"specialty,omitempty" json:"specialty,omitempty"`
	Certifications []string `bson:"certifications,omitempty" json:"certifications,omitempty"`
	HourlyRate     float64  `bson:"hourlyRate" json:"hourlyRate"` // Positive decimal
	Active         bool     `bson:"active" json:"active"`         // Inactive trainers cannot be requested

	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
	SoftDelete `bson:",inline"`
}
